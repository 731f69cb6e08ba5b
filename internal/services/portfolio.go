package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type PortfolioService struct {
	sender Sender
}

func (s *PortfolioService) List(ctx context.Context, filter models.PortfolioFilter) (models.PortfolioPage, error) {
	query := pageQuery(filter.Page, filter.Limit)
	for key, value := range map[string]string{
		"categoryId": filter.CategoryID,
		"studentId":  filter.StudentID,
		"classId":    filter.ClassID,
		"search":     filter.Search,
		"sortBy":     filter.SortBy,
		"sortOrder":  filter.SortOrder,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}
	if filter.MinGrade != nil {
		query.Set("minGrade", strconv.FormatFloat(*filter.MinGrade, 'f', -1, 64))
	}
	return call[models.PortfolioPage](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/portfolio", Query: query})
}

func (s *PortfolioService) Get(ctx context.Context, id string) (models.Portfolio, error) {
	res, err := call[models.PortfolioPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: portfolioPath(id)})
	return res.Portfolio, err
}

// Create uploads the artwork as a multipart form.
func (s *PortfolioService) Create(ctx context.Context, req models.CreatePortfolioRequest) (models.Portfolio, error) {
	if req.Image == nil {
		return models.Portfolio{}, fmt.Errorf("the portfolio image is missing")
	}
	fields := []formField{{"title", req.Title}}
	if req.Description != "" {
		fields = append(fields, formField{"description", req.Description})
	}
	if req.CategoryID != "" {
		fields = append(fields, formField{"categoryId", req.CategoryID})
	}
	if req.IsPublic != nil {
		fields = append(fields, formField{"isPublic", strconv.FormatBool(*req.IsPublic)})
	}
	return s.sendForm(ctx, http.MethodPost, "/portfolio", fields, &formFile{"image", fileName(req.ImageName, "artwork"), req.Image})
}

// Update only sends the fields that are set. The image is replaced when one is given.
func (s *PortfolioService) Update(ctx context.Context, id string, req models.UpdatePortfolioRequest) (models.Portfolio, error) {
	fields := []formField{}
	if req.Title != nil && *req.Title != "" {
		fields = append(fields, formField{"title", *req.Title})
	}
	if req.Description != nil {
		fields = append(fields, formField{"description", *req.Description})
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		fields = append(fields, formField{"categoryId", *req.CategoryID})
	}
	if req.IsPublic != nil {
		fields = append(fields, formField{"isPublic", strconv.FormatBool(*req.IsPublic)})
	}
	var file *formFile
	if req.Image != nil {
		file = &formFile{"image", fileName(req.ImageName, "artwork"), req.Image}
	}
	return s.sendForm(ctx, http.MethodPut, portfolioPath(id), fields, file)
}

func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: portfolioPath(id)})
}

func (s *PortfolioService) Like(ctx context.Context, id string) (models.Portfolio, error) {
	res, err := call[models.PortfolioPayload](ctx, s.sender, pipeline.Request{Method: http.MethodPost, Path: portfolioPath(id) + "/like"})
	return res.Portfolio, err
}

func (s *PortfolioService) Unlike(ctx context.Context, id string) (models.Portfolio, error) {
	res, err := call[models.PortfolioPayload](ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: portfolioPath(id) + "/like"})
	return res.Portfolio, err
}

func (s *PortfolioService) sendForm(ctx context.Context, method, path string, fields []formField, file *formFile) (models.Portfolio, error) {
	body, contentType, err := multipartBody(fields, file)
	if err != nil {
		return models.Portfolio{}, err
	}
	res, err := call[models.PortfolioPayload](ctx, s.sender, pipeline.Request{
		Method:      method,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	})
	return res.Portfolio, err
}

func portfolioPath(id string) string {
	return "/portfolio/" + url.PathEscape(id)
}
