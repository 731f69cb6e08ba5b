package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

func catalogQuery(filter models.CatalogFilter) url.Values {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.IsActive != nil {
		query.Set("isActive", strconv.FormatBool(*filter.IsActive))
	}
	return query
}

func deleteQuery(force bool) url.Values {
	return url.Values{"force": {strconv.FormatBool(force)}}
}

type ClassService struct {
	sender Sender
}

func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) (models.Page[models.Class], error) {
	query := catalogQuery(filter.CatalogFilter)
	if filter.TeacherID != "" {
		query.Set("teacherId", filter.TeacherID)
	}
	return call[models.Page[models.Class]](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/classes", Query: query})
}

func (s *ClassService) Get(ctx context.Context, id string) (models.Class, error) {
	res, err := call[models.ClassPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/classes/" + url.PathEscape(id)})
	return res.Class, err
}

func (s *ClassService) Create(ctx context.Context, req models.ClassRequest) (models.Class, error) {
	res, err := sendJSON[models.ClassPayload](ctx, s.sender, http.MethodPost, "/classes", req)
	return res.Class, err
}

func (s *ClassService) Update(ctx context.Context, id string, req models.ClassRequest) (models.Class, error) {
	res, err := sendJSON[models.ClassPayload](ctx, s.sender, http.MethodPut, "/classes/"+url.PathEscape(id), req)
	return res.Class, err
}

func (s *ClassService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: "/classes/" + url.PathEscape(id)})
}

type CategoryService struct {
	sender Sender
}

func (s *CategoryService) List(ctx context.Context, filter models.CatalogFilter) (models.Page[models.Category], error) {
	return call[models.Page[models.Category]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/categories",
		Query:  catalogQuery(filter),
	})
}

func (s *CategoryService) Get(ctx context.Context, id string) (models.Category, error) {
	res, err := call[models.CategoryPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/categories/" + url.PathEscape(id)})
	return res.Category, err
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (models.Category, error) {
	res, err := sendJSON[models.CategoryPayload](ctx, s.sender, http.MethodPost, "/categories", req)
	return res.Category, err
}

func (s *CategoryService) Update(ctx context.Context, id string, req models.CategoryRequest) (models.Category, error) {
	res, err := sendJSON[models.CategoryPayload](ctx, s.sender, http.MethodPut, "/categories/"+url.PathEscape(id), req)
	return res.Category, err
}

// Delete refuses categories that are still in use unless force is set.
func (s *CategoryService) Delete(ctx context.Context, id string, force bool) error {
	return callNoData(ctx, s.sender, pipeline.Request{
		Method: http.MethodDelete,
		Path:   "/categories/" + url.PathEscape(id),
		Query:  deleteQuery(force),
	})
}

type MediaTypeService struct {
	sender Sender
}

func (s *MediaTypeService) List(ctx context.Context, filter models.CatalogFilter) (models.Page[models.MediaType], error) {
	return call[models.Page[models.MediaType]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/media-types",
		Query:  catalogQuery(filter),
	})
}

func (s *MediaTypeService) Get(ctx context.Context, id string) (models.MediaType, error) {
	res, err := call[models.MediaTypePayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/media-types/" + url.PathEscape(id)})
	return res.MediaType, err
}

func (s *MediaTypeService) Create(ctx context.Context, req models.MediaTypeRequest) (models.MediaType, error) {
	res, err := sendJSON[models.MediaTypePayload](ctx, s.sender, http.MethodPost, "/media-types", req)
	return res.MediaType, err
}

func (s *MediaTypeService) Update(ctx context.Context, id string, req models.MediaTypeRequest) (models.MediaType, error) {
	res, err := sendJSON[models.MediaTypePayload](ctx, s.sender, http.MethodPut, "/media-types/"+url.PathEscape(id), req)
	return res.MediaType, err
}

func (s *MediaTypeService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: "/media-types/" + url.PathEscape(id)})
}
