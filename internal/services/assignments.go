package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type AssignmentService struct {
	sender Sender
}

func pageQuery(page, limit int) url.Values {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) (models.Page[models.Assignment], error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.ClassID != "" {
		query.Set("classId", filter.ClassID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return call[models.Page[models.Assignment]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/assignments",
		Query:  query,
	})
}

func (s *AssignmentService) Get(ctx context.Context, id string) (models.Assignment, error) {
	res, err := call[models.AssignmentPayload](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/assignments/" + url.PathEscape(id),
	})
	return res.Assignment, err
}

func (s *AssignmentService) Create(ctx context.Context, req models.CreateAssignmentRequest) (models.Assignment, error) {
	res, err := sendJSON[models.AssignmentPayload](ctx, s.sender, http.MethodPost, "/assignments", req)
	return res.Assignment, err
}

func (s *AssignmentService) Update(ctx context.Context, id string, req models.UpdateAssignmentRequest) (models.Assignment, error) {
	res, err := sendJSON[models.AssignmentPayload](ctx, s.sender, http.MethodPut, "/assignments/"+url.PathEscape(id), req)
	return res.Assignment, err
}

func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: "/assignments/" + url.PathEscape(id)})
}

// BulkUpdateStatus returns the number of updated assignments.
func (s *AssignmentService) BulkUpdateStatus(ctx context.Context, ids []string, status models.AssignmentStatus) (int, error) {
	res, err := sendJSON[models.Count](
		ctx,
		s.sender,
		http.MethodPut,
		"/assignments/bulk-status",
		models.BulkStatusRequest{AssignmentIDs: ids, Status: status},
	)
	return res.Count, err
}
