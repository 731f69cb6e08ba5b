package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type SubmissionService struct {
	sender Sender
}

func (s *SubmissionService) List(ctx context.Context, filter models.SubmissionFilter) (models.Page[models.Submission], error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.AssignmentID != "" {
		query.Set("assignmentId", filter.AssignmentID)
	}
	if filter.StudentID != "" {
		query.Set("studentId", filter.StudentID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return call[models.Page[models.Submission]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/submissions",
		Query:  query,
	})
}

func (s *SubmissionService) Get(ctx context.Context, id string) (models.Submission, error) {
	res, err := call[models.SubmissionPayload](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/submissions/" + url.PathEscape(id),
	})
	return res.Submission, err
}

// Create uploads the artwork as a multipart form.
func (s *SubmissionService) Create(ctx context.Context, req models.CreateSubmissionRequest) (models.Submission, error) {
	if req.Image == nil {
		return models.Submission{}, fmt.Errorf("the submission image is missing")
	}
	fields := []formField{{"assignmentId", req.AssignmentID}, {"title", req.Title}}
	if req.Description != "" {
		fields = append(fields, formField{"description", req.Description})
	}
	body, contentType, err := multipartBody(fields, &formFile{"image", fileName(req.ImageName, "artwork"), req.Image})
	if err != nil {
		return models.Submission{}, err
	}
	res, err := call[models.SubmissionPayload](ctx, s.sender, pipeline.Request{
		Method:      http.MethodPost,
		Path:        "/submissions",
		Body:        body,
		ContentType: contentType,
	})
	return res.Submission, err
}

func (s *SubmissionService) Grade(ctx context.Context, id string, req models.GradeSubmissionRequest) (models.Submission, error) {
	res, err := sendJSON[models.SubmissionPayload](ctx, s.sender, http.MethodPost, "/submissions/"+url.PathEscape(id)+"/grade", req)
	return res.Submission, err
}

func (s *SubmissionService) ReturnForRevision(ctx context.Context, id string, note string) (models.Submission, error) {
	res, err := sendJSON[models.SubmissionPayload](
		ctx,
		s.sender,
		http.MethodPost,
		"/submissions/"+url.PathEscape(id)+"/revision",
		models.ReturnForRevisionRequest{RevisionNote: note},
	)
	return res.Submission, err
}
