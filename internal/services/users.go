package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type UserService struct {
	sender Sender
}

func (s *UserService) List(ctx context.Context, filter models.UserFilter) (models.Page[models.User], error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.Role != "" {
		query.Set("role", string(filter.Role))
	}
	if filter.ClassID != "" {
		query.Set("classId", filter.ClassID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	return call[models.Page[models.User]](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/users", Query: query})
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	res, err := call[models.UserPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/users/" + url.PathEscape(id)})
	return res.User, err
}

// Create is only allowed for teachers.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	res, err := sendJSON[models.UserPayload](ctx, s.sender, http.MethodPost, "/users", req)
	return res.User, err
}

// Update sends JSON unless an avatar is attached, then the profile goes as a multipart form.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error) {
	path := "/users/" + url.PathEscape(id)
	if req.Avatar == nil {
		res, err := sendJSON[models.UserPayload](ctx, s.sender, http.MethodPut, path, req)
		return res.User, err
	}
	fields := []formField{}
	for _, field := range []formField{
		{"name", req.Name},
		{"phone", req.Phone},
		{"address", req.Address},
		{"bio", req.Bio},
		{"birthdate", req.Birthdate},
		{"classId", req.ClassID},
	} {
		if field.value != "" {
			fields = append(fields, field)
		}
	}
	for _, classID := range req.ClassIDs {
		fields = append(fields, formField{"classIds[]", classID})
	}
	body, contentType, err := multipartBody(fields, &formFile{"avatar", fileName(req.AvatarName, "avatar"), req.Avatar})
	if err != nil {
		return models.User{}, err
	}
	res, err := call[models.UserPayload](ctx, s.sender, pipeline.Request{
		Method:      http.MethodPut,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	})
	return res.User, err
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: "/users/" + url.PathEscape(id)})
}

// ImportStudents uploads an Excel sheet of students. Rows that fail are listed in the result.
func (s *UserService) ImportStudents(ctx context.Context, filename string, sheet io.Reader) (models.ImportResult, error) {
	if sheet == nil {
		return models.ImportResult{}, fmt.Errorf("the import file is missing")
	}
	body, contentType, err := multipartBody(nil, &formFile{"file", fileName(filename, "students.xlsx"), sheet})
	if err != nil {
		return models.ImportResult{}, err
	}
	return call[models.ImportResult](ctx, s.sender, pipeline.Request{
		Method:      http.MethodPost,
		Path:        "/users/import",
		Body:        body,
		ContentType: contentType,
	})
}
