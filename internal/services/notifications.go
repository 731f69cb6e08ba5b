package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type NotificationService struct {
	sender Sender
}

func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) (models.Page[models.Notification], error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.IsRead != nil {
		query.Set("isRead", strconv.FormatBool(*filter.IsRead))
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	return call[models.Page[models.Notification]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/notifications",
		Query:  query,
	})
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	res, err := call[models.Count](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/notifications/unread/count"})
	return res.Count, err
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	res, err := call[models.NotificationPayload](ctx, s.sender, pipeline.Request{
		Method: http.MethodPut,
		Path:   "/notifications/" + url.PathEscape(id) + "/read",
	})
	return res.Notification, err
}

// MarkAllRead returns the number of notifications that were unread.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	res, err := call[models.Count](ctx, s.sender, pipeline.Request{Method: http.MethodPut, Path: "/notifications/read-all"})
	return res.Count, err
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodDelete, Path: "/notifications/" + url.PathEscape(id)})
}
