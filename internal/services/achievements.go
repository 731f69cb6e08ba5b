package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type AchievementService struct {
	sender Sender
}

func (s *AchievementService) List(ctx context.Context, filter models.CatalogFilter) (models.Page[models.Achievement], error) {
	return call[models.Page[models.Achievement]](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/achievements",
		Query:  catalogQuery(filter),
	})
}

func (s *AchievementService) Get(ctx context.Context, id string) (models.Achievement, error) {
	res, err := call[models.AchievementPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/achievements/" + url.PathEscape(id)})
	return res.Achievement, err
}

// Mine lists the achievements unlocked by the logged in user.
func (s *AchievementService) Mine(ctx context.Context) ([]models.UserAchievement, error) {
	res, err := call[models.UserAchievementsPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/achievements/me/achievements"})
	return res.Achievements, err
}

func (s *AchievementService) ForUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	res, err := call[models.UserAchievementsPayload](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/achievements/user/" + url.PathEscape(userID),
	})
	return res.Achievements, err
}

func (s *AchievementService) Create(ctx context.Context, req models.AchievementRequest) (models.Achievement, error) {
	res, err := sendJSON[models.AchievementPayload](ctx, s.sender, http.MethodPost, "/achievements", req)
	return res.Achievement, err
}

func (s *AchievementService) Update(ctx context.Context, id string, req models.AchievementRequest) (models.Achievement, error) {
	res, err := sendJSON[models.AchievementPayload](ctx, s.sender, http.MethodPut, "/achievements/"+url.PathEscape(id), req)
	return res.Achievement, err
}

// Delete refuses achievements that were already unlocked unless force is set.
func (s *AchievementService) Delete(ctx context.Context, id string, force bool) error {
	return callNoData(ctx, s.sender, pipeline.Request{
		Method: http.MethodDelete,
		Path:   "/achievements/" + url.PathEscape(id),
		Query:  deleteQuery(force),
	})
}
