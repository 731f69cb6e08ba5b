package services

import (
	"context"
	"net/http"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type DashboardService struct {
	sender Sender
}

func (s *DashboardService) Overview(ctx context.Context) (models.DashboardOverview, error) {
	return call[models.DashboardOverview](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/dashboard/overview"})
}
