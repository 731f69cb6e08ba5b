package services

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type credentialsSession interface {
	SetCredentials(ctx context.Context, creds models.Credentials) error
	Teardown(ctx context.Context) error
}

type AuthService struct {
	sender  Sender
	session credentialsSession
}

// Login authenticates with the NIP or NIS and stores the returned pair together with the user.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (models.User, error) {
	request, err := pipeline.NewJSONRequest(
		http.MethodPost,
		"/auth/login",
		models.LoginRequest{Identifier: identifier, Password: password},
	)
	if err != nil {
		return models.User{}, err
	}
	request.Anonymous = true
	res, err := call[models.LoginResponse](ctx, s.sender, request)
	if err != nil {
		return models.User{}, err
	}
	user := res.User
	err = s.session.SetCredentials(ctx, models.Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         &user,
	})
	if err != nil {
		return models.User{}, err
	}
	slog.Info("AUTH", "message", "logged in", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	request, err := pipeline.NewJSONRequest(http.MethodPost, "/auth/register", req)
	if err != nil {
		return models.User{}, err
	}
	request.Anonymous = true
	res, err := call[models.UserPayload](ctx, s.sender, request)
	return res.User, err
}

// Me returns the profile of the logged in user.
func (s *AuthService) Me(ctx context.Context) (models.User, error) {
	res, err := call[models.UserPayload](ctx, s.sender, pipeline.Request{Method: http.MethodGet, Path: "/auth/me"})
	return res.User, err
}

// Logout tells the backend about the logout and always clears the local session,
// also when the backend cannot be reached.
func (s *AuthService) Logout(ctx context.Context) error {
	err := callNoData(ctx, s.sender, pipeline.Request{Method: http.MethodPost, Path: "/auth/logout"})
	if err != nil {
		slog.Info("AUTH", "message", "backend logout failed, clearing the local session anyway", "error", err)
	}
	return s.session.Teardown(ctx)
}
