package tokenrefresher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

const refreshPath string = "/auth/refresh"

// maxErrorBody bounds how much of a rejected response is read for the logs.
const maxErrorBody int64 = 4096

// HTTPDoer sends a single HTTP request, *http.Client implements it.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// refreshResponse accepts both the enveloped payload and a flat token body.
type refreshResponse struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Data    *models.RefreshTokenResponse `json:"data,omitempty"`
	models.RefreshTokenResponse
}

func (r refreshResponse) tokens() models.RefreshTokenResponse {
	if r.Data != nil && r.Data.AccessToken != "" {
		return *r.Data
	}
	return r.RefreshTokenResponse
}

// RefreshClient calls the refresh endpoint of the backend.
type RefreshClient struct {
	doer       HTTPDoer
	refreshURL *url.URL
}

type RefreshClientOption func(*RefreshClient) error

func WithHTTPDoer(doer HTTPDoer) RefreshClientOption {
	return func(rc *RefreshClient) error {
		rc.doer = doer
		return nil
	}
}

// WithBaseURL sets the API base URL, the refresh endpoint is resolved below it.
func WithBaseURL(baseURL *url.URL) RefreshClientOption {
	return func(rc *RefreshClient) error {
		if baseURL == nil {
			return fmt.Errorf("the base url cannot be nil")
		}
		rc.refreshURL = baseURL.JoinPath(refreshPath)
		return nil
	}
}

func NewRefreshClient(options ...RefreshClientOption) (*RefreshClient, error) {
	rc := RefreshClient{}
	for _, opt := range options {
		err := opt(&rc)
		if err != nil {
			return &RefreshClient{}, err
		}
	}
	if rc.doer == nil {
		return &RefreshClient{}, fmt.Errorf("http client not initialized")
	}
	if rc.refreshURL == nil {
		return &RefreshClient{}, fmt.Errorf("refresh url not initialized")
	}
	return &rc, nil
}

// Refresh exchanges the refresh token for a new pair. Any non-2xx answer means the
// refresh token is not valid anymore.
func (rc *RefreshClient) Refresh(ctx context.Context, refreshToken string) (models.RefreshTokenResponse, error) {
	body, err := json.Marshal(models.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return models.RefreshTokenResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.refreshURL.String(), bytes.NewReader(body))
	if err != nil {
		return models.RefreshTokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := rc.doer.Do(req)
	if err != nil {
		return models.RefreshTokenResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Info(
			"REFRESH CLIENT",
			"message",
			"the refresh token was rejected",
			"status",
			resp.StatusCode,
			"body",
			string(content),
		)
		return models.RefreshTokenResponse{}, fmt.Errorf("%w: status %d", apierrors.ErrRefreshRejected, resp.StatusCode)
	}

	parsed := refreshResponse{}
	err = json.NewDecoder(resp.Body).Decode(&parsed)
	if err != nil {
		slog.Error("REFRESH CLIENT", "message", "decoding body failed", "error", err)
		return models.RefreshTokenResponse{}, err
	}
	tokens := parsed.tokens()
	if tokens.AccessToken == "" {
		return models.RefreshTokenResponse{}, apierrors.ErrEmptyResponse
	}
	return tokens, nil
}
