package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"golang.org/x/oauth2"
)

// TokenSource reads the current access token, an empty token means none is stored.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// CredentialRefresher obtains a new access token after a 401.
type CredentialRefresher interface {
	ObtainFreshCredential(ctx context.Context) (string, error)
}

// Authenticator attaches the bearer token to every non anonymous request. A 401
// answer triggers one token refresh after which the original request is sent again.
// A 401 to the replayed request is terminal. Transport errors are returned unchanged.
func Authenticator(tokens TokenSource, refresher CredentialRefresher) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if IsAnonymous(ctx) {
				return next.Do(req)
			}
			err := makeReplayable(req)
			if err != nil {
				return nil, err
			}

			token, err := tokens.AccessToken(ctx)
			if err != nil {
				return nil, err
			}
			resp, err := next.Do(withToken(ctx, req, token))
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusUnauthorized {
				return resp, nil
			}
			discard(resp)
			if IsRetried(ctx) {
				return nil, apierrors.NewAuthError(apierrors.ErrUnauthorized)
			}

			slog.Debug("AUTHENTICATOR", "message", "access token rejected, refreshing", "path", req.URL.Path)
			token, err = refresher.ObtainFreshCredential(ctx)
			if err != nil {
				return nil, err
			}
			retryCtx := markRetried(ctx)
			retry := withToken(retryCtx, req, token)
			if req.GetBody != nil {
				retry.Body, err = req.GetBody()
				if err != nil {
					return nil, err
				}
			}
			resp, err = next.Do(retry)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode == http.StatusUnauthorized {
				discard(resp)
				return nil, apierrors.NewAuthError(apierrors.ErrUnauthorized)
			}
			return resp, nil
		})
	}
}

// withToken copies the request so the caller's request is never modified.
func withToken(ctx context.Context, req *http.Request, accessToken string) *http.Request {
	output := req.Clone(ctx)
	if accessToken == "" {
		output.Header.Del("Authorization")
		return output
	}
	token := oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	token.SetAuthHeader(output)
	return output
}

// makeReplayable buffers request bodies that cannot be read a second time.
func makeReplayable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	content, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(content))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(content)), nil
	}
	return nil
}

func discard(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()
}
