package pipeline

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RequestID sets a new X-Request-ID on every request that does not carry one yet.
func RequestID(generator models.IDGenerator) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(echo.HeaderXRequestID) == "" {
				id, err := generator.ID()
				if err != nil {
					return nil, err
				}
				req.Header.Set(echo.HeaderXRequestID, id)
			}
			return next.Do(req)
		})
	}
}

func UserAgent(userAgent string) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if userAgent != "" {
				req.Header.Set("User-Agent", userAgent)
			}
			return next.Do(req)
		})
	}
}

// RateLimit delays requests so that the backend never sees more than the limiter allows.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			err := limiter.Wait(req.Context())
			if err != nil {
				return nil, err
			}
			return next.Do(req)
		})
	}
}

// Tracing propagates the sentry trace of the request context and records a breadcrumb per request.
func Tracing() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			hub := sentry.GetHubFromContext(req.Context())
			if hub == nil {
				return next.Do(req)
			}
			if span := sentry.TransactionFromContext(req.Context()); span != nil {
				req.Header.Set(sentry.SentryTraceHeader, span.ToSentryTrace())
			}
			resp, err := next.Do(req)
			breadcrumb := sentry.Breadcrumb{
				Type:     "http",
				Category: "http",
				Data:     map[string]interface{}{"method": req.Method, "url": req.URL.Redacted()},
			}
			if resp != nil {
				breadcrumb.Data["status_code"] = resp.StatusCode
			}
			if err != nil {
				breadcrumb.Level = sentry.LevelError
			}
			hub.AddBreadcrumb(&breadcrumb, nil)
			return resp, err
		})
	}
}

// Logging logs every request with its outcome.
func Logging() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if err != nil {
				slog.Error(
					"HTTP CLIENT",
					"message",
					"request failed",
					"method",
					req.Method,
					"path",
					req.URL.Path,
					"requestID",
					requestID,
					"error",
					err,
				)
				return resp, err
			}
			slog.Debug(
				"HTTP CLIENT",
				"message",
				"request completed",
				"method",
				req.Method,
				"path",
				req.URL.Path,
				"status",
				resp.StatusCode,
				"duration",
				time.Since(start),
				"requestID",
				requestID,
				"retried",
				IsRetried(req.Context()),
			)
			return resp, err
		})
	}
}
