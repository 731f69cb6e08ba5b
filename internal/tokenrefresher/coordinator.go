// Package tokenrefresher makes sure that concurrent callers which run into an
// expired access token share a single call to the refresh endpoint.
package tokenrefresher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

// DefaultTimeout is the same timeout used for ordinary API calls.
const DefaultTimeout time.Duration = 30 * time.Second

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.RefreshTokenResponse, error)
}

// RefresherSession is the part of sessions.Session the coordinator needs.
// The generation read with Snapshot scopes the update and the teardown to the
// session the refresh was started for.
type RefresherSession interface {
	Snapshot(ctx context.Context) (models.Credentials, uint64, error)
	UpdateTokens(ctx context.Context, generation uint64, accessToken, refreshToken string) (models.Credentials, error)
	TeardownGeneration(ctx context.Context, generation uint64) error
}

type result struct {
	accessToken string
	err         error
}

// Coordinator runs at most one refresh at a time. Callers arriving while a refresh
// is outstanding are queued and all receive the outcome of that refresh.
type Coordinator struct {
	lock       sync.Mutex
	refreshing bool
	queue      []chan result

	session   RefresherSession
	refresher Refresher
	timeout   time.Duration
}

type CoordinatorOption func(*Coordinator) error

func WithSession(session RefresherSession) CoordinatorOption {
	return func(c *Coordinator) error {
		c.session = session
		return nil
	}
}

func WithRefresher(refresher Refresher) CoordinatorOption {
	return func(c *Coordinator) error {
		c.refresher = refresher
		return nil
	}
}

func WithTimeout(timeout time.Duration) CoordinatorOption {
	return func(c *Coordinator) error {
		if timeout <= 0 {
			return fmt.Errorf("invalid refresh timeout (%v)", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

func NewCoordinator(options ...CoordinatorOption) (*Coordinator, error) {
	c := Coordinator{timeout: DefaultTimeout}
	for _, opt := range options {
		err := opt(&c)
		if err != nil {
			return &Coordinator{}, err
		}
	}
	if c.session == nil {
		return &Coordinator{}, fmt.Errorf("session not initialized")
	}
	if c.refresher == nil {
		return &Coordinator{}, fmt.Errorf("refresher not initialized")
	}
	return &c, nil
}

// ObtainFreshCredential returns a new access token. The first caller starts the
// refresh, callers arriving before it settles wait for the same outcome.
// Every failure is returned as an *apierrors.AuthError after the session was torn down.
// Cancelling ctx only stops the wait of this caller, the refresh itself keeps going.
func (c *Coordinator) ObtainFreshCredential(ctx context.Context) (string, error) {
	waiter := make(chan result, 1)

	c.lock.Lock()
	c.queue = append(c.queue, waiter)
	leader := !c.refreshing
	c.refreshing = true
	c.lock.Unlock()

	if leader {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		go func() {
			defer cancel()
			c.run(refreshCtx)
		}()
	} else {
		slog.Debug("REFRESH COORDINATOR", "message", "waiting for the refresh in progress")
	}

	select {
	case res := <-waiter:
		return res.accessToken, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Refreshing reports whether a refresh is outstanding.
func (c *Coordinator) Refreshing() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.refreshing
}

// QueueLen is the number of callers waiting for the outstanding refresh.
func (c *Coordinator) QueueLen() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.queue)
}

func (c *Coordinator) run(ctx context.Context) {
	var accessToken string
	var generation uint64
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("token refresh panicked: %v", r)
		}
		if err != nil {
			err = c.fail(ctx, generation, err)
			accessToken = ""
		}
		c.settle(result{accessToken: accessToken, err: err})
	}()
	var creds models.Credentials
	creds, generation, err = c.session.Snapshot(ctx)
	if err != nil {
		return
	}
	accessToken, err = c.refresh(ctx, creds, generation)
}

func (c *Coordinator) refresh(ctx context.Context, creds models.Credentials, generation uint64) (string, error) {
	start := time.Now()
	if creds.RefreshToken == "" {
		return "", apierrors.ErrMissingRefreshToken
	}
	tokens, err := c.refresher.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		return "", err
	}
	updated, err := c.session.UpdateTokens(ctx, generation, tokens.AccessToken, tokens.RefreshToken)
	if err != nil {
		return "", err
	}
	slog.Info(
		"REFRESH COORDINATOR",
		"message",
		"access token refreshed",
		"rotated",
		tokens.RefreshToken != "",
		"duration",
		time.Since(start),
	)
	return updated.AccessToken, nil
}

// fail tears the session down and converts the cause into the terminal error.
// A session that was logged out or replaced while the refresh ran is not touched.
func (c *Coordinator) fail(ctx context.Context, generation uint64, cause error) error {
	slog.Error("REFRESH COORDINATOR", "message", "token refresh failed", "error", cause)
	teardownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	if err := c.session.TeardownGeneration(teardownCtx, generation); err != nil {
		slog.Error("REFRESH COORDINATOR", "message", "session teardown failed", "error", err)
	}
	return apierrors.NewAuthError(cause)
}

// settle clears the in-progress flag before any waiter is notified, then resolves
// the waiters in the order they arrived.
func (c *Coordinator) settle(res result) {
	c.lock.Lock()
	c.refreshing = false
	waiters := c.queue
	c.queue = nil
	c.lock.Unlock()

	for _, waiter := range waiters {
		waiter <- res
	}
}
