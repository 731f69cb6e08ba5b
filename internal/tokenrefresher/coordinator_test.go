package tokenrefresher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedRefresher blocks every refresh until release is closed.
type gatedRefresher struct {
	calls    atomic.Int32
	started  chan struct{}
	release  chan struct{}
	response models.RefreshTokenResponse
	err      error
	panics   bool
}

func newGatedRefresher(response models.RefreshTokenResponse, err error) *gatedRefresher {
	return &gatedRefresher{
		started:  make(chan struct{}, 16),
		release:  make(chan struct{}),
		response: response,
		err:      err,
	}
}

func (g *gatedRefresher) Refresh(ctx context.Context, refreshToken string) (models.RefreshTokenResponse, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return models.RefreshTokenResponse{}, ctx.Err()
	}
	if g.panics {
		panic("boom")
	}
	return g.response, g.err
}

type testFixture struct {
	session     *sessions.Session
	coordinator *Coordinator
	refresher   *gatedRefresher
	logouts     *atomic.Int32
}

func newFixture(t *testing.T, creds *models.Credentials, refresher *gatedRefresher, options ...CoordinatorOption) testFixture {
	ctx := context.Background()
	logouts := &atomic.Int32{}
	session, err := sessions.NewSession(
		sessions.WithCredentialsRepository(sessions.NewInMemoryCredentialsStore()),
		sessions.WithLogoutHandler(func(ctx context.Context) { logouts.Add(1) }),
	)
	require.NoError(t, err)
	if creds != nil {
		require.NoError(t, session.SetCredentials(ctx, *creds))
	}
	options = append([]CoordinatorOption{WithSession(session), WithRefresher(refresher)}, options...)
	coordinator, err := NewCoordinator(options...)
	require.NoError(t, err)
	return testFixture{session: session, coordinator: coordinator, refresher: refresher, logouts: logouts}
}

type outcome struct {
	token string
	err   error
}

// obtainConcurrently starts n callers and returns once all of them are queued.
func obtainConcurrently(t *testing.T, f testFixture, n int) (chan outcome, *sync.WaitGroup) {
	outcomes := make(chan outcome, n)
	wg := &sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := f.coordinator.ObtainFreshCredential(context.Background())
			outcomes <- outcome{token, err}
		}()
	}
	<-f.refresher.started
	require.Eventually(t, func() bool { return f.coordinator.QueueLen() == n }, time.Second, time.Millisecond)
	return outcomes, wg
}

func TestNewCoordinatorValidation(t *testing.T) {
	_, err := NewCoordinator()
	assert.Error(t, err)
	_, err = NewCoordinator(WithRefresher(newGatedRefresher(models.RefreshTokenResponse{}, nil)))
	assert.Error(t, err)
	_, err = NewCoordinator(WithTimeout(0))
	assert.Error(t, err)
}

func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2"}, nil)
	user := &models.User{ID: "u1"}
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1", User: user}, refresher)

	outcomes, wg := obtainConcurrently(t, f, 5)
	assert.True(t, f.coordinator.Refreshing())
	close(refresher.release)
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		require.NoError(t, o.err)
		assert.Equal(t, "a2", o.token)
	}
	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.False(t, f.coordinator.Refreshing())
	assert.Equal(t, 0, f.coordinator.QueueLen())

	creds, err := f.session.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{AccessToken: "a2", RefreshToken: "r1", User: user}, creds)
	assert.Equal(t, int32(0), f.logouts.Load())
}

func TestRefreshTokenRotation(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil)
	close(refresher.release)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	token, err := f.coordinator.ObtainFreshCredential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", token)
	refreshToken, err := f.session.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r2", refreshToken)
}

func TestRejectedRefreshFailsEveryCaller(t *testing.T) {
	rejected := errors.Join(apierrors.ErrRefreshRejected, errors.New("status 401"))
	refresher := newGatedRefresher(models.RefreshTokenResponse{}, rejected)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	outcomes, wg := obtainConcurrently(t, f, 3)
	close(refresher.release)
	wg.Wait()
	close(outcomes)

	var first error
	for o := range outcomes {
		assert.Equal(t, "", o.token)
		assert.ErrorIs(t, o.err, apierrors.ErrSessionExpired)
		assert.ErrorIs(t, o.err, apierrors.ErrRefreshRejected)
		if first == nil {
			first = o.err
		}
		assert.Same(t, first, o.err)
	}
	assert.Equal(t, int32(1), f.logouts.Load())
	assert.False(t, f.session.IsAuthenticated(context.Background()))
	assert.False(t, f.coordinator.Refreshing())
	assert.Equal(t, 0, f.coordinator.QueueLen())
}

func TestMissingRefreshTokenMakesNoCall(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{}, nil)
	f := newFixture(t, &models.Credentials{AccessToken: "a1"}, refresher)

	_, err := f.coordinator.ObtainFreshCredential(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrMissingRefreshToken)
	assert.Equal(t, int32(0), refresher.calls.Load())
	assert.Equal(t, int32(1), f.logouts.Load())
	assert.False(t, f.coordinator.Refreshing())

	// Nothing stored at all behaves the same way.
	f = newFixture(t, nil, refresher)
	_, err = f.coordinator.ObtainFreshCredential(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrMissingRefreshToken)
	assert.Equal(t, int32(0), refresher.calls.Load())
}

func TestRefreshTimeout(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2"}, nil)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher, WithTimeout(20*time.Millisecond))

	_, err := f.coordinator.ObtainFreshCredential(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), f.logouts.Load())
	assert.False(t, f.coordinator.Refreshing())
}

func TestPanicInRefreshClearsFlag(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{}, nil)
	refresher.panics = true
	close(refresher.release)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	_, err := f.coordinator.ObtainFreshCredential(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.False(t, f.coordinator.Refreshing())
	assert.Equal(t, 0, f.coordinator.QueueLen())
}

func TestCancelledWaiterDoesNotStopRefresh(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2"}, nil)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.coordinator.ObtainFreshCredential(ctx)
		done <- err
	}()
	<-refresher.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, f.coordinator.Refreshing())

	close(refresher.release)
	require.Eventually(t, func() bool { return !f.coordinator.Refreshing() }, time.Second, time.Millisecond)
	token, err := f.session.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", token)
	assert.Equal(t, int32(0), f.logouts.Load())
}

func TestSequentialRefreshesEachCallOnce(t *testing.T) {
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2"}, nil)
	close(refresher.release)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	for i := 0; i < 3; i++ {
		_, err := f.coordinator.ObtainFreshCredential(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), refresher.calls.Load())
}

func TestLogoutDuringRefreshIsNotUndone(t *testing.T) {
	ctx := context.Background()
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	outcomes, wg := obtainConcurrently(t, f, 2)
	require.NoError(t, f.session.Teardown(ctx))
	assert.False(t, f.session.IsAuthenticated(ctx))
	close(refresher.release)
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		assert.Equal(t, "", o.token)
		assert.ErrorIs(t, o.err, apierrors.ErrSessionExpired)
		assert.ErrorIs(t, o.err, apierrors.ErrSessionChanged)
	}
	assert.False(t, f.session.IsAuthenticated(ctx))
	creds, err := f.session.Credentials(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
	assert.Equal(t, int32(1), f.logouts.Load())
	assert.False(t, f.coordinator.Refreshing())
}

func TestLoginDuringFailingRefreshIsKept(t *testing.T) {
	ctx := context.Background()
	rejected := errors.Join(apierrors.ErrRefreshRejected, errors.New("status 401"))
	refresher := newGatedRefresher(models.RefreshTokenResponse{}, rejected)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	outcomes, wg := obtainConcurrently(t, f, 2)
	fresh := models.Credentials{AccessToken: "b1", RefreshToken: "s1", User: &models.User{ID: "u2"}}
	require.NoError(t, f.session.SetCredentials(ctx, fresh))
	close(refresher.release)
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		assert.ErrorIs(t, o.err, apierrors.ErrSessionExpired)
		assert.ErrorIs(t, o.err, apierrors.ErrRefreshRejected)
	}
	creds, err := f.session.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, creds)
	assert.Equal(t, int32(0), f.logouts.Load())
	assert.False(t, f.coordinator.Refreshing())
}

func TestLoginDuringSuccessfulRefreshIsKept(t *testing.T) {
	ctx := context.Background()
	refresher := newGatedRefresher(models.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil)
	f := newFixture(t, &models.Credentials{AccessToken: "a1", RefreshToken: "r1"}, refresher)

	outcomes, wg := obtainConcurrently(t, f, 1)
	fresh := models.Credentials{AccessToken: "b1", RefreshToken: "s1"}
	require.NoError(t, f.session.SetCredentials(ctx, fresh))
	close(refresher.release)
	wg.Wait()
	close(outcomes)

	o := <-outcomes
	assert.ErrorIs(t, o.err, apierrors.ErrSessionChanged)
	creds, err := f.session.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, creds)
	assert.Equal(t, int32(0), f.logouts.Load())
}
