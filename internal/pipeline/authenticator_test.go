package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/sessions"
	"github.com/alif-arrizqy/allboom-app/internal/testbackend"
	"github.com/alif-arrizqy/allboom-app/internal/tokenrefresher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID string = "student-1"

type testClient struct {
	client      *Client
	session     *sessions.Session
	coordinator *tokenrefresher.Coordinator
	logouts     *atomic.Int32
}

func newTestClient(t *testing.T, backend *testbackend.Backend, creds *models.Credentials) testClient {
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
	base := Chain(&http.Client{Timeout: 5 * time.Second}, RequestID(models.ULIDGenerator{}), Logging())
	refreshClient, err := tokenrefresher.NewRefreshClient(
		tokenrefresher.WithHTTPDoer(base),
		tokenrefresher.WithBaseURL(backend.URL()),
	)
	require.NoError(t, err)
	coordinator, err := tokenrefresher.NewCoordinator(
		tokenrefresher.WithSession(session),
		tokenrefresher.WithRefresher(refreshClient),
		tokenrefresher.WithTimeout(5*time.Second),
	)
	require.NoError(t, err)
	client, err := NewClient(
		WithBaseURL(backend.URL()),
		WithTimeout(5*time.Second),
		WithMiddlewares(RequestID(models.ULIDGenerator{}), Logging(), Authenticator(session, coordinator)),
	)
	require.NoError(t, err)
	return testClient{client: client, session: session, coordinator: coordinator, logouts: logouts}
}

func newBackend(t *testing.T) *testbackend.Backend {
	backend := testbackend.New()
	t.Cleanup(backend.Close)
	backend.AddAccount(testbackend.Account{
		Identifier: "1001",
		Password:   "secret",
		User:       models.User{ID: testUserID, Name: "Siti", Role: models.RoleStudent},
	})
	backend.AddAssignment(models.Assignment{ID: "as-1", Title: "Still life", Status: models.AssignmentActive})
	return backend
}

func loggedIn(backend *testbackend.Backend) *models.Credentials {
	access, refresh := backend.IssueTokens(testUserID)
	return &models.Credentials{AccessToken: access, RefreshToken: refresh}
}

func send(t *testing.T, tc testClient, req Request) (int, string, error) {
	resp, err := tc.client.Send(context.Background(), req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), nil
}

func TestValidCredentialPassesThrough(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	tc := newTestClient(t, backend, creds)

	status, body, err := send(t, tc, Request{Method: http.MethodGet, Path: "/assignments/as-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Still life")
	assert.Equal(t, 0, backend.RefreshCalls())

	reqs := backend.RequestsTo(http.MethodGet, "/assignments/as-1")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+creds.AccessToken, reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestExpiredCredentialIsRefreshedAndReplayed(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.ExpireAccessTokens()
	tc := newTestClient(t, backend, creds)

	req, err := NewJSONRequest(http.MethodPost, "/assignments", models.CreateAssignmentRequest{Title: "Portrait"})
	require.NoError(t, err)
	req.Query = map[string][]string{"draft": {"true"}}
	status, body, err := send(t, tc, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body, "Portrait")
	assert.Equal(t, 1, backend.RefreshCalls())

	stored, err := tc.session.Credentials(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, creds.AccessToken, stored.AccessToken)
	assert.Equal(t, creds.RefreshToken, stored.RefreshToken)

	attempts := backend.RequestsTo(http.MethodPost, "/assignments")
	require.Len(t, attempts, 2)
	assert.Equal(t, "Bearer "+creds.AccessToken, attempts[0].Authorization)
	assert.Equal(t, "Bearer "+stored.AccessToken, attempts[1].Authorization)
	assert.Equal(t, attempts[0].Body, attempts[1].Body)
	assert.Equal(t, "draft=true", attempts[1].RawQuery)
	assert.Equal(t, "application/json", attempts[1].ContentType)

	// The next request uses the refreshed token right away.
	_, _, err = send(t, tc, Request{Path: "/assignments"})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.RefreshCalls())
}

func TestConcurrentUnauthorizedRequestsShareOneRefresh(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.ExpireAccessTokens()
	backend.RotateRefreshTokens = true
	backend.RefreshGate = make(chan struct{})
	backend.RefreshStarted = make(chan struct{}, 8)
	tc := newTestClient(t, backend, creds)

	const callers = 3
	statuses := make(chan int, callers)
	errs := make(chan error, callers)
	wg := sync.WaitGroup{}
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := send(t, tc, Request{Path: "/assignments/as-1"})
			statuses <- status
			errs <- err
		}()
	}
	<-backend.RefreshStarted
	require.Eventually(t, func() bool { return tc.coordinator.QueueLen() == callers }, 5*time.Second, time.Millisecond)
	close(backend.RefreshGate)
	wg.Wait()
	close(statuses)
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, 1, backend.RefreshCalls())
	assert.Len(t, backend.RequestsTo(http.MethodPost, "/auth/refresh"), 1)
	assert.Len(t, backend.RequestsTo(http.MethodGet, "/assignments/as-1"), 2*callers)
	assert.False(t, tc.coordinator.Refreshing())

	stored, err := tc.session.Credentials(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, creds.RefreshToken, stored.RefreshToken)
}

func TestRejectedRefreshIsTerminal(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.ExpireAccessTokens()
	backend.RevokeRefreshTokens()
	tc := newTestClient(t, backend, creds)

	_, _, err := send(t, tc, Request{Path: "/assignments"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrRefreshRejected)
	var authErr *apierrors.AuthError
	assert.ErrorAs(t, err, &authErr)

	assert.False(t, tc.session.IsAuthenticated(context.Background()))
	stored, err := tc.session.Credentials(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.Empty())
	assert.Equal(t, int32(1), tc.logouts.Load())
	assert.Equal(t, 1, backend.RefreshCalls())
	assert.False(t, tc.coordinator.Refreshing())
}

func TestLogoutWhileRequestWaitsForRefresh(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.ExpireAccessTokens()
	backend.RefreshGate = make(chan struct{})
	backend.RefreshStarted = make(chan struct{}, 1)
	tc := newTestClient(t, backend, creds)

	errs := make(chan error, 1)
	go func() {
		_, _, err := send(t, tc, Request{Path: "/assignments/as-1"})
		errs <- err
	}()
	<-backend.RefreshStarted
	require.NoError(t, tc.session.Teardown(context.Background()))
	close(backend.RefreshGate)

	err := <-errs
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrSessionChanged)
	assert.False(t, tc.session.IsAuthenticated(context.Background()))
	assert.Equal(t, int32(1), tc.logouts.Load())
	// The original request is not replayed for a logged out user.
	assert.Len(t, backend.RequestsTo(http.MethodGet, "/assignments/as-1"), 1)
}

func TestLoginWhileRefreshFails(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.ExpireAccessTokens()
	backend.RevokeRefreshTokens()
	backend.RefreshGate = make(chan struct{})
	backend.RefreshStarted = make(chan struct{}, 1)
	tc := newTestClient(t, backend, creds)

	errs := make(chan error, 1)
	go func() {
		_, _, err := send(t, tc, Request{Path: "/assignments/as-1"})
		errs <- err
	}()
	<-backend.RefreshStarted
	fresh := loggedIn(backend)
	require.NoError(t, tc.session.SetCredentials(context.Background(), *fresh))
	close(backend.RefreshGate)

	err := <-errs
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrRefreshRejected)
	stored, err := tc.session.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *fresh, stored)
	assert.Equal(t, int32(0), tc.logouts.Load())

	// The new login works without another refresh.
	status, _, err := send(t, tc, Request{Path: "/assignments/as-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, backend.RefreshCalls())
}

func TestNoStoredCredential(t *testing.T) {
	backend := newBackend(t)
	tc := newTestClient(t, backend, nil)

	_, _, err := send(t, tc, Request{Path: "/assignments"})
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrMissingRefreshToken)

	reqs := backend.RequestsTo(http.MethodGet, "/assignments")
	require.Len(t, reqs, 1)
	assert.Equal(t, "", reqs[0].Authorization)
	assert.Equal(t, 0, backend.RefreshCalls())
	assert.Equal(t, int32(1), tc.logouts.Load())
}

func TestReplayedRequestIsNotRetriedTwice(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	backend.FailNextRequests(2)
	tc := newTestClient(t, backend, creds)

	_, _, err := send(t, tc, Request{Path: "/assignments"})
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, 1, backend.RefreshCalls())
	assert.Len(t, backend.RequestsTo(http.MethodGet, "/assignments"), 2)
	// The refresh itself worked so the session is kept.
	assert.True(t, tc.session.IsAuthenticated(context.Background()))
	assert.Equal(t, int32(0), tc.logouts.Load())
}

func TestNetworkErrorsDoNotRefresh(t *testing.T) {
	networkErr := errors.New("connection reset by peer")
	var refreshes atomic.Int32
	doer := Chain(
		DoerFunc(func(req *http.Request) (*http.Response, error) { return nil, networkErr }),
		Authenticator(staticTokens("a1"), refresherFunc(func(ctx context.Context) (string, error) {
			refreshes.Add(1)
			return "a2", nil
		})),
	)
	req, err := http.NewRequest(http.MethodGet, "http://backend.invalid/assignments", nil)
	require.NoError(t, err)
	_, err = doer.Do(req)
	assert.ErrorIs(t, err, networkErr)
	assert.False(t, apierrors.IsSessionExpired(err))
	assert.Equal(t, int32(0), refreshes.Load())
}

func TestAnonymousRequestsSkipAuthentication(t *testing.T) {
	backend := newBackend(t)
	creds := loggedIn(backend)
	tc := newTestClient(t, backend, creds)

	req, err := NewJSONRequest(http.MethodPost, "/auth/login", models.LoginRequest{Identifier: "1001", Password: "wrong"})
	require.NoError(t, err)
	req.Anonymous = true
	status, _, err := send(t, tc, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 0, backend.RefreshCalls())
	reqs := backend.RequestsTo(http.MethodPost, "/auth/login")
	require.Len(t, reqs, 1)
	assert.Equal(t, "", reqs[0].Authorization)
	assert.True(t, tc.session.IsAuthenticated(context.Background()))
}

func TestIndependentClientsDoNotShareState(t *testing.T) {
	backend := newBackend(t)
	first := newTestClient(t, backend, loggedIn(backend))
	second := newTestClient(t, backend, loggedIn(backend))
	backend.ExpireAccessTokens()
	backend.RevokeRefreshTokens()

	_, _, err := send(t, first, Request{Path: "/assignments"})
	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.False(t, first.session.IsAuthenticated(context.Background()))
	assert.True(t, second.session.IsAuthenticated(context.Background()))
	assert.Equal(t, int32(0), second.logouts.Load())
	assert.False(t, second.coordinator.Refreshing())
}

type staticTokens string

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	return string(s), nil
}

type refresherFunc func(ctx context.Context) (string, error)

func (f refresherFunc) ObtainFreshCredential(ctx context.Context) (string, error) {
	return f(ctx)
}
