package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/alif-arrizqy/allboom-app/internal/db"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
	"github.com/alif-arrizqy/allboom-app/internal/sessions"
	"github.com/alif-arrizqy/allboom-app/internal/tokenrefresher"
	"golang.org/x/time/rate"
)

// API is the entry point of the client. It owns one session and everything
// that is needed to keep its credentials fresh.
type API struct {
	client      *pipeline.Client
	session     *sessions.Session
	coordinator *tokenrefresher.Coordinator

	Auth          *AuthService
	Assignments   *AssignmentService
	Submissions   *SubmissionService
	Notifications *NotificationService
	Dashboard     *DashboardService
	Export        *ExportService
	Portfolio     *PortfolioService
	Classes       *ClassService
	Users         *UserService
	Categories    *CategoryService
	MediaTypes    *MediaTypeService
	Achievements  *AchievementService
	Certificates  *CertificateService
}

type apiOptions struct {
	config        *config.Config
	repo          models.CredentialsRepository
	logoutHandler sessions.LogoutHandler
	httpClient    *http.Client
	idGenerator   models.IDGenerator
}

type APIOption func(*apiOptions) error

func WithConfig(cfg config.Config) APIOption {
	return func(o *apiOptions) error {
		o.config = &cfg
		return nil
	}
}

// WithCredentialsRepository overrides the store selected in the configuration.
func WithCredentialsRepository(repo models.CredentialsRepository) APIOption {
	return func(o *apiOptions) error {
		o.repo = repo
		return nil
	}
}

func WithLogoutHandler(handler sessions.LogoutHandler) APIOption {
	return func(o *apiOptions) error {
		o.logoutHandler = handler
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) APIOption {
	return func(o *apiOptions) error {
		o.httpClient = httpClient
		return nil
	}
}

func NewAPI(options ...APIOption) (*API, error) {
	opts := apiOptions{idGenerator: models.ULIDGenerator{}}
	for _, opt := range options {
		err := opt(&opts)
		if err != nil {
			return &API{}, err
		}
	}
	if opts.config == nil {
		return &API{}, fmt.Errorf("config not initialized")
	}
	cfg := *opts.config
	baseURL := config.NormalizeBaseURL(cfg.API.BaseURL)
	if baseURL == nil {
		return &API{}, fmt.Errorf("api base url not initialized")
	}
	timeout := cfg.API.Timeout()
	if timeout <= 0 {
		timeout = tokenrefresher.DefaultTimeout
	}

	repo := opts.repo
	if repo == nil {
		var err error
		repo, err = db.NewCredentialsRepository(cfg.Session, cfg.Redis)
		if err != nil {
			return &API{}, err
		}
	}
	session, err := sessions.NewSession(
		sessions.WithCredentialsRepository(repo),
		sessions.WithLogoutHandler(opts.logoutHandler),
	)
	if err != nil {
		return &API{}, err
	}

	httpClient := &http.Client{}
	if opts.httpClient != nil {
		clientCopy := *opts.httpClient
		httpClient = &clientCopy
	}
	httpClient.Timeout = timeout
	middlewares := []pipeline.Middleware{
		pipeline.RequestID(opts.idGenerator),
		pipeline.UserAgent(cfg.API.UserAgent),
		pipeline.Tracing(),
	}
	if cfg.RateLimits.Enabled {
		middlewares = append(middlewares, pipeline.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimits.Rate), cfg.RateLimits.Burst)))
	}
	middlewares = append(middlewares, pipeline.Logging())

	refreshClient, err := tokenrefresher.NewRefreshClient(
		tokenrefresher.WithHTTPDoer(pipeline.Chain(httpClient, middlewares...)),
		tokenrefresher.WithBaseURL(baseURL),
	)
	if err != nil {
		return &API{}, err
	}
	coordinator, err := tokenrefresher.NewCoordinator(
		tokenrefresher.WithSession(session),
		tokenrefresher.WithRefresher(refreshClient),
		tokenrefresher.WithTimeout(timeout),
	)
	if err != nil {
		return &API{}, err
	}
	client, err := pipeline.NewClient(
		pipeline.WithBaseURL(baseURL),
		pipeline.WithHTTPClient(httpClient),
		pipeline.WithMiddlewares(middlewares...),
		pipeline.WithMiddlewares(pipeline.Authenticator(session, coordinator)),
	)
	if err != nil {
		return &API{}, err
	}

	api := API{client: client, session: session, coordinator: coordinator}
	api.Auth = &AuthService{sender: client, session: session}
	api.Assignments = &AssignmentService{sender: client}
	api.Submissions = &SubmissionService{sender: client}
	api.Notifications = &NotificationService{sender: client}
	api.Dashboard = &DashboardService{sender: client}
	api.Export = &ExportService{sender: client}
	api.Portfolio = &PortfolioService{sender: client}
	api.Classes = &ClassService{sender: client}
	api.Users = &UserService{sender: client}
	api.Categories = &CategoryService{sender: client}
	api.MediaTypes = &MediaTypeService{sender: client}
	api.Achievements = &AchievementService{sender: client}
	api.Certificates = &CertificateService{sender: client}
	return &api, nil
}

// Send issues an arbitrary request relative to the API base URL with credential handling.
func (a *API) Send(ctx context.Context, request pipeline.Request) (*http.Response, error) {
	return a.client.Send(ctx, request)
}

// IsAuthenticated is true when an access token is stored locally.
func (a *API) IsAuthenticated(ctx context.Context) bool {
	return a.session.IsAuthenticated(ctx)
}

func (a *API) Logout(ctx context.Context) error {
	return a.Auth.Logout(ctx)
}

func (a *API) Session() *sessions.Session {
	return a.session
}

func (a *API) Coordinator() *tokenrefresher.Coordinator {
	return a.coordinator
}

func (a *API) BaseURL() *url.URL {
	return a.client.BaseURL()
}
