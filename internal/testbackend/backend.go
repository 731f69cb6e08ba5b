// Package testbackend runs an in-process imitation of the seniku REST backend for tests.
package testbackend

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const APIPrefix string = "/seniku/api/v1"

var signingKey = []byte("test-backend-signing-key")

// Account is a user that can log in to the backend.
type Account struct {
	Identifier string
	Password   string
	User       models.User
}

// Backend holds the state of the fake server. Its exported fields may be changed by
// tests at any time, they are read under the lock.
type Backend struct {
	lock sync.Mutex

	// RotateRefreshTokens makes the refresh endpoint issue a new refresh token every time.
	RotateRefreshTokens bool
	// Flat makes the refresh endpoint answer without the response envelope.
	Flat bool
	// RefreshGate blocks refresh calls until it is closed or receives a value.
	RefreshGate chan struct{}
	// RefreshStarted receives a value when a refresh call arrives, it must be buffered.
	RefreshStarted chan struct{}

	accounts      map[string]Account
	accessTokens  map[string]string
	refreshTokens map[string]string
	assignments   map[string]models.Assignment
	submissions   map[string]models.Submission
	notifications map[string]models.Notification
	requests      []RecordedRequest

	classes          map[string]models.Class
	categories       map[string]models.Category
	mediaTypes       map[string]models.MediaType
	achievements     map[string]models.Achievement
	userAchievements map[string][]models.UserAchievement
	portfolios       map[string]models.Portfolio
	// portfolioCategory and likes are kept next to the portfolios, the payload
	// only shows their effect.
	portfolioCategory map[string]string
	likes             map[string]map[string]bool
	certificates      map[string]models.CertificateData

	refreshCalls atomic.Int32
	failNext     atomic.Int32

	echo   *echo.Echo
	server *httptest.Server
}

// RecordedRequest is a request as the backend received it.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
}

func New() *Backend {
	b := &Backend{
		accounts:      map[string]Account{},
		accessTokens:  map[string]string{},
		refreshTokens: map[string]string{},
		assignments:   map[string]models.Assignment{},
		submissions:   map[string]models.Submission{},
		notifications: map[string]models.Notification{},

		classes:           map[string]models.Class{},
		categories:        map[string]models.Category{},
		mediaTypes:        map[string]models.MediaType{},
		achievements:      map[string]models.Achievement{},
		userAchievements:  map[string][]models.UserAchievement{},
		portfolios:        map[string]models.Portfolio{},
		portfolioCategory: map[string]string{},
		likes:             map[string]map[string]bool{},
		certificates:      map[string]models.CertificateData{},
	}
	b.echo = echo.New()
	b.echo.HideBanner = true
	b.echo.HidePort = true
	b.routes()
	b.server = httptest.NewServer(b.echo)
	return b
}

func (b *Backend) Close() {
	b.server.Close()
}

// URL is the API base URL of the backend.
func (b *Backend) URL() *url.URL {
	u, err := url.Parse(b.server.URL + APIPrefix)
	if err != nil {
		panic(err)
	}
	return u
}

func (b *Backend) AddAccount(account Account) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.accounts[account.Identifier] = account
}

// IssueTokens creates a valid token pair for the user.
func (b *Backend) IssueTokens(userID string) (string, string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.issueAccessToken(userID), b.issueRefreshToken(userID)
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.accessTokens = map[string]string{}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (b *Backend) RevokeRefreshTokens() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.refreshTokens = map[string]string{}
}

// FailNextRequests makes the next n non refresh requests answer 401 even with a valid token.
func (b *Backend) FailNextRequests(n int32) {
	b.failNext.Store(n)
}

func (b *Backend) RefreshCalls() int {
	return int(b.refreshCalls.Load())
}

// Requests returns the requests received so far, refresh calls included.
func (b *Backend) Requests() []RecordedRequest {
	b.lock.Lock()
	defer b.lock.Unlock()
	output := make([]RecordedRequest, len(b.requests))
	copy(output, b.requests)
	return output
}

// RequestsTo returns the received requests for one path below the API prefix.
func (b *Backend) RequestsTo(method, path string) []RecordedRequest {
	output := []RecordedRequest{}
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			output = append(output, r)
		}
	}
	return output
}

func (b *Backend) AddAssignment(a models.Assignment) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.assignments[a.ID] = a
}

func (b *Backend) AddSubmission(s models.Submission) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.submissions[s.ID] = s
}

func (b *Backend) AddNotification(n models.Notification) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.notifications[n.ID] = n
}

func (b *Backend) Notifications() []models.Notification {
	b.lock.Lock()
	defer b.lock.Unlock()
	return sortedValues(b.notifications, func(n models.Notification) string { return n.ID })
}

// issueAccessToken must be called with the lock held.
func (b *Backend) AddClass(class models.Class) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.classes[class.ID] = class
}

func (b *Backend) AddCategory(category models.Category) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.categories[category.ID] = category
}

func (b *Backend) AddMediaType(mediaType models.MediaType) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.mediaTypes[mediaType.ID] = mediaType
}

func (b *Backend) AddAchievement(achievement models.Achievement) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.achievements[achievement.ID] = achievement
}

// UnlockAchievement grants an existing achievement to the user.
func (b *Backend) UnlockAchievement(userID, achievementID string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	achievement := b.achievements[achievementID]
	b.userAchievements[userID] = append(b.userAchievements[userID], models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now().UTC().Format(time.RFC3339),
		Achievement:   &achievement,
	})
}

// AddPortfolio stores a portfolio entry filed under the category.
func (b *Backend) AddPortfolio(portfolio models.Portfolio, categoryID string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.portfolios[portfolio.ID] = portfolio
	if categoryID != "" {
		b.portfolioCategory[portfolio.ID] = categoryID
	}
}

// Users returns every account's user sorted by id.
func (b *Backend) Users() []models.User {
	b.lock.Lock()
	defer b.lock.Unlock()
	users := make([]models.User, 0, len(b.accounts))
	for _, account := range sortedValues(b.accounts, func(a Account) string { return a.User.ID }) {
		users = append(users, account.User)
	}
	return users
}

func (b *Backend) issueAccessToken(userID string) string {
	claims := jwt.MapClaims{
		"userId": userID,
		"jti":    uuid.NewString(),
		"exp":    time.Now().Add(15 * time.Minute).Unix(),
	}
	if account, found := b.accountByID(userID); found {
		claims["role"] = string(account.User.Role)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	b.accessTokens[signed] = userID
	return signed
}

// issueRefreshToken must be called with the lock held.
func (b *Backend) issueRefreshToken(userID string) string {
	token := uuid.NewString()
	b.refreshTokens[token] = userID
	return token
}

func (b *Backend) accountByID(userID string) (Account, bool) {
	for _, account := range b.accounts {
		if account.User.ID == userID {
			return account, true
		}
	}
	return Account{}, false
}

func (b *Backend) record(c echo.Context, body []byte) {
	req := c.Request()
	b.lock.Lock()
	defer b.lock.Unlock()
	b.requests = append(b.requests, RecordedRequest{
		Method:        req.Method,
		Path:          strings.TrimPrefix(req.URL.Path, APIPrefix),
		RawQuery:      req.URL.RawQuery,
		Authorization: req.Header.Get(echo.HeaderAuthorization),
		RequestID:     req.Header.Get(echo.HeaderXRequestID),
		ContentType:   req.Header.Get(echo.HeaderContentType),
		Body:          body,
	})
}

func envelope(c echo.Context, status int, message string, data any) error {
	payload := map[string]any{"success": status < 400, "message": message}
	if data != nil {
		payload["data"] = data
	}
	return c.JSON(status, payload)
}

func failure(c echo.Context, status int, message string, fields map[string]string) error {
	payload := map[string]any{"success": false, "message": message}
	if len(fields) > 0 {
		payload["errors"] = fields
	}
	return c.JSON(status, payload)
}
