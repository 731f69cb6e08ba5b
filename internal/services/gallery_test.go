package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolio(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	backend.ExpireAccessTokens()

	public := true
	created, err := api.Portfolio.Create(ctx, models.CreatePortfolioRequest{
		Title:      "Harbour",
		CategoryID: "cat-1",
		IsPublic:   &public,
		ImageName:  "harbour.jpg",
		Image:      strings.NewReader("jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/harbour.jpg?size=4", created.ImageURL)
	assert.True(t, created.IsPublic)
	require.NotNil(t, created.Student)
	assert.Equal(t, teacher.ID, created.Student.ID)
	attempts := backend.RequestsTo(http.MethodPost, "/portfolio")
	require.Len(t, attempts, 2)
	assert.Equal(t, attempts[0].Body, attempts[1].Body)

	grade := 91.0
	backend.AddPortfolio(models.Portfolio{ID: "zz-graded", Title: "Market", Grade: &grade}, "cat-2")

	page, err := api.Portfolio.List(ctx, models.PortfolioFilter{CategoryID: "cat-1", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, page.Pagination)

	minGrade := 90.0
	page, err = api.Portfolio.List(ctx, models.PortfolioFilter{MinGrade: &minGrade, SortBy: "grade"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "zz-graded", page.Items[0].ID)
	reqs := backend.RequestsTo(http.MethodGet, "/portfolio")
	assert.Equal(t, "minGrade=90&sortBy=grade", reqs[len(reqs)-1].RawQuery)

	title := "Harbour at dusk"
	private := false
	updated, err := api.Portfolio.Update(ctx, created.ID, models.UpdatePortfolioRequest{Title: &title, IsPublic: &private})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, created.ImageURL, updated.ImageURL)

	updated, err = api.Portfolio.Update(ctx, created.ID, models.UpdatePortfolioRequest{ImageName: "v2.jpg", Image: strings.NewReader("jpeg2")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/v2.jpg?size=5", updated.ImageURL)
	assert.Equal(t, title, updated.Title)

	require.NoError(t, api.Portfolio.Delete(ctx, created.ID))
	_, err = api.Portfolio.Get(ctx, created.ID)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = api.Portfolio.Create(ctx, models.CreatePortfolioRequest{Title: "No image"})
	assert.Error(t, err)
}

func TestPortfolioLikes(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	backend.AddPortfolio(models.Portfolio{ID: "p1", Title: "Market"}, "")

	liked, err := api.Portfolio.Like(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.LikedByMe)

	// Liking twice counts once.
	liked, err = api.Portfolio.Like(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	got, err := api.Portfolio.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.LikedByMe)

	unliked, err := api.Portfolio.Unlike(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.False(t, unliked.LikedByMe)
}

func TestAchievements(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)

	created, err := api.Achievements.Create(ctx, models.AchievementRequest{
		Name:     "First upload",
		Icon:     "star",
		Criteria: map[string]any{"submissions": float64(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"submissions": float64(1)}, created.Criteria)
	backend.UnlockAchievement(teacher.ID, created.ID)
	backend.UnlockAchievement("student-1", created.ID)

	mine, err := api.Achievements.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].AchievementID)
	require.NotNil(t, mine[0].Achievement)
	assert.Equal(t, "First upload", mine[0].Achievement.Name)

	theirs, err := api.Achievements.ForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	none, err := api.Achievements.ForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	updated, err := api.Achievements.Update(ctx, created.ID, models.AchievementRequest{Description: "Upload one artwork"})
	require.NoError(t, err)
	assert.Equal(t, "Upload one artwork", updated.Description)
	listed, err := api.Achievements.List(ctx, models.CatalogFilter{Search: "first"})
	require.NoError(t, err)
	require.Len(t, listed.Data, 1)

	err = api.Achievements.Delete(ctx, created.ID, false)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.NoError(t, api.Achievements.Delete(ctx, created.ID, true))
	_, err = api.Achievements.Get(ctx, created.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCertificates(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	grade := 95.0
	backend.AddSubmission(models.Submission{ID: "s1", StudentID: teacher.ID, Title: "Batik", ImageURL: "/uploads/batik.png", Status: models.SubmissionGraded, Grade: &grade})
	backend.AddSubmission(models.Submission{ID: "s2", StudentID: teacher.ID, Title: "Draft", Status: models.SubmissionPending})

	_, err := api.Certificates.Create(ctx, "s2")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	certificate, err := api.Certificates.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", certificate.SubmissionID)
	assert.Equal(t, teacher.Name, certificate.StudentName)
	require.NotEmpty(t, certificate.Token)

	data, err := api.Certificates.Data(ctx, certificate.Token)
	require.NoError(t, err)
	assert.Equal(t, models.CertificateData{
		ID:           certificate.ID,
		Token:        certificate.Token,
		StudentName:  teacher.Name,
		ArtworkTitle: "Batik",
		YearCreated:  certificate.YearCreated,
		ImageURL:     "/uploads/batik.png",
	}, data)

	_, err = api.Certificates.Data(ctx, "unknown")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
