package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignments(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)

	created, err := api.Assignments.Create(ctx, models.CreateAssignmentRequest{
		Title:    "Batik pattern",
		Deadline: "2026-11-01T00:00:00Z",
		ClassIDs: []string{"c1"},
		Status:   models.AssignmentActive,
	})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, created.CreatedByID)
	backend.AddAssignment(models.Assignment{ID: "zz-draft", Title: "Clay", Status: models.AssignmentDraft})

	page, err := api.Assignments.List(ctx, models.AssignmentFilter{Status: models.AssignmentActive, Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	if diff := cmp.Diff(created, page.Data[0]); diff != "" {
		t.Errorf("unexpected assignment (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.Pagination{Page: 1, Limit: 5, Total: 1, TotalPages: 1}, page.Pagination)
	reqs := backend.RequestsTo(http.MethodGet, "/assignments")
	require.Len(t, reqs, 1)
	assert.Equal(t, "limit=5&page=1&status=ACTIVE", reqs[0].RawQuery)

	title := "Batik pattern v2"
	updated, err := api.Assignments.Update(ctx, created.ID, models.UpdateAssignmentRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	got, err := api.Assignments.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	count, err := api.Assignments.BulkUpdateStatus(ctx, []string{created.ID, "zz-draft", "missing"}, models.AssignmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, api.Assignments.Delete(ctx, created.ID))
	_, err = api.Assignments.Get(ctx, created.ID)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = api.Assignments.Create(ctx, models.CreateAssignmentRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Title is required", apiErr.Fields["title"])
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	backend.ExpireAccessTokens()

	// The multipart body is sent again unchanged after the refresh.
	created, err := api.Submissions.Create(ctx, models.CreateSubmissionRequest{
		AssignmentID: "as-1",
		Title:        "Sunset",
		Description:  "watercolour",
		ImageName:    "sunset.png",
		Image:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset", created.Title)
	assert.Equal(t, "watercolour", created.Description)
	assert.Equal(t, "/uploads/sunset.png?size=9", created.ImageURL)
	assert.Equal(t, models.SubmissionPending, created.Status)
	attempts := backend.RequestsTo(http.MethodPost, "/submissions")
	require.Len(t, attempts, 2)
	assert.Equal(t, attempts[0].Body, attempts[1].Body)
	assert.True(t, strings.HasPrefix(attempts[1].ContentType, "multipart/form-data; boundary="))

	graded, err := api.Submissions.Grade(ctx, created.ID, models.GradeSubmissionRequest{Grade: 88, Feedback: "Nice"})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 88.0, *graded.Grade)
	assert.Equal(t, models.SubmissionGraded, graded.Status)

	returned, err := api.Submissions.ReturnForRevision(ctx, created.ID, "Add shading")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRevision, returned.Status)
	assert.Equal(t, 1, returned.RevisionCount)

	page, err := api.Submissions.List(ctx, models.SubmissionFilter{AssignmentID: "as-1"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	got, err := api.Submissions.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Add shading", got.Feedback)

	_, err = api.Submissions.Grade(ctx, created.ID, models.GradeSubmissionRequest{Grade: 120})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	_, err = api.Submissions.Create(ctx, models.CreateSubmissionRequest{Title: "No image"})
	assert.Error(t, err)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	backend.AddNotification(models.Notification{ID: "n1", Type: "SUBMISSION", Title: "New submission"})
	backend.AddNotification(models.Notification{ID: "n2", Type: "GRADE", Title: "Graded", IsRead: true})
	backend.AddNotification(models.Notification{ID: "n3", Type: "SUBMISSION", Title: "Another"})

	unread, err := api.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	isRead := false
	page, err := api.Notifications.List(ctx, models.NotificationFilter{IsRead: &isRead, Type: "SUBMISSION"})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "n1", page.Data[0].ID)

	n, err := api.Notifications.MarkRead(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	count, err := api.Notifications.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, api.Notifications.Delete(ctx, "n2"))
	assert.Len(t, backend.Notifications(), 2)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	api, backend, _ := newTestAPI(t)
	login(t, api)
	backend.AddAssignment(models.Assignment{ID: "a1", Status: models.AssignmentActive})
	backend.AddAssignment(models.Assignment{ID: "a2", Status: models.AssignmentDraft})

	overview, err := api.Dashboard.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, overview.Role)
	require.NotNil(t, overview.Statistics.ActiveAssignments)
	assert.Equal(t, 1, *overview.Statistics.ActiveAssignments)
}
