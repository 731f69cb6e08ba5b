package testbackend

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userIDCtxKey string = "userID"

func (b *Backend) routes() {
	b.echo.Use(b.recorder)
	api := b.echo.Group(APIPrefix)

	api.POST("/auth/login", b.login)
	api.POST("/auth/register", b.register)
	api.POST("/auth/refresh", b.refresh)

	authenticated := api.Group("", b.authenticate)
	authenticated.GET("/auth/me", b.me)
	authenticated.POST("/auth/logout", b.logout)

	authenticated.GET("/assignments", b.listAssignments)
	authenticated.POST("/assignments", b.createAssignment)
	authenticated.PUT("/assignments/bulk-status", b.bulkStatus)
	authenticated.GET("/assignments/:id", b.getAssignment)
	authenticated.PUT("/assignments/:id", b.updateAssignment)
	authenticated.DELETE("/assignments/:id", b.deleteAssignment)

	authenticated.GET("/submissions", b.listSubmissions)
	authenticated.POST("/submissions", b.createSubmission)
	authenticated.GET("/submissions/:id", b.getSubmission)
	authenticated.POST("/submissions/:id/grade", b.gradeSubmission)
	authenticated.POST("/submissions/:id/revision", b.returnSubmission)

	authenticated.GET("/notifications", b.listNotifications)
	authenticated.GET("/notifications/unread/count", b.unreadCount)
	authenticated.PUT("/notifications/read-all", b.readAll)
	authenticated.PUT("/notifications/:id/read", b.markRead)
	authenticated.DELETE("/notifications/:id", b.deleteNotification)

	authenticated.GET("/dashboard/overview", b.overview)

	authenticated.POST("/export/grades/excel", b.exportGrades("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	authenticated.POST("/export/grades/pdf", b.exportGrades("application/pdf"))
	authenticated.GET("/export/report-card/:id", b.reportCard)

	b.schoolRoutes(authenticated)
	b.galleryRoutes(api, authenticated)
}

func (b *Backend) recorder(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		c.Request().Body = io.NopCloser(bytes.NewReader(body))
		b.record(c, body)
		return next(c)
	}
}

func (b *Backend) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return failure(c, http.StatusUnauthorized, "missing access token", nil)
		}
		b.lock.Lock()
		userID, valid := b.accessTokens[token]
		b.lock.Unlock()
		if !valid {
			return failure(c, http.StatusUnauthorized, "invalid or expired access token", nil)
		}
		if b.failNext.Load() > 0 && b.failNext.Add(-1) >= 0 {
			return failure(c, http.StatusUnauthorized, "access token rejected", nil)
		}
		c.Set(userIDCtxKey, userID)
		return next(c)
	}
}

func (b *Backend) login(c echo.Context) error {
	req := models.LoginRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	account, found := b.accounts[req.Identifier]
	if !found || account.Password != req.Password {
		return failure(c, http.StatusUnauthorized, "invalid credentials", nil)
	}
	return envelope(c, http.StatusOK, "login successful", models.LoginResponse{
		User:         account.User,
		AccessToken:  b.issueAccessToken(account.User.ID),
		RefreshToken: b.issueRefreshToken(account.User.ID),
	})
}

func (b *Backend) register(c echo.Context) error {
	req := models.RegisterRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	identifier := req.NIS
	if req.Role == models.RoleTeacher {
		identifier = req.NIP
	}
	if identifier == "" || req.Password == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"identifier": "required"})
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, found := b.accounts[identifier]; found {
		return failure(c, http.StatusConflict, "user already exists", nil)
	}
	user := models.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, NIP: req.NIP, NIS: req.NIS, Role: req.Role}
	b.accounts[identifier] = Account{Identifier: identifier, Password: req.Password, User: user}
	return envelope(c, http.StatusCreated, "registered", models.UserPayload{User: user})
}

func (b *Backend) refresh(c echo.Context) error {
	b.refreshCalls.Add(1)
	if b.RefreshStarted != nil {
		b.RefreshStarted <- struct{}{}
	}
	if b.RefreshGate != nil {
		select {
		case <-b.RefreshGate:
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}
	req := models.RefreshTokenRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	userID, valid := b.refreshTokens[req.RefreshToken]
	if !valid {
		return failure(c, http.StatusUnauthorized, "invalid refresh token", nil)
	}
	response := models.RefreshTokenResponse{AccessToken: b.issueAccessToken(userID)}
	if b.RotateRefreshTokens {
		delete(b.refreshTokens, req.RefreshToken)
		response.RefreshToken = b.issueRefreshToken(userID)
	}
	if b.Flat {
		return c.JSON(http.StatusOK, response)
	}
	return envelope(c, http.StatusOK, "token refreshed", response)
}

func (b *Backend) me(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	account, found := b.accountByID(c.Get(userIDCtxKey).(string))
	if !found {
		return failure(c, http.StatusNotFound, "user not found", nil)
	}
	return envelope(c, http.StatusOK, "ok", models.UserPayload{User: account.User})
}

func (b *Backend) logout(c echo.Context) error {
	return envelope(c, http.StatusOK, "logged out", nil)
}

func pagination(c echo.Context, total int) (models.Pagination, int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: (total + limit - 1) / limit}, start, end
}

func sortedValues[T any](m map[string]T, id func(T) string) []T {
	output := make([]T, 0, len(m))
	for _, v := range m {
		output = append(output, v)
	}
	sort.Slice(output, func(i, j int) bool { return id(output[i]) < id(output[j]) })
	return output
}

func (b *Backend) listAssignments(c echo.Context) error {
	b.lock.Lock()
	all := sortedValues(b.assignments, func(a models.Assignment) string { return a.ID })
	b.lock.Unlock()
	filtered := []models.Assignment{}
	status := c.QueryParam("status")
	search := strings.ToLower(c.QueryParam("search"))
	for _, a := range all {
		if status != "" && string(a.Status) != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		filtered = append(filtered, a)
	}
	p, start, end := pagination(c, len(filtered))
	return envelope(c, http.StatusOK, "ok", models.Page[models.Assignment]{Data: filtered[start:end], Pagination: p})
}

func (b *Backend) getAssignment(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	a, found := b.assignments[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "assignment not found", nil)
	}
	return envelope(c, http.StatusOK, "ok", models.AssignmentPayload{Assignment: a})
}

func (b *Backend) createAssignment(c echo.Context) error {
	req := models.CreateAssignmentRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Title == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"title": "Title is required"})
	}
	status := req.Status
	if status == "" {
		status = models.AssignmentDraft
	}
	a := models.Assignment{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		MediaTypeID: req.MediaTypeID,
		ArtworkSize: req.ArtworkSize,
		Deadline:    req.Deadline,
		Status:      status,
		CreatedByID: c.Get(userIDCtxKey).(string),
	}
	b.AddAssignment(a)
	return envelope(c, http.StatusCreated, "assignment created", models.AssignmentPayload{Assignment: a})
}

func (b *Backend) updateAssignment(c echo.Context) error {
	req := models.UpdateAssignmentRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	a, found := b.assignments[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "assignment not found", nil)
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Deadline != nil {
		a.Deadline = *req.Deadline
	}
	if req.Status != "" {
		a.Status = req.Status
	}
	b.assignments[a.ID] = a
	return envelope(c, http.StatusOK, "assignment updated", models.AssignmentPayload{Assignment: a})
}

func (b *Backend) deleteAssignment(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, found := b.assignments[c.Param("id")]; !found {
		return failure(c, http.StatusNotFound, "assignment not found", nil)
	}
	delete(b.assignments, c.Param("id"))
	return envelope(c, http.StatusOK, "assignment deleted", nil)
}

func (b *Backend) bulkStatus(c echo.Context) error {
	req := models.BulkStatusRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	count := 0
	for _, id := range req.AssignmentIDs {
		if a, found := b.assignments[id]; found {
			a.Status = req.Status
			b.assignments[id] = a
			count++
		}
	}
	return envelope(c, http.StatusOK, "status updated", models.Count{Count: count})
}

func (b *Backend) listSubmissions(c echo.Context) error {
	b.lock.Lock()
	all := sortedValues(b.submissions, func(s models.Submission) string { return s.ID })
	b.lock.Unlock()
	filtered := []models.Submission{}
	for _, s := range all {
		if id := c.QueryParam("assignmentId"); id != "" && s.AssignmentID != id {
			continue
		}
		if status := c.QueryParam("status"); status != "" && string(s.Status) != status {
			continue
		}
		filtered = append(filtered, s)
	}
	p, start, end := pagination(c, len(filtered))
	return envelope(c, http.StatusOK, "ok", models.Page[models.Submission]{Data: filtered[start:end], Pagination: p})
}

func (b *Backend) getSubmission(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	s, found := b.submissions[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "submission not found", nil)
	}
	return envelope(c, http.StatusOK, "ok", models.SubmissionPayload{Submission: s})
}

func (b *Backend) createSubmission(c echo.Context) error {
	image, err := c.FormFile("image")
	if err != nil {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"image": "Image is required"})
	}
	file, err := image.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s := models.Submission{
		ID:           uuid.NewString(),
		AssignmentID: c.FormValue("assignmentId"),
		StudentID:    c.Get(userIDCtxKey).(string),
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		ImageURL:     fmt.Sprintf("/uploads/%s?size=%d", image.Filename, len(content)),
		Status:       models.SubmissionPending,
		SubmittedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	b.AddSubmission(s)
	return envelope(c, http.StatusCreated, "submission created", models.SubmissionPayload{Submission: s})
}

func (b *Backend) gradeSubmission(c echo.Context) error {
	req := models.GradeSubmissionRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Grade < 0 || req.Grade > 100 {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"grade": "Grade must be between 0 and 100"})
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	s, found := b.submissions[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "submission not found", nil)
	}
	s.Grade = &req.Grade
	s.Feedback = req.Feedback
	s.Status = models.SubmissionGraded
	b.submissions[s.ID] = s
	return envelope(c, http.StatusOK, "submission graded", models.SubmissionPayload{Submission: s})
}

func (b *Backend) returnSubmission(c echo.Context) error {
	req := models.ReturnForRevisionRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	s, found := b.submissions[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "submission not found", nil)
	}
	s.Status = models.SubmissionRevision
	s.Feedback = req.RevisionNote
	s.RevisionCount++
	b.submissions[s.ID] = s
	return envelope(c, http.StatusOK, "returned for revision", models.SubmissionPayload{Submission: s})
}

func (b *Backend) listNotifications(c echo.Context) error {
	all := b.Notifications()
	filtered := []models.Notification{}
	for _, n := range all {
		if isRead := c.QueryParam("isRead"); isRead != "" && strconv.FormatBool(n.IsRead) != isRead {
			continue
		}
		if t := c.QueryParam("type"); t != "" && n.Type != t {
			continue
		}
		filtered = append(filtered, n)
	}
	p, start, end := pagination(c, len(filtered))
	return envelope(c, http.StatusOK, "ok", models.Page[models.Notification]{Data: filtered[start:end], Pagination: p})
}

func (b *Backend) unreadCount(c echo.Context) error {
	count := 0
	for _, n := range b.Notifications() {
		if !n.IsRead {
			count++
		}
	}
	return envelope(c, http.StatusOK, "ok", models.Count{Count: count})
}

func (b *Backend) markRead(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	n, found := b.notifications[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "notification not found", nil)
	}
	n.IsRead = true
	b.notifications[n.ID] = n
	return envelope(c, http.StatusOK, "ok", models.NotificationPayload{Notification: n})
}

func (b *Backend) readAll(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	count := 0
	for id, n := range b.notifications {
		if !n.IsRead {
			n.IsRead = true
			b.notifications[id] = n
			count++
		}
	}
	return envelope(c, http.StatusOK, "ok", models.Count{Count: count})
}

func (b *Backend) deleteNotification(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, found := b.notifications[c.Param("id")]; !found {
		return failure(c, http.StatusNotFound, "notification not found", nil)
	}
	delete(b.notifications, c.Param("id"))
	return envelope(c, http.StatusOK, "notification deleted", nil)
}

func (b *Backend) overview(c echo.Context) error {
	b.lock.Lock()
	account, _ := b.accountByID(c.Get(userIDCtxKey).(string))
	active := 0
	for _, a := range b.assignments {
		if a.Status == models.AssignmentActive {
			active++
		}
	}
	pending := 0
	for _, s := range b.submissions {
		if s.Status == models.SubmissionPending {
			pending++
		}
	}
	b.lock.Unlock()
	return envelope(c, http.StatusOK, "ok", models.DashboardOverview{
		Role: account.User.Role,
		Statistics: models.DashboardStatistics{
			ActiveAssignments:  &active,
			PendingSubmissions: &pending,
		},
	})
}

func (b *Backend) exportGrades(contentType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := models.ExportGradesRequest{}
		if err := c.Bind(&req); err != nil {
			return failure(c, http.StatusBadRequest, "invalid body", nil)
		}
		content := fmt.Sprintf("grades format=%s classes=%s", req.Format, strings.Join(req.ClassIDs, ","))
		return c.Blob(http.StatusOK, contentType, []byte(content))
	}
}

func (b *Backend) reportCard(c echo.Context) error {
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-card-%s.pdf", c.Param("id")))
	content := fmt.Sprintf("report card student=%s format=%s", c.Param("id"), c.QueryParam("format"))
	return c.Blob(http.StatusOK, "application/pdf", []byte(content))
}
