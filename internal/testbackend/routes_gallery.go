package testbackend

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (b *Backend) galleryRoutes(public, g *echo.Group) {
	g.GET("/portfolio", b.listPortfolios)
	g.POST("/portfolio", b.createPortfolio)
	g.GET("/portfolio/:id", b.getPortfolio)
	g.PUT("/portfolio/:id", b.updatePortfolio)
	g.DELETE("/portfolio/:id", b.deletePortfolio)
	g.POST("/portfolio/:id/like", b.likePortfolio(true))
	g.DELETE("/portfolio/:id/like", b.likePortfolio(false))

	achievementID := func(a models.Achievement) string { return a.ID }
	g.GET("/achievements", listCatalog(b, b.achievements, achievementID, func(a models.Achievement) string { return a.Name }, nil))
	g.GET("/achievements/me/achievements", b.myAchievements)
	g.GET("/achievements/user/:userId", b.userAchievementsOf)
	g.GET("/achievements/:id", getCatalog(b, b.achievements, "achievement", func(a models.Achievement) any { return models.AchievementPayload{Achievement: a} }))
	g.POST("/achievements", b.createAchievement, b.teachersOnly)
	g.PUT("/achievements/:id", b.updateAchievement, b.teachersOnly)
	g.DELETE("/achievements/:id", deleteCatalog(b, b.achievements, "achievement", b.achievementUnlocked), b.teachersOnly)

	g.POST("/certificates", b.createCertificate)
	public.GET("/certificates/:token", b.certificate)
}

// withLikes expects b.lock to be held.
func (b *Backend) withLikes(p models.Portfolio, userID string) models.Portfolio {
	p.Likes = len(b.likes[p.ID])
	p.LikedByMe = b.likes[p.ID][userID]
	return p
}

func (b *Backend) listPortfolios(c echo.Context) error {
	userID := c.Get(userIDCtxKey).(string)
	search := strings.ToLower(c.QueryParam("search"))
	minGrade, _ := strconv.ParseFloat(c.QueryParam("minGrade"), 64)
	b.lock.Lock()
	filtered := []models.Portfolio{}
	for _, p := range sortedValues(b.portfolios, func(p models.Portfolio) string { return p.ID }) {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if id := c.QueryParam("categoryId"); id != "" && b.portfolioCategory[p.ID] != id {
			continue
		}
		if id := c.QueryParam("studentId"); id != "" && (p.Student == nil || p.Student.ID != id) {
			continue
		}
		if minGrade > 0 && (p.Grade == nil || *p.Grade < minGrade) {
			continue
		}
		filtered = append(filtered, b.withLikes(p, userID))
	}
	b.lock.Unlock()
	if c.QueryParam("sortBy") == "grade" {
		sort.SliceStable(filtered, func(i, j int) bool {
			gi, gj := 0.0, 0.0
			if filtered[i].Grade != nil {
				gi = *filtered[i].Grade
			}
			if filtered[j].Grade != nil {
				gj = *filtered[j].Grade
			}
			if c.QueryParam("sortOrder") == "asc" {
				return gi < gj
			}
			return gi > gj
		})
	}
	p, start, end := pagination(c, len(filtered))
	return envelope(c, http.StatusOK, "ok", models.PortfolioPage{Items: filtered[start:end], Pagination: p})
}

func (b *Backend) getPortfolio(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	p, found := b.portfolios[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "portfolio not found", nil)
	}
	return envelope(c, http.StatusOK, "ok", models.PortfolioPayload{Portfolio: b.withLikes(p, c.Get(userIDCtxKey).(string))})
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values, found := form.Value[key]
	if !found || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func uploadURL(form *multipart.Form) (string, bool) {
	files := form.File["image"]
	if len(files) == 0 {
		return "", false
	}
	return fmt.Sprintf("/uploads/%s?size=%d", files[0].Filename, files[0].Size), true
}

func (b *Backend) createPortfolio(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return failure(c, http.StatusBadRequest, "invalid form", nil)
	}
	title, _ := formValue(form, "title")
	imageURL, hasImage := uploadURL(form)
	if title == "" || !hasImage {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"image": "Title and image are required"})
	}
	userID := c.Get(userIDCtxKey).(string)
	b.lock.Lock()
	account, _ := b.accountByID(userID)
	b.lock.Unlock()
	description, _ := formValue(form, "description")
	isPublic, _ := formValue(form, "isPublic")
	categoryID, _ := formValue(form, "categoryId")
	p := models.Portfolio{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		IsPublic:    isPublic == "true",
		Student:     &models.PortfolioStudent{ID: userID, Name: account.User.Name, NIS: account.User.NIS},
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.AddPortfolio(p, categoryID)
	return envelope(c, http.StatusCreated, "portfolio created", models.PortfolioPayload{Portfolio: p})
}

func (b *Backend) updatePortfolio(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return failure(c, http.StatusBadRequest, "invalid form", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	p, found := b.portfolios[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "portfolio not found", nil)
	}
	if title, ok := formValue(form, "title"); ok {
		p.Title = title
	}
	if description, ok := formValue(form, "description"); ok {
		p.Description = description
	}
	if isPublic, ok := formValue(form, "isPublic"); ok {
		p.IsPublic = isPublic == "true"
	}
	if categoryID, ok := formValue(form, "categoryId"); ok {
		b.portfolioCategory[p.ID] = categoryID
	}
	if imageURL, ok := uploadURL(form); ok {
		p.ImageURL = imageURL
	}
	b.portfolios[p.ID] = p
	return envelope(c, http.StatusOK, "portfolio updated", models.PortfolioPayload{Portfolio: b.withLikes(p, c.Get(userIDCtxKey).(string))})
}

func (b *Backend) deletePortfolio(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := c.Param("id")
	if _, found := b.portfolios[id]; !found {
		return failure(c, http.StatusNotFound, "portfolio not found", nil)
	}
	delete(b.portfolios, id)
	delete(b.portfolioCategory, id)
	delete(b.likes, id)
	return envelope(c, http.StatusOK, "portfolio deleted", nil)
}

func (b *Backend) likePortfolio(like bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Get(userIDCtxKey).(string)
		b.lock.Lock()
		defer b.lock.Unlock()
		p, found := b.portfolios[c.Param("id")]
		if !found {
			return failure(c, http.StatusNotFound, "portfolio not found", nil)
		}
		if b.likes[p.ID] == nil {
			b.likes[p.ID] = map[string]bool{}
		}
		if like {
			b.likes[p.ID][userID] = true
		} else {
			delete(b.likes[p.ID], userID)
		}
		return envelope(c, http.StatusOK, "ok", models.PortfolioPayload{Portfolio: b.withLikes(p, userID)})
	}
}

// achievementUnlocked expects b.lock to be held.
func (b *Backend) achievementUnlocked(id string) bool {
	for _, unlocked := range b.userAchievements {
		for _, ua := range unlocked {
			if ua.AchievementID == id {
				return true
			}
		}
	}
	return false
}

func (b *Backend) achievementsOf(c echo.Context, userID string) error {
	b.lock.Lock()
	achievements := append([]models.UserAchievement{}, b.userAchievements[userID]...)
	b.lock.Unlock()
	return envelope(c, http.StatusOK, "ok", models.UserAchievementsPayload{Achievements: achievements})
}

func (b *Backend) myAchievements(c echo.Context) error {
	return b.achievementsOf(c, c.Get(userIDCtxKey).(string))
}

func (b *Backend) userAchievementsOf(c echo.Context) error {
	return b.achievementsOf(c, c.Param("userId"))
}

func (b *Backend) createAchievement(c echo.Context) error {
	req := models.AchievementRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Name == "" || req.Icon == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"name": "Name and icon are required"})
	}
	achievement := models.Achievement{ID: uuid.NewString(), Name: req.Name, Description: req.Description, Icon: req.Icon, Criteria: req.Criteria}
	b.AddAchievement(achievement)
	return envelope(c, http.StatusCreated, "achievement created", models.AchievementPayload{Achievement: achievement})
}

func (b *Backend) updateAchievement(c echo.Context) error {
	req := models.AchievementRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	achievement, found := b.achievements[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "achievement not found", nil)
	}
	if req.Name != "" {
		achievement.Name = req.Name
	}
	if req.Description != "" {
		achievement.Description = req.Description
	}
	if req.Icon != "" {
		achievement.Icon = req.Icon
	}
	if req.Criteria != nil {
		achievement.Criteria = req.Criteria
	}
	b.achievements[achievement.ID] = achievement
	return envelope(c, http.StatusOK, "achievement updated", models.AchievementPayload{Achievement: achievement})
}

func (b *Backend) createCertificate(c echo.Context) error {
	req := models.CreateCertificateRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	s, found := b.submissions[req.SubmissionID]
	if !found {
		return failure(c, http.StatusNotFound, "submission not found", nil)
	}
	if s.Status != models.SubmissionGraded {
		return failure(c, http.StatusBadRequest, "only graded submissions get a certificate", nil)
	}
	student, _ := b.accountByID(s.StudentID)
	certificate := models.Certificate{
		ID:           uuid.NewString(),
		Token:        uuid.NewString(),
		SubmissionID: s.ID,
		StudentID:    s.StudentID,
		StudentName:  student.User.Name,
		ArtworkTitle: s.Title,
		YearCreated:  time.Now().Year(),
		Description:  s.Description,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	b.certificates[certificate.Token] = models.CertificateData{
		ID:           certificate.ID,
		Token:        certificate.Token,
		StudentName:  certificate.StudentName,
		ArtworkTitle: certificate.ArtworkTitle,
		YearCreated:  certificate.YearCreated,
		Description:  certificate.Description,
		ImageURL:     s.ImageURL,
	}
	return envelope(c, http.StatusCreated, "certificate created", models.CertificatePayload{Certificate: certificate})
}

// certificate renders HTML unless JSON is asked for.
func (b *Backend) certificate(c echo.Context) error {
	b.lock.Lock()
	data, found := b.certificates[c.Param("token")]
	b.lock.Unlock()
	if !found {
		return failure(c, http.StatusNotFound, "certificate not found", nil)
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return envelope(c, http.StatusOK, "ok", data)
	}
	return c.HTML(http.StatusOK, fmt.Sprintf("<h1>%s</h1><p>%s</p>", data.ArtworkTitle, data.StudentName))
}
