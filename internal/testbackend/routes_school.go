package testbackend

import (
	"bufio"
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (b *Backend) schoolRoutes(g *echo.Group) {
	classID := func(c models.Class) string { return c.ID }
	g.GET("/classes", listCatalog(b, b.classes, classID, func(c models.Class) string { return c.Name }, nil))
	g.GET("/classes/:id", getCatalog(b, b.classes, "class", func(c models.Class) any { return models.ClassPayload{Class: c} }))
	g.POST("/classes", b.createClass)
	g.PUT("/classes/:id", b.updateClass)
	g.DELETE("/classes/:id", deleteCatalog(b, b.classes, "class", nil))

	categoryID := func(c models.Category) string { return c.ID }
	g.GET("/categories", listCatalog(b, b.categories, categoryID, func(c models.Category) string { return c.Name }, func(c models.Category) bool { return c.IsActive }))
	g.GET("/categories/:id", getCatalog(b, b.categories, "category", func(c models.Category) any { return models.CategoryPayload{Category: c} }))
	g.POST("/categories", b.createCategory)
	g.PUT("/categories/:id", b.updateCategory)
	g.DELETE("/categories/:id", deleteCatalog(b, b.categories, "category", b.categoryInUse))

	mediaTypeID := func(m models.MediaType) string { return m.ID }
	g.GET("/media-types", listCatalog(b, b.mediaTypes, mediaTypeID, func(m models.MediaType) string { return m.Name }, func(m models.MediaType) bool { return m.IsActive }))
	g.GET("/media-types/:id", getCatalog(b, b.mediaTypes, "media type", func(m models.MediaType) any { return models.MediaTypePayload{MediaType: m} }))
	g.POST("/media-types", b.createMediaType)
	g.PUT("/media-types/:id", b.updateMediaType)
	g.DELETE("/media-types/:id", deleteCatalog(b, b.mediaTypes, "media type", nil))

	g.GET("/users", b.listUsers)
	g.POST("/users", b.createUser, b.teachersOnly)
	g.POST("/users/import", b.importStudents, b.teachersOnly)
	g.GET("/users/:id", b.getUser)
	g.PUT("/users/:id", b.updateUser)
	g.DELETE("/users/:id", b.deleteUser, b.teachersOnly)
}

// listing answers with a bare array unless a page was asked for, the real backend
// does the same for its small reference listings.
func listing[T any](c echo.Context, items []T) error {
	if c.QueryParam("page") == "" {
		return envelope(c, http.StatusOK, "ok", items)
	}
	p, start, end := pagination(c, len(items))
	return envelope(c, http.StatusOK, "ok", models.Page[T]{Data: items[start:end], Pagination: p})
}

func listCatalog[T any](b *Backend, items map[string]T, id, name func(T) string, active func(T) bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.lock.Lock()
		all := sortedValues(items, id)
		b.lock.Unlock()
		search := strings.ToLower(c.QueryParam("search"))
		isActive := c.QueryParam("isActive")
		filtered := []T{}
		for _, item := range all {
			if search != "" && !strings.Contains(strings.ToLower(name(item)), search) {
				continue
			}
			if active != nil && isActive != "" && strconv.FormatBool(active(item)) != isActive {
				continue
			}
			filtered = append(filtered, item)
		}
		return listing(c, filtered)
	}
}

func getCatalog[T any](b *Backend, items map[string]T, label string, payload func(T) any) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.lock.Lock()
		item, found := items[c.Param("id")]
		b.lock.Unlock()
		if !found {
			return failure(c, http.StatusNotFound, label+" not found", nil)
		}
		return envelope(c, http.StatusOK, "ok", payload(item))
	}
}

// deleteCatalog refuses entries reported by inUse unless force=true is sent.
func deleteCatalog[T any](b *Backend, items map[string]T, label string, inUse func(id string) bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		b.lock.Lock()
		defer b.lock.Unlock()
		if _, found := items[id]; !found {
			return failure(c, http.StatusNotFound, label+" not found", nil)
		}
		if inUse != nil && inUse(id) && c.QueryParam("force") != "true" {
			return failure(c, http.StatusConflict, label+" is still in use", nil)
		}
		delete(items, id)
		return envelope(c, http.StatusOK, label+" deleted", nil)
	}
}

// categoryInUse expects b.lock to be held.
func (b *Backend) categoryInUse(id string) bool {
	for _, categoryID := range b.portfolioCategory {
		if categoryID == id {
			return true
		}
	}
	return false
}

func (b *Backend) teachersOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.lock.Lock()
		account, _ := b.accountByID(c.Get(userIDCtxKey).(string))
		b.lock.Unlock()
		if account.User.Role != models.RoleTeacher && account.User.Role != models.RoleAdmin {
			return failure(c, http.StatusForbidden, "only teachers may do this", nil)
		}
		return next(c)
	}
}

func (b *Backend) createClass(c echo.Context) error {
	req := models.ClassRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Name == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"name": "Name is required"})
	}
	class := models.Class{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	b.AddClass(class)
	return envelope(c, http.StatusCreated, "class created", models.ClassPayload{Class: class})
}

func (b *Backend) updateClass(c echo.Context) error {
	req := models.ClassRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	class, found := b.classes[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "class not found", nil)
	}
	if req.Name != "" {
		class.Name = req.Name
	}
	if req.Description != "" {
		class.Description = req.Description
	}
	b.classes[class.ID] = class
	return envelope(c, http.StatusOK, "class updated", models.ClassPayload{Class: class})
}

func (b *Backend) createCategory(c echo.Context) error {
	req := models.CategoryRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Name == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"name": "Name is required"})
	}
	category := models.Category{ID: uuid.NewString(), Name: req.Name, Description: req.Description, Icon: req.Icon, IsActive: true}
	b.AddCategory(category)
	return envelope(c, http.StatusCreated, "category created", models.CategoryPayload{Category: category})
}

func (b *Backend) updateCategory(c echo.Context) error {
	req := models.CategoryRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	category, found := b.categories[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "category not found", nil)
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	b.categories[category.ID] = category
	return envelope(c, http.StatusOK, "category updated", models.CategoryPayload{Category: category})
}

func (b *Backend) createMediaType(c echo.Context) error {
	req := models.MediaTypeRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.Name == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"name": "Name is required"})
	}
	mediaType := models.MediaType{ID: uuid.NewString(), Name: req.Name, Description: req.Description, IsActive: true}
	b.AddMediaType(mediaType)
	return envelope(c, http.StatusCreated, "media type created", models.MediaTypePayload{MediaType: mediaType})
}

func (b *Backend) updateMediaType(c echo.Context) error {
	req := models.MediaTypeRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	mediaType, found := b.mediaTypes[c.Param("id")]
	if !found {
		return failure(c, http.StatusNotFound, "media type not found", nil)
	}
	if req.Name != "" {
		mediaType.Name = req.Name
	}
	if req.Description != "" {
		mediaType.Description = req.Description
	}
	if req.IsActive != nil {
		mediaType.IsActive = *req.IsActive
	}
	b.mediaTypes[mediaType.ID] = mediaType
	return envelope(c, http.StatusOK, "media type updated", models.MediaTypePayload{MediaType: mediaType})
}

func (b *Backend) listUsers(c echo.Context) error {
	filtered := []models.User{}
	search := strings.ToLower(c.QueryParam("search"))
	for _, user := range b.Users() {
		if role := c.QueryParam("role"); role != "" && string(user.Role) != role {
			continue
		}
		if classID := c.QueryParam("classId"); classID != "" && user.ClassID != classID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.Name), search) {
			continue
		}
		filtered = append(filtered, user)
	}
	p, start, end := pagination(c, len(filtered))
	return envelope(c, http.StatusOK, "ok", models.Page[models.User]{Data: filtered[start:end], Pagination: p})
}

func (b *Backend) getUser(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	account, found := b.accountByID(c.Param("id"))
	if !found {
		return failure(c, http.StatusNotFound, "user not found", nil)
	}
	return envelope(c, http.StatusOK, "ok", models.UserPayload{User: account.User})
}

func (b *Backend) createUser(c echo.Context) error {
	req := models.CreateUserRequest{}
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}
	identifier := req.NIS
	if req.Role == models.RoleTeacher {
		identifier = req.NIP
	}
	if identifier == "" || req.Name == "" || req.Password == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"identifier": "required"})
	}
	if req.Role == models.RoleStudent && req.ClassID == "" {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"classId": "Students need a class"})
	}
	user := models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		NIP:       req.NIP,
		NIS:       req.NIS,
		Name:      req.Name,
		Role:      req.Role,
		Phone:     req.Phone,
		Address:   req.Address,
		Bio:       req.Bio,
		Birthdate: req.Birthdate,
		ClassID:   req.ClassID,
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, found := b.accounts[identifier]; found {
		return failure(c, http.StatusConflict, "user already exists", nil)
	}
	b.accounts[identifier] = Account{Identifier: identifier, Password: req.Password, User: user}
	return envelope(c, http.StatusCreated, "user created", models.UserPayload{User: user})
}

// updateUser accepts the JSON and the multipart rendition of the profile.
func (b *Backend) updateUser(c echo.Context) error {
	req := models.UpdateUserRequest{}
	avatar := ""
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return failure(c, http.StatusBadRequest, "invalid form", nil)
		}
		value := func(key string) string {
			if values := form.Value[key]; len(values) > 0 {
				return values[0]
			}
			return ""
		}
		req.Name, req.Phone, req.Address, req.Bio, req.Birthdate, req.ClassID = value("name"), value("phone"), value("address"), value("bio"), value("birthdate"), value("classId")
		req.ClassIDs = form.Value["classIds[]"]
		if files := form.File["avatar"]; len(files) > 0 {
			avatar = "/uploads/avatars/" + files[0].Filename
		}
	} else if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid body", nil)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for identifier, account := range b.accounts {
		if account.User.ID != c.Param("id") {
			continue
		}
		user := account.User
		for _, field := range []struct {
			target *string
			value  string
		}{
			{&user.Name, req.Name},
			{&user.Phone, req.Phone},
			{&user.Address, req.Address},
			{&user.Bio, req.Bio},
			{&user.Birthdate, req.Birthdate},
			{&user.ClassID, req.ClassID},
			{&user.Avatar, avatar},
		} {
			if field.value != "" {
				*field.target = field.value
			}
		}
		if len(req.ClassIDs) > 0 {
			user.Classes = nil
			for _, id := range req.ClassIDs {
				user.Classes = append(user.Classes, models.ClassSummary{ID: id, Name: b.classes[id].Name})
			}
		}
		account.User = user
		b.accounts[identifier] = account
		return envelope(c, http.StatusOK, "user updated", models.UserPayload{User: user})
	}
	return failure(c, http.StatusNotFound, "user not found", nil)
}

func (b *Backend) deleteUser(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	for identifier, account := range b.accounts {
		if account.User.ID == c.Param("id") {
			delete(b.accounts, identifier)
			return envelope(c, http.StatusOK, "user deleted", nil)
		}
	}
	return failure(c, http.StatusNotFound, "user not found", nil)
}

// importStudents reads one "nis,name,classId" line per student instead of a real spreadsheet.
func (b *Backend) importStudents(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return failure(c, http.StatusBadRequest, "validation failed", map[string]string{"file": "File is required"})
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	content := bytes.Buffer{}
	if _, err := content.ReadFrom(file); err != nil {
		return err
	}

	result := models.ImportResult{Errors: []models.ImportRowError{}}
	scanner := bufio.NewScanner(&content)
	b.lock.Lock()
	defer b.lock.Unlock()
	for row := 1; scanner.Scan(); row++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result.Total++
		cols := strings.Split(line, ",")
		nis := strings.TrimSpace(cols[0])
		switch {
		case len(cols) < 3 || nis == "" || strings.TrimSpace(cols[1]) == "":
			result.Failed++
			result.Errors = append(result.Errors, models.ImportRowError{Row: row, NIS: nis, Error: "nis, name and class are required"})
		case b.accounts[nis].Identifier != "":
			result.Failed++
			result.Errors = append(result.Errors, models.ImportRowError{Row: row, NIS: nis, Error: "student already exists"})
		default:
			result.Success++
			b.accounts[nis] = Account{Identifier: nis, Password: nis, User: models.User{
				ID:      uuid.NewString(),
				NIS:     nis,
				Name:    strings.TrimSpace(cols[1]),
				Role:    models.RoleStudent,
				ClassID: strings.TrimSpace(cols[2]),
			}}
		}
	}
	return envelope(c, http.StatusOK, "import finished", result)
}
