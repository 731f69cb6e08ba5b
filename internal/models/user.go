package models

import "io"

type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

type ClassSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email,omitempty"`
	NIP       string         `json:"nip,omitempty"`
	NIS       string         `json:"nis,omitempty"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Phone     string         `json:"phone,omitempty"`
	Address   string         `json:"address,omitempty"`
	Bio       string         `json:"bio,omitempty"`
	Birthdate string         `json:"birthdate,omitempty"`
	Avatar    string         `json:"avatar,omitempty"`
	ClassName string         `json:"className,omitempty"`
	ClassID   string         `json:"classId,omitempty"`
	Classes   []ClassSummary `json:"classes,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// LoginRequest uses the NIP for teachers and the NIS for students as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type RegisterRequest struct {
	Email    string   `json:"email,omitempty"`
	Password string   `json:"password"`
	NIP      string   `json:"nip,omitempty"`
	NIS      string   `json:"nis,omitempty"`
	Name     string   `json:"name"`
	Role     Role     `json:"role"`
	Phone    string   `json:"phone,omitempty"`
	ClassID  string   `json:"classId,omitempty"`
	ClassIDs []string `json:"classIds,omitempty"`
}

type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserPayload struct {
	User User `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse holds the refreshed pair, the refresh token is only set
// when the backend rotates it.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type UserFilter struct {
	Page    int
	Limit   int
	Role    Role
	ClassID string
	Search  string
}

// CreateUserRequest needs a ClassID for students, teachers may list several ClassIDs.
type CreateUserRequest struct {
	Email     string   `json:"email,omitempty"`
	NIP       string   `json:"nip,omitempty"`
	NIS       string   `json:"nis,omitempty"`
	Password  string   `json:"password"`
	Name      string   `json:"name"`
	Role      Role     `json:"role"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Birthdate string   `json:"birthdate,omitempty"`
	ClassID   string   `json:"classId,omitempty"`
	ClassIDs  []string `json:"classIds,omitempty"`
}

// UpdateUserRequest is sent as JSON, or as a multipart form when an avatar is attached.
type UpdateUserRequest struct {
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Birthdate  string    `json:"birthdate,omitempty"`
	ClassID    string    `json:"classId,omitempty"`
	ClassIDs   []string  `json:"classIds,omitempty"`
	AvatarName string    `json:"-"`
	Avatar     io.Reader `json:"-"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	NIS   string `json:"nis"`
	Error string `json:"error"`
}

// ImportResult summarises a student import from a spreadsheet.
type ImportResult struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
}
