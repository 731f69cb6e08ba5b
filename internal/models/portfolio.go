package models

import "io"

type PortfolioStudent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NIS       string `json:"nis,omitempty"`
	ClassName string `json:"className,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type PortfolioAssignment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	MediaType   *MediaType `json:"mediaType,omitempty"`
}

// Portfolio is a graded artwork shown in the gallery.
type Portfolio struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description,omitempty"`
	ImageURL       string               `json:"imageUrl"`
	ImageThumbnail string               `json:"imageThumbnail,omitempty"`
	ImageMedium    string               `json:"imageMedium,omitempty"`
	MediaType      *MediaType           `json:"mediaType,omitempty"`
	Grade          *float64             `json:"grade,omitempty"`
	Feedback       string               `json:"feedback,omitempty"`
	Likes          int                  `json:"likes"`
	LikedByMe      bool                 `json:"likedByMe"`
	IsPublic       bool                 `json:"isPublic"`
	Student        *PortfolioStudent    `json:"student,omitempty"`
	Assignment     *PortfolioAssignment `json:"assignment,omitempty"`
	SubmittedAt    string               `json:"submittedAt,omitempty"`
	GradedAt       string               `json:"gradedAt,omitempty"`
}

type PortfolioPayload struct {
	Portfolio Portfolio `json:"portfolio"`
}

// PortfolioPage is the gallery listing, it names its items differently from Page.
type PortfolioPage struct {
	Items      []Portfolio `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

type PortfolioFilter struct {
	Page       int
	Limit      int
	CategoryID string
	StudentID  string
	ClassID    string
	Search     string
	MinGrade   *float64
	SortBy     string
	SortOrder  string
}

// CreatePortfolioRequest is sent as a multipart form like CreateSubmissionRequest.
type CreatePortfolioRequest struct {
	Title       string
	Description string
	CategoryID  string
	IsPublic    *bool
	ImageName   string
	Image       io.Reader
}

// UpdatePortfolioRequest only sends the fields that are set, Image is optional.
type UpdatePortfolioRequest struct {
	Title       *string
	Description *string
	CategoryID  *string
	IsPublic    *bool
	ImageName   string
	Image       io.Reader
}
