package models

import "io"

type SubmissionStatus string

const (
	SubmissionNotSubmitted SubmissionStatus = "NOT_SUBMITTED"
	SubmissionPending      SubmissionStatus = "PENDING"
	SubmissionRevision     SubmissionStatus = "REVISION"
	SubmissionGraded       SubmissionStatus = "GRADED"
)

type Submission struct {
	ID             string           `json:"id"`
	AssignmentID   string           `json:"assignmentId"`
	StudentID      string           `json:"studentId"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	ImageURL       string           `json:"imageUrl"`
	ImageThumbnail string           `json:"imageThumbnail,omitempty"`
	ImageMedium    string           `json:"imageMedium,omitempty"`
	Status         SubmissionStatus `json:"status"`
	Grade          *float64         `json:"grade,omitempty"`
	Feedback       string           `json:"feedback,omitempty"`
	RevisionCount  int              `json:"revisionCount"`
	SubmittedAt    string           `json:"submittedAt,omitempty"`
	GradedAt       string           `json:"gradedAt,omitempty"`
	Assignment     *Assignment      `json:"assignment,omitempty"`
	Student        *User            `json:"student,omitempty"`
}

type SubmissionPayload struct {
	Submission Submission `json:"submission"`
}

type SubmissionFilter struct {
	Page         int
	Limit        int
	AssignmentID string
	StudentID    string
	Status       SubmissionStatus
	Search       string
}

// CreateSubmissionRequest is sent as a multipart form, the image is streamed
// from Image and named ImageName in the form.
type CreateSubmissionRequest struct {
	AssignmentID string
	Title        string
	Description  string
	ImageName    string
	Image        io.Reader
}

type GradeSubmissionRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback,omitempty"`
}

type ReturnForRevisionRequest struct {
	RevisionNote string `json:"revisionNote"`
}
