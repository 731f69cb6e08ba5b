package models

type AssignmentStatus string

const (
	AssignmentDraft     AssignmentStatus = "DRAFT"
	AssignmentActive    AssignmentStatus = "ACTIVE"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentDraft, AssignmentActive, AssignmentCompleted:
		return true
	default:
		return false
	}
}

type MediaType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type Assignment struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	MediaTypeID string           `json:"mediaTypeId"`
	ArtworkSize string           `json:"artworkSize,omitempty"`
	Deadline    string           `json:"deadline"`
	Status      AssignmentStatus `json:"status"`
	CreatedByID string           `json:"createdById"`
	CreatedAt   string           `json:"createdAt,omitempty"`
	UpdatedAt   string           `json:"updatedAt,omitempty"`
	MediaType   *MediaType       `json:"mediaType,omitempty"`
}

type AssignmentPayload struct {
	Assignment Assignment `json:"assignment"`
}

type AssignmentFilter struct {
	Page    int
	Limit   int
	Status  AssignmentStatus
	ClassID string
	Search  string
}

type CreateAssignmentRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	MediaTypeID string           `json:"mediaTypeId"`
	ArtworkSize string           `json:"artworkSize,omitempty"`
	Deadline    string           `json:"deadline"`
	ClassIDs    []string         `json:"classIds"`
	Status      AssignmentStatus `json:"status,omitempty"`
}

type UpdateAssignmentRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	MediaTypeID *string          `json:"mediaTypeId,omitempty"`
	ArtworkSize *string          `json:"artworkSize,omitempty"`
	Deadline    *string          `json:"deadline,omitempty"`
	Status      AssignmentStatus `json:"status,omitempty"`
	ClassIDs    []string         `json:"classIds,omitempty"`
}

type BulkStatusRequest struct {
	AssignmentIDs []string         `json:"assignmentIds"`
	Status        AssignmentStatus `json:"status"`
}
