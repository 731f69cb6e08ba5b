package models

// Certificate is issued for a graded submission. Token is the public handle of
// the printable certificate page.
type Certificate struct {
	ID            string `json:"id"`
	Token         string `json:"token,omitempty"`
	SubmissionID  string `json:"submissionId"`
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	ArtworkTitle  string `json:"artworkTitle"`
	MediaTypeID   string `json:"mediaTypeId,omitempty"`
	MediaTypeName string `json:"mediaTypeName,omitempty"`
	ArtworkSize   string `json:"artworkSize,omitempty"`
	YearCreated   int    `json:"yearCreated,omitempty"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

type CertificatePayload struct {
	Certificate Certificate `json:"certificate"`
}

type CreateCertificateRequest struct {
	SubmissionID string `json:"submissionId"`
}

// CertificateData is everything needed to render a certificate.
type CertificateData struct {
	ID            string `json:"id"`
	Token         string `json:"token"`
	StudentName   string `json:"studentName"`
	ArtworkTitle  string `json:"artworkTitle"`
	MediaTypeName string `json:"mediaTypeName"`
	ArtworkSize   string `json:"artworkSize"`
	YearCreated   int    `json:"yearCreated"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
}
