package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

// CertificateService issues certificates and reads the data behind them. Rendering
// the printable certificate is left to the backend page.
type CertificateService struct {
	sender Sender
}

func (s *CertificateService) Create(ctx context.Context, submissionID string) (models.Certificate, error) {
	res, err := sendJSON[models.CertificatePayload](
		ctx,
		s.sender,
		http.MethodPost,
		"/certificates",
		models.CreateCertificateRequest{SubmissionID: submissionID},
	)
	return res.Certificate, err
}

// Data asks for the JSON rendition of the certificate page.
func (s *CertificateService) Data(ctx context.Context, token string) (models.CertificateData, error) {
	return call[models.CertificateData](ctx, s.sender, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/certificates/" + url.PathEscape(token),
		Header: http.Header{"Accept": {"application/json"}},
	})
}
