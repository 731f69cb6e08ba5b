package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/pipeline"
)

type GradesFileType string

const (
	GradesExcel GradesFileType = "excel"
	GradesPDF   GradesFileType = "pdf"
)

// ExportResult describes a downloaded file.
type ExportResult struct {
	ContentType string
	Filename    string
	Size        int64
}

type ExportService struct {
	sender Sender
}

// Grades writes the grade export in the requested file type to w.
func (s *ExportService) Grades(ctx context.Context, fileType GradesFileType, req models.ExportGradesRequest, w io.Writer) (ExportResult, error) {
	if fileType != GradesExcel && fileType != GradesPDF {
		return ExportResult{}, fmt.Errorf("unknown grades file type %q", fileType)
	}
	request, err := pipeline.NewJSONRequest(http.MethodPost, "/export/grades/"+string(fileType), req)
	if err != nil {
		return ExportResult{}, err
	}
	request.Header = http.Header{"Accept": {"*/*"}}
	return s.download(ctx, request, w)
}

// ReportCard writes the report card of a student as PDF to w.
func (s *ExportService) ReportCard(ctx context.Context, studentID string, format models.ExportFormat, w io.Writer) (ExportResult, error) {
	if format == "" {
		format = models.ExportDetailed
	}
	return s.download(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "/export/report-card/" + url.PathEscape(studentID),
		Query:  url.Values{"format": {string(format)}},
		Header: http.Header{"Accept": {"*/*"}},
	}, w)
}

func (s *ExportService) download(ctx context.Context, request pipeline.Request, w io.Writer) (ExportResult, error) {
	resp, err := s.sender.Send(ctx, request)
	if err != nil {
		return ExportResult{}, err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return ExportResult{}, apiError(resp)
	}
	result := ExportResult{ContentType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		result.Filename = params["filename"]
	}
	result.Size, err = io.Copy(w, resp.Body)
	return result, err
}
