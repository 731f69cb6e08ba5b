package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/alif-arrizqy/allboom-app/internal/services"
	"github.com/spf13/cobra"
)

// openTarget opens the output file, "-" writes to stdout.
func (a *app) openTarget(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return a.out, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download grade exports and report cards",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.requireLogin(cmd.Context())
		},
	}

	req := models.ExportGradesRequest{}
	var fileType, format, target string
	grades := &cobra.Command{
		Use:   "grades",
		Short: "Export grades as an Excel or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Format = models.ExportFormat(format)
			w, closeFn, err := a.openTarget(target)
			if err != nil {
				return err
			}
			res, err := a.api.Export.Grades(cmd.Context(), services.GradesFileType(fileType), req, w)
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if target != "-" {
				fmt.Fprintf(a.out, "Wrote %d bytes (%s) to %s\n", res.Size, res.ContentType, target)
			}
			return nil
		},
	}
	grades.Flags().StringVar(&fileType, "type", string(services.GradesExcel), "file type (excel, pdf)")
	grades.Flags().StringVar(&format, "format", string(models.ExportSummary), "level of detail (summary, detailed)")
	grades.Flags().StringSliceVar(&req.ClassIDs, "class", nil, "class IDs")
	grades.Flags().StringSliceVar(&req.AssignmentIDs, "assignment", nil, "assignment IDs")
	grades.Flags().StringSliceVar(&req.StudentIDs, "student", nil, "student IDs")
	grades.Flags().StringVar(&req.StartDate, "from", "", "start date")
	grades.Flags().StringVar(&req.EndDate, "to", "", "end date")
	grades.Flags().StringVarP(&target, "file", "f", "-", "output file, - for stdout")

	var cardFormat, cardTarget string
	reportCard := &cobra.Command{
		Use:   "report-card <student-id>",
		Short: "Download the report card of a student as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := cardTarget
			if target == "" {
				target = fmt.Sprintf("report-card-%s.pdf", args[0])
			}
			w, closeFn, err := a.openTarget(target)
			if err != nil {
				return err
			}
			res, err := a.api.Export.ReportCard(cmd.Context(), args[0], models.ExportFormat(cardFormat), w)
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if target != "-" {
				fmt.Fprintf(a.out, "Wrote %d bytes to %s\n", res.Size, target)
			}
			return nil
		},
	}
	reportCard.Flags().StringVar(&cardFormat, "format", string(models.ExportDetailed), "level of detail (summary, detailed)")
	reportCard.Flags().StringVarP(&cardTarget, "file", "f", "", "output file, - for stdout")

	cmd.AddCommand(grades, reportCard)
	return cmd
}
