package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

func newSubmissionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"submission", "sub"},
		Short:   "Submit and grade artworks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.requireLogin(cmd.Context())
		},
	}

	filter := models.SubmissionFilter{}
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = models.SubmissionStatus(strings.ToUpper(status))
			page, err := a.api.Submissions.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&filter.AssignmentID, "assignment", "", "filter by assignment ID")
	list.Flags().StringVar(&filter.StudentID, "student", "", "filter by student ID")
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().StringVar(&filter.Search, "search", "", "search in the title")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			submission, err := a.api.Submissions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(submission)
		},
	}

	submit := models.CreateSubmissionRequest{}
	submitCmd := &cobra.Command{
		Use:   "submit <assignment-id> <image>",
		Short: "Upload an artwork for an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer image.Close()
			submit.AssignmentID = args[0]
			submit.ImageName = filepath.Base(args[1])
			submit.Image = image
			submission, err := a.api.Submissions.Create(cmd.Context(), submit)
			if err != nil {
				return err
			}
			return a.print(submission)
		},
	}
	submitCmd.Flags().StringVar(&submit.Title, "title", "", "title of the artwork")
	submitCmd.Flags().StringVar(&submit.Description, "description", "", "description of the artwork")
	submitCmd.MarkFlagRequired("title")

	grade := models.GradeSubmissionRequest{}
	gradeCmd := &cobra.Command{
		Use:   "grade <id>",
		Short: "Grade a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if grade.Grade < 0 || grade.Grade > 100 {
				return fmt.Errorf("the grade must be between 0 and 100")
			}
			submission, err := a.api.Submissions.Grade(cmd.Context(), args[0], grade)
			if err != nil {
				return err
			}
			return a.print(submission)
		},
	}
	gradeCmd.Flags().Float64Var(&grade.Grade, "grade", 0, "grade between 0 and 100")
	gradeCmd.Flags().StringVar(&grade.Feedback, "feedback", "", "feedback for the student")
	gradeCmd.MarkFlagRequired("grade")

	var note string
	revise := &cobra.Command{
		Use:   "revise <id>",
		Short: "Return a submission to the student for revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			submission, err := a.api.Submissions.ReturnForRevision(cmd.Context(), args[0], note)
			if err != nil {
				return err
			}
			return a.print(submission)
		},
	}
	revise.Flags().StringVar(&note, "note", "", "what needs to be revised")
	revise.MarkFlagRequired("note")

	cmd.AddCommand(list, get, submitCmd, gradeCmd, revise)
	return cmd
}
