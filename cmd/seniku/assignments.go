package main

import (
	"fmt"
	"strings"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

func parseAssignmentStatus(value string) (models.AssignmentStatus, error) {
	status := models.AssignmentStatus(strings.ToUpper(value))
	if !status.Valid() {
		return "", fmt.Errorf("invalid assignment status %q (must be one of DRAFT, ACTIVE, COMPLETED)", value)
	}
	return status, nil
}

func newAssignmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assignment", "as"},
		Short:   "Manage assignments",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.requireLogin(cmd.Context())
		},
	}

	filter := models.AssignmentFilter{}
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				parsed, err := parseAssignmentStatus(status)
				if err != nil {
					return err
				}
				filter.Status = parsed
			}
			page, err := a.api.Assignments.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&status, "status", "", "filter by status (DRAFT, ACTIVE, COMPLETED)")
	list.Flags().StringVar(&filter.ClassID, "class", "", "filter by class ID")
	list.Flags().StringVar(&filter.Search, "search", "", "search in the title")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := a.api.Assignments.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(assignment)
		},
	}

	create := models.CreateAssignmentRequest{}
	var createStatus string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if createStatus != "" {
				parsed, err := parseAssignmentStatus(createStatus)
				if err != nil {
					return err
				}
				create.Status = parsed
			}
			assignment, err := a.api.Assignments.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return a.print(assignment)
		},
	}
	createCmd.Flags().StringVar(&create.Title, "title", "", "title")
	createCmd.Flags().StringVar(&create.Description, "description", "", "description")
	createCmd.Flags().StringVar(&create.MediaTypeID, "media-type", "", "media type ID")
	createCmd.Flags().StringVar(&create.ArtworkSize, "size", "", "artwork size")
	createCmd.Flags().StringVar(&create.Deadline, "deadline", "", "deadline (RFC 3339)")
	createCmd.Flags().StringSliceVar(&create.ClassIDs, "class", nil, "class IDs")
	createCmd.Flags().StringVar(&createStatus, "status", "", "initial status")
	createCmd.MarkFlagRequired("title")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.api.Assignments.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted assignment %s\n", args[0])
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <status> <id>...",
		Short: "Change the status of one or more assignments",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAssignmentStatus(args[0])
			if err != nil {
				return err
			}
			count, err := a.api.Assignments.BulkUpdateStatus(cmd.Context(), args[1:], parsed)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %d assignment(s)\n", count)
			return nil
		},
	}

	cmd.AddCommand(list, get, createCmd, del, statusCmd)
	return cmd
}
