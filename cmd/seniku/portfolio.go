package main

import (
	"os"
	"path/filepath"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

// newLoggedInCmd builds a command group whose subcommands need a session.
func newLoggedInCmd(a *app, use, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.requireLogin(cmd.Context())
		},
	}
}

func newPortfolioCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "portfolio", "Browse and curate the artwork gallery", "gallery", "pf")

	filter := models.PortfolioFilter{}
	var minGrade float64
	list := &cobra.Command{
		Use:   "list",
		Short: "List portfolio entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.MinGrade = nil
			if cmd.Flags().Changed("min-grade") {
				filter.MinGrade = &minGrade
			}
			page, err := a.api.Portfolio.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 12, "page size")
	list.Flags().StringVar(&filter.CategoryID, "category", "", "filter by category ID")
	list.Flags().StringVar(&filter.StudentID, "student", "", "filter by student ID")
	list.Flags().StringVar(&filter.ClassID, "class", "", "filter by class ID")
	list.Flags().StringVar(&filter.Search, "search", "", "search in the title")
	list.Flags().StringVar(&filter.SortBy, "sort-by", "", "sort by grade or date")
	list.Flags().StringVar(&filter.SortOrder, "sort-order", "", "asc or desc")
	list.Flags().Float64Var(&minGrade, "min-grade", 0, "only entries graded at least this")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one portfolio entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := a.api.Portfolio.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(portfolio)
		},
	}

	upload := models.CreatePortfolioRequest{}
	var public bool
	uploadCmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Add an artwork to the portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer image.Close()
			if cmd.Flags().Changed("public") {
				upload.IsPublic = &public
			}
			upload.ImageName = filepath.Base(args[0])
			upload.Image = image
			portfolio, err := a.api.Portfolio.Create(cmd.Context(), upload)
			if err != nil {
				return err
			}
			return a.print(portfolio)
		},
	}
	uploadCmd.Flags().StringVar(&upload.Title, "title", "", "title of the artwork")
	uploadCmd.Flags().StringVar(&upload.Description, "description", "", "description of the artwork")
	uploadCmd.Flags().StringVar(&upload.CategoryID, "category", "", "category ID")
	uploadCmd.Flags().BoolVar(&public, "public", true, "show the artwork in the public gallery")
	uploadCmd.MarkFlagRequired("title")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a portfolio entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.Portfolio.Delete(cmd.Context(), args[0])
		},
	}

	like := &cobra.Command{
		Use:   "like <id>",
		Short: "Like a portfolio entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := a.api.Portfolio.Like(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(portfolio)
		},
	}

	unlike := &cobra.Command{
		Use:   "unlike <id>",
		Short: "Take back a like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := a.api.Portfolio.Unlike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(portfolio)
		},
	}

	cmd.AddCommand(list, get, uploadCmd, remove, like, unlike)
	return cmd
}
