package main

import (
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

func newAchievementsCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "achievements", "Show achievements and badges", "achievement", "badges")

	filter := models.CatalogFilter{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List every achievement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.Achievements.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().StringVar(&filter.Search, "search", "", "search in the name")

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List the achievements you unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := a.api.Achievements.Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(unlocked)
		},
	}

	user := &cobra.Command{
		Use:   "user <user-id>",
		Short: "List the achievements a user unlocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := a.api.Achievements.ForUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(unlocked)
		},
	}

	cmd.AddCommand(list, mine, user)
	return cmd
}

func newCertificatesCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "certificates", "Issue certificates for graded artworks", "certificate", "cert")

	create := &cobra.Command{
		Use:   "create <submission-id>",
		Short: "Issue a certificate for a graded submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			certificate, err := a.api.Certificates.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(certificate)
		},
	}

	show := &cobra.Command{
		Use:   "show <token>",
		Short: "Show what a certificate says",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.api.Certificates.Data(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(data)
		},
	}

	cmd.AddCommand(create, show)
	return cmd
}
