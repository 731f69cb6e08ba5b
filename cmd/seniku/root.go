package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "seniku",
		Short:         "Command line client for the seniku art e-portfolio",
		Long:          "Command line client for the seniku art e-portfolio. The session is stored locally and refreshed automatically.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to the configuration file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputJSON, "output format (json, yaml)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
		newDashboardCmd(a),
		newAssignmentsCmd(a),
		newSubmissionsCmd(a),
		newNotificationsCmd(a),
		newExportCmd(a),
		newPortfolioCmd(a),
		newClassesCmd(a),
		newUsersCmd(a),
		newCategoriesCmd(a),
		newMediaTypesCmd(a),
		newAchievementsCmd(a),
		newCertificatesCmd(a),
	)
	return root
}
