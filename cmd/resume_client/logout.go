package main

import (
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session and resume",
	RunE:  withApp(runLogout),
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, a *app.App, _ []string) error {
	a.Logout(cmd.Context())
	report(cmd, a)
	return nil
}
