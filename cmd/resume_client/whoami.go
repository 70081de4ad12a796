package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  withApp(runWhoami),
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, a *app.App, _ []string) error {
	out := cmd.OutOrStdout()
	if a.Session().State() != types.StateAuthenticated {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(out, "Logged in as %s\n", a.Session().Session().Username)
	if claims, ok := a.Session().Claims(); ok && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "Token expires %s (in %s)\n",
			claims.ExpiresAt.Local().Format(time.RFC1123), time.Until(claims.ExpiresAt).Round(time.Minute))
	}
	return nil
}
