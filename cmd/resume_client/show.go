package main

import (
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the workspace text",
	RunE:  withApp(runShow),
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the text without a frame")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, a *app.App, _ []string) error {
	text := a.Workspace().Text()
	if showRaw {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	printer(cmd).PrintResume(text)
	return nil
}
