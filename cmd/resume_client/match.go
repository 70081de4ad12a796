package main

import (
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var matchSave bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find job postings that match the workspace resume",
	RunE:  withApp(runMatch),
}

func init() {
	matchCmd.Flags().BoolVar(&matchSave, "save", false, "Ask the backend to store the results")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, a *app.App, _ []string) error {
	result, err := a.MatchJobs(cmd.Context(), matchSave)
	if err != nil {
		return failure(a, err)
	}
	printer(cmd).PrintJobs(result)
	return nil
}
