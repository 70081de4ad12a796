package main

import (
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var (
	applyOriginal string
	applyImproved string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a suggestion to the workspace",
	Long: "Replace the first occurrence of --original with --improved. Without --original the " +
		"improved text is appended after a blank line.",
	RunE: withApp(runApply),
}

func init() {
	applyCmd.Flags().StringVar(&applyOriginal, "original", "", "Text to replace")
	applyCmd.Flags().StringVar(&applyImproved, "improved", "", "Replacement or text to append (required)")
	_ = applyCmd.MarkFlagRequired("improved")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, a *app.App, _ []string) error {
	s := types.Suggestion{Improved: applyImproved}
	if cmd.Flags().Changed("original") && applyOriginal != "" {
		s.Original = types.StringPtr(applyOriginal)
	}
	if err := a.Apply(s); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}
