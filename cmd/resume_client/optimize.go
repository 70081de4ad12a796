package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var (
	optimizeApply []string
	optimizeShow  bool
	optimizeUse   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize the workspace resume and list suggestions",
	Long: "Send the workspace to the backend and print the optimized text and the suggestions. " +
		"Use --apply CAT.IDX to apply suggestions from this run to the workspace, or " +
		"--use-optimized to replace the workspace with the optimized text.",
	RunE: withApp(runOptimize),
}

func init() {
	optimizeCmd.Flags().StringSliceVar(&optimizeApply, "apply", nil, "Suggestions to apply, as category.index (repeatable)")
	optimizeCmd.Flags().BoolVar(&optimizeShow, "show", false, "Print the resulting resume")
	optimizeCmd.Flags().BoolVar(&optimizeUse, "use-optimized", false, "Replace the workspace with the optimized text")
	optimizeCmd.MarkFlagsMutuallyExclusive("apply", "use-optimized")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, a *app.App, _ []string) error {
	// Parse before calling the backend so a typo does not waste an optimize.
	refs := make([][2]int, 0, len(optimizeApply))
	for _, ref := range optimizeApply {
		cat, idx, err := parseSuggestionRef(ref)
		if err != nil {
			return err
		}
		refs = append(refs, [2]int{cat, idx})
	}

	if err := a.Optimize(cmd.Context()); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	snap := a.Snapshot()
	printer(cmd).PrintOptimized(snap.Optimized)
	printer(cmd).PrintSuggestions(snap.Suggestions)

	if optimizeUse {
		if err := a.UseOptimized(); err != nil {
			return failure(a, err)
		}
		report(cmd, a)
	}

	for _, ref := range refs {
		if err := a.ApplySuggestion(ref[0], ref[1]); err != nil {
			return failure(a, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d.%d\n", ref[0], ref[1])
	}

	if optimizeShow {
		printer(cmd).PrintResume(a.Workspace().Text())
	}
	return nil
}

// parseSuggestionRef parses "category.index".
func parseSuggestionRef(ref string) (int, int, error) {
	catStr, idxStr, ok := strings.Cut(ref, ".")
	if !ok {
		return 0, 0, fmt.Errorf("invalid suggestion %q: expected category.index", ref)
	}
	cat, err := strconv.Atoi(catStr)
	if err != nil || cat < 0 {
		return 0, 0, fmt.Errorf("invalid category in %q", ref)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return 0, 0, fmt.Errorf("invalid index in %q", ref)
	}
	return cat, idx, nil
}
