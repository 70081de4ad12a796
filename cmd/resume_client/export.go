package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the workspace to PDF",
	RunE:  withApp(runExport),
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "optimized_resume.pdf", "Output path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, a *app.App, _ []string) error {
	pdf, err := a.Export(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	if err := os.WriteFile(exportOut, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", exportOut, len(pdf))
	return nil
}
