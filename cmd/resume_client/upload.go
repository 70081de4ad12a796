package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Load a resume file into the workspace",
	Long: "Load a resume into the workspace. PDFs are converted to text by the backend; " +
		"any other file is loaded as-is.",
	Args: cobra.ExactArgs(1),
	RunE: withApp(runUpload),
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, a *app.App, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if err := a.LoadFile(cmd.Context(), filepath.Base(args[0]), data); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}
