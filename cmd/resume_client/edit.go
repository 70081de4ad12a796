package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var (
	editFile string
	editText string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Overwrite the workspace text",
	Long:  "Overwrite the workspace with --text, the contents of --file, or stdin when --file is \"-\".",
	RunE:  withApp(runEdit),
}

func init() {
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", `Read the new text from a file ("-" for stdin)`)
	editCmd.Flags().StringVar(&editText, "text", "", "New text")
	editCmd.MarkFlagsMutuallyExclusive("file", "text")
	editCmd.MarkFlagsOneRequired("file", "text")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, a *app.App, _ []string) error {
	text := editText
	switch editFile {
	case "":
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	default:
		data, err := os.ReadFile(editFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", editFile, err)
		}
		text = string(data)
	}

	a.Edit(text)
	fmt.Fprintf(cmd.OutOrStdout(), "Resume updated (%d characters).\n", len(text))
	return nil
}
