package main

import (
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var generateShow bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Replace the workspace with a backend-generated example resume",
	RunE:  withApp(runGenerate),
}

func init() {
	generateCmd.Flags().BoolVar(&generateShow, "show", false, "Print the generated resume")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, a *app.App, _ []string) error {
	if err := a.Generate(cmd.Context()); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	if generateShow {
		printer(cmd).PrintResume(a.Workspace().Text())
	}
	return nil
}
