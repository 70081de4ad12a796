// Package main provides the resume_client CLI: a terminal and local web console
// front end for the resume optimizer backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	storeKind  string
)

var rootCmd = &cobra.Command{
	Use:   "resume_client",
	Short: "Resume Optimizer client",
	Long: "resume_client edits a resume locally and sends it to the resume optimizer backend " +
		"for optimization, PDF export and job matching. Session and resume text persist between runs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Session store: file, sqlite or memory (overrides RESUME_SESSION_STORE)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
