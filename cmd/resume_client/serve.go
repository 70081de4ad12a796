package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-optimizer/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web console",
	Long:  `Start a local HTTP server with the editor, optimized and match-result views.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from RESUME_CONSOLE_PORT or 8080)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to bind (default 127.0.0.1)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cfg, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	port := cfg.ConsolePort
	if servePort != 0 {
		port = servePort
	}
	host := cfg.ConsoleHost
	if serveHost != "" {
		host = serveHost
	}

	srv, err := server.New(a, server.Config{
		Host:      host,
		Port:      port,
		RateLimit: rateLimitConfig(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Console available at http://%s (backend %s)\n", srv.Addr(), cfg.APIURL)
	return srv.Start(ctx)
}
