package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/presenter"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/jonathan/resume-optimizer/internal/store"
	"github.com/spf13/cobra"
)

// loadConfig resolves the effective configuration for a command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storeKind != "" {
		cfg.SessionStore = storeKind
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openStore opens the configured session store.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.SessionStore == "memory" {
		return store.NewMemory(), nil
	}
	return store.Open(cfg.SessionStore, cfg.StateDir)
}

// openApp builds the controller from configuration. Callers must Close it.
func openApp() (*app.App, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	a, err := app.New(app.Options{
		BaseURL:     cfg.APIURL,
		Timeout:     cfg.TimeoutDuration(),
		UserAgent:   cfg.UserAgent,
		Store:       st,
		RequireAuth: cfg.RequireAuth,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return a, cfg, nil
}

// withApp runs fn with an open controller and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		return fn(cmd, a, args)
	}
}

// rateLimitConfig converts console settings into limiter rules.
func rateLimitConfig(cfg *config.Config) ratelimit.Config {
	rl := ratelimit.DefaultConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	rl.Enabled = !cfg.RateLimitDisabled && cfg.RateLimitPerMinute > 0
	return rl
}

// printer writes boxed output to the command's stdout.
func printer(cmd *cobra.Command) *presenter.Printer {
	return presenter.NewPrinter(cmd.OutOrStdout())
}

// report prints the controller's status line.
func report(cmd *cobra.Command, a *app.App) {
	if s := a.Status(); s.Message != "" && !s.IsError() {
		fmt.Fprintln(cmd.OutOrStdout(), s.Message)
	}
}

// failure turns a controller error into the status message it recorded.
func failure(a *app.App, err error) error {
	if s := a.Status(); s.Message != "" {
		return errors.New(s.Message)
	}
	return err
}
