package main

import (
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the backend",
	RunE:  withApp(runRegister),
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (required)")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (read from stdin when omitted)")
	_ = registerCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, a *app.App, _ []string) error {
	password, err := readPassword(cmd, registerPassword)
	if err != nil {
		return err
	}
	if err := a.Register(cmd.Context(), registerUsername, password); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}
