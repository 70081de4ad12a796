package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE:  withApp(runLogin),
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (read from stdin when omitted)")
	_ = loginCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, a *app.App, _ []string) error {
	password, err := readPassword(cmd, loginPassword)
	if err != nil {
		return err
	}
	if err := a.Login(cmd.Context(), loginUsername, password); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}

// readPassword returns flag, or the first line of stdin when flag is empty.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
