package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Register creates an account. A 4xx answer (duplicate username, invalid payload) is an *AuthError.
func (c *Client) Register(ctx context.Context, creds types.Credentials) error {
	req, err := jsonCall(OpRegister, http.MethodPost, "/register", creds)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, req); err != nil {
		return mapFailure(err, authFailure(OpRegister))
	}
	return nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	req, err := jsonCall(OpLogin, http.MethodPost, "/login", creds)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, mapFailure(err, authFailure(OpLogin))
	}

	var resp types.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &AuthError{Message: "malformed login response", Cause: err}
	}
	if resp.AccessToken == "" {
		return nil, &AuthError{Message: "login response carried no access token"}
	}
	return &resp, nil
}

// Logout asks the backend to invalidate the current token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, call{op: OpLogout, method: http.MethodPost, path: "/logout"})
	return mapFailure(err, func(detail string, status int) error {
		return &NetworkError{Op: OpLogout, Message: detail, StatusCode: status}
	})
}

// authFailure maps 4xx answers to *AuthError; a 5xx is the backend's fault, not the credentials'.
func authFailure(op Operation) func(string, int) error {
	return func(detail string, status int) error {
		if status >= http.StatusInternalServerError {
			return &NetworkError{Op: op, Message: detail, StatusCode: status}
		}
		return &AuthError{Message: detail, StatusCode: status}
	}
}
