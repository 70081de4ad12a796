package app

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/workspace"
)

// StatusKind classifies a status message for rendering.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
	// StatusReauth asks the user to log in again after the backend rejected the credential.
	StatusReauth StatusKind = "reauth"
)

// ReauthMessage is shown after any unauthorized response.
const ReauthMessage = "Your session has expired or is invalid. Please log in again."

// Status is the user-visible outcome of the last operation.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// IsError reports whether the status describes a failure.
func (s Status) IsError() bool {
	return s.Kind == StatusError || s.Kind == StatusReauth
}

// StatusFor converts an operation failure into the message shown to the user.
// An unauthorized response wins over the operation's own message, except for
// login and registration where a 401 means the credentials were rejected.
func StatusFor(op gateway.Operation, err error) Status {
	credentialOp := op == gateway.OpLogin || op == gateway.OpRegister
	if gateway.IsUnauthorized(err) && !credentialOp {
		return Status{Kind: StatusReauth, Message: ReauthMessage}
	}

	var (
		authErr     *gateway.AuthError
		uploadErr   *gateway.UploadError
		optimizeErr *gateway.OptimizeError
		exportErr   *gateway.ExportError
		matchErr    *gateway.MatchError
		netErr      *gateway.NetworkError
	)

	var msg string
	switch {
	case errors.As(err, &authErr):
		if credentialOp {
			msg = fmt.Sprintf("Authentication failed: %s", authErr.Message)
		} else {
			msg = "Please log in to continue."
		}
	case errors.As(err, &uploadErr):
		msg = fmt.Sprintf("Could not read the uploaded file: %s", uploadErr.Message)
	case errors.As(err, &optimizeErr):
		msg = fmt.Sprintf("Optimization failed: %s", optimizeErr.Message)
	case errors.As(err, &exportErr):
		msg = fmt.Sprintf("PDF export failed: %s", exportErr.Message)
	case errors.As(err, &matchErr):
		msg = fmt.Sprintf("Job matching failed: %s", matchErr.Message)
	case errors.As(err, &netErr):
		msg = fmt.Sprintf("Could not reach the server (%s): %s", op, netErr.Message)
	case errors.Is(err, workspace.ErrOriginalNotFound):
		msg = "The text this suggestion replaces is no longer in your resume."
	case errors.Is(err, ErrEmptyResume):
		return Status{Kind: StatusInfo, Message: "Add some resume text first."}
	case errors.Is(err, ErrNoSuchSuggestion):
		msg = "That suggestion is no longer available."
	case errors.Is(err, ErrNotOptimized):
		msg = "Optimize the resume first."
	default:
		msg = fmt.Sprintf("%s failed: %v", op, err)
	}
	return Status{Kind: StatusError, Message: msg}
}
