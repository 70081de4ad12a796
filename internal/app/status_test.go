package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/workspace"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		op   gateway.Operation
		err  error
		kind StatusKind
		want string
	}{
		{
			name: "unauthorized beats operation error",
			op:   gateway.OpExport,
			err:  &gateway.AuthError{Message: "expired", StatusCode: 401, Unauthorized: true},
			kind: StatusReauth,
			want: ReauthMessage,
		},
		{
			name: "rejected login credentials",
			op:   gateway.OpLogin,
			err:  &gateway.AuthError{Message: "Invalid credentials", StatusCode: 401, Unauthorized: true},
			kind: StatusError,
			want: "Authentication failed: Invalid credentials",
		},
		{
			name: "bad credentials",
			op:   gateway.OpLogin,
			err:  &gateway.AuthError{Message: "Incorrect username or password", StatusCode: 400},
			kind: StatusError,
			want: "Authentication failed: Incorrect username or password",
		},
		{
			name: "login required",
			op:   gateway.OpMatch,
			err:  &gateway.AuthError{Message: "login required"},
			kind: StatusError,
			want: "Please log in to continue.",
		},
		{
			name: "upload",
			op:   gateway.OpUpload,
			err:  &gateway.UploadError{Message: "not a resume"},
			kind: StatusError,
			want: "Could not read the uploaded file: not a resume",
		},
		{
			name: "optimize",
			op:   gateway.OpOptimize,
			err:  &gateway.OptimizeError{Message: "malformed optimize response"},
			kind: StatusError,
			want: "Optimization failed: malformed optimize response",
		},
		{
			name: "export",
			op:   gateway.OpExport,
			err:  &gateway.ExportError{Message: "renderer down"},
			kind: StatusError,
			want: "PDF export failed: renderer down",
		},
		{
			name: "match",
			op:   gateway.OpMatch,
			err:  &gateway.MatchError{Message: "no index"},
			kind: StatusError,
			want: "Job matching failed: no index",
		},
		{
			name: "network",
			op:   gateway.OpGenerate,
			err:  &gateway.NetworkError{Op: gateway.OpGenerate, Message: "backend unreachable"},
			kind: StatusError,
			want: "Could not reach the server (generate): backend unreachable",
		},
		{
			name: "wrapped original not found",
			op:   "apply",
			err:  fmt.Errorf("apply: %w", workspace.ErrOriginalNotFound),
			kind: StatusError,
			want: "The text this suggestion replaces is no longer in your resume.",
		},
		{
			name: "empty resume",
			op:   gateway.OpOptimize,
			err:  ErrEmptyResume,
			kind: StatusInfo,
			want: "Add some resume text first.",
		},
		{
			name: "unknown",
			op:   gateway.OpRecords,
			err:  errors.New("boom"),
			kind: StatusError,
			want: "records failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusFor(tt.op, tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.want, got.Message)
		})
	}
}
