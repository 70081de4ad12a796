package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// generatedResumeKey is the (odd but stable) key /create-resume answers with.
const generatedResumeKey = "New resume: "

// UploadResume sends a file to the backend for text extraction.
func (c *Client) UploadResume(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", &UploadError{Message: "failed to build multipart body", Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &UploadError{Message: "failed to build multipart body", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return "", &UploadError{Message: "failed to build multipart body", Cause: err}
	}

	body, err := c.do(ctx, call{
		op:          OpUpload,
		method:      http.MethodPost,
		path:        "/upload-resume",
		body:        &buf,
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return "", mapFailure(err, func(detail string, status int) error {
			return &UploadError{Message: detail, StatusCode: status}
		})
	}

	var resp struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Text == nil {
		return "", &UploadError{Message: "response carried no extracted text", Cause: err}
	}
	return *resp.Text, nil
}

// GenerateExampleResume asks the backend for a generated example resume.
func (c *Client) GenerateExampleResume(ctx context.Context) (string, error) {
	body, err := c.do(ctx, call{op: OpGenerate, method: http.MethodGet, path: "/create-resume"})
	if err != nil {
		return "", mapFailure(err, func(detail string, status int) error {
			return &NetworkError{Op: OpGenerate, Message: detail, StatusCode: status}
		})
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &NetworkError{Op: OpGenerate, Message: "malformed generate response", Cause: err}
	}
	raw, ok := resp[generatedResumeKey]
	if !ok {
		raw, ok = resp["text"]
	}
	var text string
	if !ok || json.Unmarshal(raw, &text) != nil {
		return "", &NetworkError{Op: OpGenerate, Message: "generate response carried no resume text"}
	}
	return text, nil
}

// OptimizeResume submits the resume text and returns the optimized text plus the
// normalized suggestion set.
func (c *Client) OptimizeResume(ctx context.Context, text string) (*types.OptimizeResult, error) {
	req, err := jsonCall(OpOptimize, http.MethodPost, "/optimize-resume", map[string]string{
		"text": text,
		"id":   uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, mapFailure(err, func(detail string, status int) error {
			return &OptimizeError{Message: detail, StatusCode: status}
		})
	}

	if err := schemas.ValidatePayload(schemas.OptimizeResponse, body); err != nil {
		return nil, &OptimizeError{Message: "malformed optimize response", Cause: err}
	}

	var resp struct {
		OptimizedResume string          `json:"optimized_resume"`
		Suggestions     json.RawMessage `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &OptimizeError{Message: "malformed optimize response", Cause: err}
	}

	set, optimizedVersion, err := NormalizeSuggestions(resp.Suggestions)
	if err != nil {
		return nil, &OptimizeError{Message: "malformed suggestions", Cause: err}
	}

	result := &types.OptimizeResult{
		OptimizedText: resp.OptimizedResume,
		Suggestions:   set,
	}
	// Older backends echo the input and put the rewrite inside the markdown.
	if optimizedVersion != "" && resp.OptimizedResume == text {
		result.OptimizedText = optimizedVersion
	}
	return result, nil
}

// ExportResume renders text to a PDF on the backend and returns the document bytes.
func (c *Client) ExportResume(ctx context.Context, text string) ([]byte, error) {
	req, err := jsonCall(OpExport, http.MethodPost, "/export-resume", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, mapFailure(err, func(detail string, status int) error {
			return &ExportError{Message: detail, StatusCode: status}
		})
	}

	if len(body) == 0 {
		return nil, &ExportError{Message: "backend returned an empty document"}
	}
	if mtype := mimetype.Detect(body); !mtype.Is("application/pdf") {
		return nil, &ExportError{Message: fmt.Sprintf("backend returned %s instead of a PDF", mtype.String())}
	}
	return body, nil
}
