package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// recordFailure maps record CRUD failures; the backend exposes no dedicated error kind for them.
func recordFailure(detail string, status int) error {
	return &NetworkError{Op: OpRecords, Message: detail, StatusCode: status}
}

// getRecords decodes a list endpoint into out.
func (c *Client) getRecords(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, call{op: OpRecords, method: http.MethodGet, path: path})
	if err != nil {
		return mapFailure(err, recordFailure)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &NetworkError{Op: OpRecords, Message: fmt.Sprintf("malformed %s response", path), Cause: err}
	}
	return nil
}

// postRecord sends payload and decodes the created entity into out.
func (c *Client) postRecord(ctx context.Context, path string, payload, out any) error {
	req, err := jsonCall(OpRecords, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return mapFailure(err, recordFailure)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &NetworkError{Op: OpRecords, Message: fmt.Sprintf("malformed %s response", path), Cause: err}
	}
	return nil
}

// deleteRecord deletes the entity identified by the given query parameter.
func (c *Client) deleteRecord(ctx context.Context, path, param string, id int) error {
	_, err := c.do(ctx, call{
		op:     OpRecords,
		method: http.MethodDelete,
		path:   path,
		query:  url.Values{param: []string{strconv.Itoa(id)}},
	})
	return mapFailure(err, recordFailure)
}

// ListResumes returns the resumes saved for the current user.
func (c *Client) ListResumes(ctx context.Context) ([]types.ResumeRecord, error) {
	records := []types.ResumeRecord{}
	if err := c.getRecords(ctx, "/resumes", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddResume saves a resume.
func (c *Client) AddResume(ctx context.Context, text string) (*types.ResumeRecord, error) {
	var record types.ResumeRecord
	if err := c.postRecord(ctx, "/resume", map[string]string{"text": text}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteResume deletes a saved resume.
func (c *Client) DeleteResume(ctx context.Context, id int) error {
	return c.deleteRecord(ctx, "/resume", "resume_id", id)
}

// ListSuggestions returns the suggestions saved for the current user.
func (c *Client) ListSuggestions(ctx context.Context) ([]types.SuggestionRecord, error) {
	records := []types.SuggestionRecord{}
	if err := c.getRecords(ctx, "/suggestions", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddSuggestion saves a suggestion.
func (c *Client) AddSuggestion(ctx context.Context, suggestion string) (*types.SuggestionRecord, error) {
	var record types.SuggestionRecord
	if err := c.postRecord(ctx, "/suggestion", map[string]string{"suggestion": suggestion}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteSuggestion deletes a saved suggestion.
func (c *Client) DeleteSuggestion(ctx context.Context, id int) error {
	return c.deleteRecord(ctx, "/suggestion", "suggestion_id", id)
}

// ListJobPostings returns the job postings saved for the current user.
func (c *Client) ListJobPostings(ctx context.Context) ([]types.JobPostingRecord, error) {
	records := []types.JobPostingRecord{}
	if err := c.getRecords(ctx, "/job-postings", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddJobPosting saves a job posting.
func (c *Client) AddJobPosting(ctx context.Context, title, company string) (*types.JobPostingRecord, error) {
	var record types.JobPostingRecord
	payload := map[string]string{"title": title, "company": company}
	if err := c.postRecord(ctx, "/job-posting", payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteJobPosting deletes a saved job posting.
func (c *Client) DeleteJobPosting(ctx context.Context, id int) error {
	return c.deleteRecord(ctx, "/job-posting", "job_posting_id", id)
}
