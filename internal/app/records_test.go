package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_ResumeRecords(t *testing.T) {
	var saved []types.ResumeRecord
	var deleted []string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /resume", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		rec := types.ResumeRecord{ID: len(saved) + 1, Text: body.Text}
		saved = append(saved, rec)
		writeJSON(w, rec)
	})
	mux.HandleFunc("GET /resumes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, saved)
	})
	mux.HandleFunc("DELETE /resume", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.URL.Query().Get("resume_id"))
		writeJSON(w, map[string]string{"message": "deleted"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = a.SaveResume(ctx)
	assert.ErrorIs(t, err, ErrEmptyResume)

	a.Edit("John Doe\nEngineer")
	rec, err := a.SaveResume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)

	list, err := a.ListResumes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "John Doe\nEngineer", list[0].Text)

	require.NoError(t, a.DeleteResume(ctx, 1))
	assert.Equal(t, []string{"1"}, deleted)
	assert.Equal(t, "Resume deleted.", a.Status().Message)
}

func TestApp_RecordsFailureBecomesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"detail": "database offline"})
	}))
	t.Cleanup(srv.Close)

	a, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = a.ListJobPostings(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusError, a.Status().Kind)
	assert.Contains(t, a.Status().Message, "database offline")
}

func TestApp_ListAllRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resumes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []types.ResumeRecord{{ID: 1, Text: "cv"}})
	})
	mux.HandleFunc("GET /suggestions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []types.SuggestionRecord{{ID: 2, Suggestion: "quantify impact"}})
	})
	mux.HandleFunc("GET /job-postings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []types.JobPostingRecord{{ID: 3, Title: "Backend Dev", Company: "Acme"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	records, err := a.ListAllRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cv", records.Resumes[0].Text)
	assert.Equal(t, "quantify impact", records.Suggestions[0].Suggestion)
	assert.Equal(t, "Acme", records.JobPostings[0].Company)
}
