package app

import (
	"context"

	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/types"
	"golang.org/x/sync/errgroup"
)

// Records is everything the user has saved on the backend.
type Records struct {
	Resumes     []types.ResumeRecord
	Suggestions []types.SuggestionRecord
	JobPostings []types.JobPostingRecord
}

// ListAllRecords fetches the three record lists concurrently. The first
// failure cancels the remaining calls.
func (a *App) ListAllRecords(ctx context.Context) (*Records, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}

	var out Records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Resumes, err = a.client.ListResumes(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Suggestions, err = a.client.ListSuggestions(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.JobPostings, err = a.client.ListJobPostings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	return &out, nil
}

// ListResumes returns the resumes saved on the backend.
func (a *App) ListResumes(ctx context.Context) ([]types.ResumeRecord, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	records, err := a.client.ListResumes(ctx)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	return records, nil
}

// SaveResume stores the current buffer as a resume record.
func (a *App) SaveResume(ctx context.Context) (*types.ResumeRecord, error) {
	text, err := a.requireText(gateway.OpRecords)
	if err != nil {
		return nil, err
	}
	record, err := a.client.AddResume(ctx, text)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	a.setStatus(StatusSuccess, "Resume saved.")
	return record, nil
}

// DeleteResume removes a saved resume.
func (a *App) DeleteResume(ctx context.Context, id int) error {
	return a.deleteRecord(ctx, "Resume", id, a.client.DeleteResume)
}

// ListSuggestions returns the suggestions saved on the backend.
func (a *App) ListSuggestions(ctx context.Context) ([]types.SuggestionRecord, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	records, err := a.client.ListSuggestions(ctx)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	return records, nil
}

// AddSuggestion saves a free-text suggestion.
func (a *App) AddSuggestion(ctx context.Context, suggestion string) (*types.SuggestionRecord, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	record, err := a.client.AddSuggestion(ctx, suggestion)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	a.setStatus(StatusSuccess, "Suggestion saved.")
	return record, nil
}

// DeleteSuggestion removes a saved suggestion.
func (a *App) DeleteSuggestion(ctx context.Context, id int) error {
	return a.deleteRecord(ctx, "Suggestion", id, a.client.DeleteSuggestion)
}

// ListJobPostings returns the job postings saved on the backend.
func (a *App) ListJobPostings(ctx context.Context) ([]types.JobPostingRecord, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	records, err := a.client.ListJobPostings(ctx)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	return records, nil
}

// AddJobPosting saves a job posting.
func (a *App) AddJobPosting(ctx context.Context, title, company string) (*types.JobPostingRecord, error) {
	if err := a.authorize(); err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	record, err := a.client.AddJobPosting(ctx, title, company)
	if err != nil {
		return nil, a.fail(gateway.OpRecords, err)
	}
	a.setStatus(StatusSuccess, "Job posting saved.")
	return record, nil
}

// DeleteJobPosting removes a saved job posting.
func (a *App) DeleteJobPosting(ctx context.Context, id int) error {
	return a.deleteRecord(ctx, "Job posting", id, a.client.DeleteJobPosting)
}

func (a *App) deleteRecord(ctx context.Context, kind string, id int, del func(context.Context, int) error) error {
	if err := a.authorize(); err != nil {
		return a.fail(gateway.OpRecords, err)
	}
	if err := del(ctx, id); err != nil {
		return a.fail(gateway.OpRecords, err)
	}
	a.setStatus(StatusInfo, kind+" deleted.")
	return nil
}
