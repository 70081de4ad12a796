package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/spf13/cobra"
)

var (
	jobPostingTitle   string
	jobPostingCompany string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage resumes, suggestions and job postings saved on the backend",
	RunE:  withApp(runRecordsAll),
}

var resumesCmd = &cobra.Command{Use: "resumes", Short: "Saved resumes"}
var suggestionsCmd = &cobra.Command{Use: "suggestions", Short: "Saved suggestions"}
var jobPostingsCmd = &cobra.Command{Use: "job-postings", Short: "Saved job postings"}

func init() {
	resumesCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List saved resumes", Args: cobra.NoArgs, RunE: withApp(runResumesList)},
		&cobra.Command{Use: "add", Short: "Save the workspace resume", Args: cobra.NoArgs, RunE: withApp(runResumesAdd)},
		&cobra.Command{Use: "delete <id>", Short: "Delete a saved resume", Args: cobra.ExactArgs(1), RunE: withApp(runResumesDelete)},
	)

	suggestionsCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List saved suggestions", Args: cobra.NoArgs, RunE: withApp(runSuggestionsList)},
		&cobra.Command{Use: "add <text>", Short: "Save a suggestion", Args: cobra.ExactArgs(1), RunE: withApp(runSuggestionsAdd)},
		&cobra.Command{Use: "delete <id>", Short: "Delete a saved suggestion", Args: cobra.ExactArgs(1), RunE: withApp(runSuggestionsDelete)},
	)

	jobPostingsAdd := &cobra.Command{Use: "add", Short: "Save a job posting", Args: cobra.NoArgs, RunE: withApp(runJobPostingsAdd)}
	jobPostingsAdd.Flags().StringVar(&jobPostingTitle, "title", "", "Job title (required)")
	jobPostingsAdd.Flags().StringVar(&jobPostingCompany, "company", "", "Company (required)")
	_ = jobPostingsAdd.MarkFlagRequired("title")
	_ = jobPostingsAdd.MarkFlagRequired("company")
	jobPostingsCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List saved job postings", Args: cobra.NoArgs, RunE: withApp(runJobPostingsList)},
		jobPostingsAdd,
		&cobra.Command{Use: "delete <id>", Short: "Delete a saved job posting", Args: cobra.ExactArgs(1), RunE: withApp(runJobPostingsDelete)},
	)

	recordsCmd.AddCommand(resumesCmd, suggestionsCmd, jobPostingsCmd)
	rootCmd.AddCommand(recordsCmd)
}

// runRecordsAll lists every record kind.
func runRecordsAll(cmd *cobra.Command, a *app.App, _ []string) error {
	records, err := a.ListAllRecords(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	p := printer(cmd)
	p.PrintRecords("RESUMES", resumeLines(records))
	p.PrintRecords("SUGGESTIONS", suggestionLines(records))
	p.PrintRecords("JOB POSTINGS", jobPostingLines(records))
	return nil
}

func runResumesList(cmd *cobra.Command, a *app.App, _ []string) error {
	list, err := a.ListResumes(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	printer(cmd).PrintRecords("RESUMES", resumeLines(&app.Records{Resumes: list}))
	return nil
}

func runResumesAdd(cmd *cobra.Command, a *app.App, _ []string) error {
	rec, err := a.SaveResume(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved resume #%d\n", rec.ID)
	return nil
}

func runResumesDelete(cmd *cobra.Command, a *app.App, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.DeleteResume(cmd.Context(), id); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}

func runSuggestionsList(cmd *cobra.Command, a *app.App, _ []string) error {
	list, err := a.ListSuggestions(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	printer(cmd).PrintRecords("SUGGESTIONS", suggestionLines(&app.Records{Suggestions: list}))
	return nil
}

func runSuggestionsAdd(cmd *cobra.Command, a *app.App, args []string) error {
	rec, err := a.AddSuggestion(cmd.Context(), args[0])
	if err != nil {
		return failure(a, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved suggestion #%d\n", rec.ID)
	return nil
}

func runSuggestionsDelete(cmd *cobra.Command, a *app.App, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.DeleteSuggestion(cmd.Context(), id); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}

func runJobPostingsList(cmd *cobra.Command, a *app.App, _ []string) error {
	list, err := a.ListJobPostings(cmd.Context())
	if err != nil {
		return failure(a, err)
	}
	printer(cmd).PrintRecords("JOB POSTINGS", jobPostingLines(&app.Records{JobPostings: list}))
	return nil
}

func runJobPostingsAdd(cmd *cobra.Command, a *app.App, _ []string) error {
	rec, err := a.AddJobPosting(cmd.Context(), jobPostingTitle, jobPostingCompany)
	if err != nil {
		return failure(a, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved job posting #%d\n", rec.ID)
	return nil
}

func runJobPostingsDelete(cmd *cobra.Command, a *app.App, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.DeleteJobPosting(cmd.Context(), id); err != nil {
		return failure(a, err)
	}
	report(cmd, a)
	return nil
}

func resumeLines(r *app.Records) []string {
	lines := make([]string, 0, len(r.Resumes))
	for _, rec := range r.Resumes {
		lines = append(lines, fmt.Sprintf("#%d  %s", rec.ID, firstLine(rec.Text)))
	}
	return lines
}

func suggestionLines(r *app.Records) []string {
	lines := make([]string, 0, len(r.Suggestions))
	for _, rec := range r.Suggestions {
		lines = append(lines, fmt.Sprintf("#%d  %s", rec.ID, rec.Suggestion))
	}
	return lines
}

func jobPostingLines(r *app.Records) []string {
	lines := make([]string, 0, len(r.JobPostings))
	for _, rec := range r.JobPostings {
		lines = append(lines, fmt.Sprintf("#%d  %s at %s", rec.ID, rec.Title, rec.Company))
	}
	return lines
}

// firstLine returns the first non-blank line of text.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "(empty)"
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
