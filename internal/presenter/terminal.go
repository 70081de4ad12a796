package presenter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// boxWidth is the width of the terminal boxes.
const boxWidth = 72

// Printer writes boxed terminal output for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a box with a title. Long lines wrap instead of being cut so
// suggestion text is never lost.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(part, boxWidth-4))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResume prints the buffer.
func (p *Printer) PrintResume(text string) {
	if strings.TrimSpace(text) == "" {
		p.printBox("RESUME", "(empty)")
		return
	}
	p.printBox("RESUME", strings.TrimRight(text, "\n"))
}

// PrintOptimized prints the optimized text returned by the backend.
func (p *Printer) PrintOptimized(text string) {
	if strings.TrimSpace(text) == "" {
		p.printBox("OPTIMIZED RESUME", "(empty)")
		return
	}
	p.printBox("OPTIMIZED RESUME", strings.TrimRight(text, "\n"))
}

// PrintSuggestions prints every suggestion with the category/index pair that
// `apply` takes.
func (p *Printer) PrintSuggestions(set types.SuggestionSet) {
	if set.Len() == 0 {
		p.printBox("SUGGESTIONS", "No suggestions.")
		return
	}

	var sb strings.Builder
	for ci, cat := range set.Categories {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", ci, cat.Name))
		for ii, s := range cat.Items {
			sb.WriteString(fmt.Sprintf("  %d.%d ", ci, ii))
			if s.Original != nil {
				sb.WriteString(fmt.Sprintf("%s\n       → %s\n", *s.Original, s.Improved))
			} else {
				sb.WriteString(fmt.Sprintf("+ %s\n", s.Improved))
			}
		}
		if ci < len(set.Categories)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("SUGGESTIONS (%d)", set.Len()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs prints one entry per job followed by the keywords in backend order.
func (p *Printer) PrintJobs(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if len(result.Jobs) == 0 {
		sb.WriteString("No matching jobs found.\n")
	}
	for i, job := range result.Jobs {
		title := types.Deref(job.Title)
		if title == "" {
			title = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		if org := types.Deref(job.Organization); org != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", org))
		}
		if loc := types.Deref(job.Location); loc != "" {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", loc))
		}
		if url := types.Deref(job.URL); url != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", url))
		}
	}

	if len(result.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("\nKeywords: %s\n", strings.Join(result.Keywords, ", ")))
	}
	p.printBox(fmt.Sprintf("MATCHING JOBS (%d)", len(result.Jobs)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecords prints one line per record.
func (p *Printer) PrintRecords(title string, lines []string) {
	if len(lines) == 0 {
		p.printBox(title, "No records.")
		return
	}
	p.printBox(fmt.Sprintf("%s (%d)", title, len(lines)), strings.Join(lines, "\n"))
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap splits line into chunks of at most width runes, breaking on spaces when possible.
func wrap(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}

	var parts []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
