// Package observability provides formatted terminal output for the editing session.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillfolio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells in the progress bar
	barWidth = 20
)

// Printer handles formatted output for the session
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// ProgressBar renders a progress value as a fixed-width bar, e.g. "[█████░░░] 25%".
func ProgressBar(progress types.Milestone) string {
	pct := min(max(int(progress), 0), 100)
	filled := pct * barWidth / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), pct)
}

// PrintProgress outputs the progress bar on its own line.
//
//nolint:errcheck
func (p *Printer) PrintProgress(progress types.Milestone) {
	fmt.Fprintf(p.out, "Progress %s\n", ProgressBar(progress))
}

// PrintDraft outputs every section of the draft with list indexes, followed by progress.
func (p *Printer) PrintDraft(d types.ResumeDraft, progress types.Milestone) {
	var sb strings.Builder

	sb.WriteString("Personal\n")
	sb.WriteString(fmt.Sprintf("  Name:     %s\n", orDash(d.Personal.FullName)))
	sb.WriteString(fmt.Sprintf("  Email:    %s\n", orDash(d.Personal.Email)))
	sb.WriteString(fmt.Sprintf("  Phone:    %s\n", orDash(d.Personal.Phone)))
	sb.WriteString(fmt.Sprintf("  Location: %s\n", orDash(d.Personal.Location)))

	sb.WriteString("\nEducation\n")
	for i, e := range d.Education {
		sb.WriteString(fmt.Sprintf("  [%d] %s, %s (%s)\n", i, orDash(e.School), orDash(e.Degree), orDash(e.Year)))
	}

	sb.WriteString("\nSkills\n")
	if len(d.Skills) == 0 {
		sb.WriteString("  -\n")
	}
	for i, s := range d.Skills {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, s))
	}

	sb.WriteString("\nProjects\n")
	for i, pr := range d.Projects {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, orDash(pr.Title)))
		if pr.Description != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", pr.Description))
		}
	}

	sb.WriteString("\nSummary\n")
	sb.WriteString(fmt.Sprintf("  %s\n", orDash(d.Summary)))

	sb.WriteString("\nCertificates\n")
	for i, c := range d.Certificates {
		sb.WriteString(fmt.Sprintf("  [%d] %s, %s (%s)\n", i, orDash(c.Name), orDash(c.Issuer), orDash(c.Date)))
	}

	sb.WriteString("\n")
	sb.WriteString(ProgressBar(progress))

	p.printBox("RESUME DRAFT", sb.String())
}

// PrintSuggestion outputs one field's AI state.
//
//nolint:errcheck
func (p *Printer) PrintSuggestion(s types.Suggestion) {
	fmt.Fprintln(p.out, FormatSuggestion(s))
}

// PrintSuggestions outputs pending, available and failed AI suggestions.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range suggestions {
		sb.WriteString(FormatSuggestion(s))
		if i < len(suggestions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("AI SUGGESTIONS", sb.String())
}

// FormatSuggestion renders a suggestion as a single line.
func FormatSuggestion(s types.Suggestion) string {
	switch s.Status {
	case types.SuggestionLoading:
		return fmt.Sprintf("%s: improving...", s.Field)
	case types.SuggestionError:
		return fmt.Sprintf("%s: failed: %s", s.Field, s.Error)
	case types.SuggestionAvailable:
		if s.Field == types.FieldKeySkills {
			return fmt.Sprintf("%s: %s", s.Field, formatSkills(s.Skills))
		}
		return fmt.Sprintf("%s: %s", s.Field, s.Text)
	default:
		return fmt.Sprintf("%s: -", s.Field)
	}
}

// PrintPreview outputs the plain-text rendering of a template preview.
func (p *Printer) PrintPreview(templateID int, text string) {
	p.printBox(fmt.Sprintf("PREVIEW (TEMPLATE %d)", templateID), text)
}

func formatSkills(skills []string) string {
	if len(skills) == 0 {
		return "(none)"
	}
	count := min(len(skills), maxItemsToShow)
	out := strings.Join(skills[:count], ", ")
	if len(skills) > maxItemsToShow {
		out += fmt.Sprintf(" ... and %d more", len(skills)-maxItemsToShow)
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
