// Package report renders security.Report findings as JSON, Markdown, or
// colorized CLI text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Emmyhack/invar/internal/security"
)

// Format is the external --format flag's closed set.
type Format string

const (
	JSON     Format = "json"
	Markdown Format = "markdown"
	CLI      Format = "cli"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, Markdown, CLI:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ansi color codes, used only when writing to a real terminal.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

func colorFor(sev security.IssueSeverity) string {
	switch sev {
	case security.Critical, security.High:
		return colorRed
	case security.Medium:
		return colorYellow
	default:
		return colorGray
	}
}

// Render writes a security.Report to w in the given format. isTerminal
// controls whether CLI format applies ANSI color; callers pass
// isatty.IsTerminal/IsCygwinTerminal on the target file descriptor.
func Render(w io.Writer, rep security.Report, format Format, isTerminal bool) error {
	switch format {
	case JSON:
		return renderJSON(w, rep)
	case Markdown:
		return renderMarkdown(w, rep)
	case CLI:
		return renderCLI(w, rep, isTerminal)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// IsTerminalWriter reports whether w is a TTY, for callers that want to
// pass Render(..., isTerminal) without computing it themselves. Only
// *os.File satisfies the check; anything else (buffers, pipes) reports
// false.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type jsonIssue struct {
	AttackPattern string `json:"attack_pattern"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	SuggestedFix  string `json:"suggested_fix"`
	Severity      string `json:"severity"`
}

type jsonReport struct {
	Passed    bool        `json:"passed"`
	RiskScore uint32      `json:"risk_score"`
	Critical  []jsonIssue `json:"critical_issues"`
	High      []jsonIssue `json:"high_issues"`
	Medium    []jsonIssue `json:"medium_issues"`
	Low       []jsonIssue `json:"low_issues"`
}

func toJSONIssues(issues []security.Issue) []jsonIssue {
	out := make([]jsonIssue, 0, len(issues))
	for _, i := range issues {
		out = append(out, jsonIssue{
			AttackPattern: i.AttackPattern,
			Location:      i.Location,
			Description:   i.Description,
			SuggestedFix:  i.SuggestedFix,
			Severity:      i.Severity.String(),
		})
	}
	return out
}

func renderJSON(w io.Writer, rep security.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Passed:    rep.Passed,
		RiskScore: rep.RiskScore,
		Critical:  toJSONIssues(rep.CriticalIssues),
		High:      toJSONIssues(rep.HighIssues),
		Medium:    toJSONIssues(rep.MediumIssues),
		Low:       toJSONIssues(rep.LowIssues),
	})
}

func renderMarkdown(w io.Writer, rep security.Report) error {
	var sb strings.Builder
	status := "PASS"
	if !rep.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(&sb, "# Security Report\n\n")
	fmt.Fprintf(&sb, "**Status:** %s  \n**Risk score:** %d/100\n\n", status, rep.RiskScore)

	sections := []struct {
		title  string
		issues []security.Issue
	}{
		{"Critical", rep.CriticalIssues},
		{"High", rep.HighIssues},
		{"Medium", rep.MediumIssues},
		{"Low", rep.LowIssues},
	}
	for _, sec := range sections {
		if len(sec.issues) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", sec.title)
		for _, issue := range sec.issues {
			fmt.Fprintf(&sb, "- **%s** at `%s`: %s\n  - Fix: %s\n", issue.AttackPattern, issue.Location, issue.Description, issue.SuggestedFix)
		}
		fmt.Fprintln(&sb)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func renderCLI(w io.Writer, rep security.Report, isTerminal bool) error {
	status := "PASS"
	if !rep.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "status: %s  risk_score: %d/100\n", status, rep.RiskScore)

	all := append(append(append([]security.Issue{}, rep.CriticalIssues...), rep.HighIssues...), rep.MediumIssues...)
	all = append(all, rep.LowIssues...)

	for _, issue := range all {
		if isTerminal {
			fmt.Fprintf(w, "%s[%s]%s %s at %s: %s\n", colorFor(issue.Severity), issue.Severity, colorReset, issue.AttackPattern, issue.Location, issue.Description)
		} else {
			fmt.Fprintf(w, "[%s] %s at %s: %s\n", issue.Severity, issue.AttackPattern, issue.Location, issue.Description)
		}
	}
	return nil
}
