package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Emmyhack/invar/internal/security"
)

func sampleReport() security.Report {
	return security.Report{
		Passed:    false,
		RiskScore: 25,
		CriticalIssues: []security.Issue{
			{AttackPattern: "Reentrancy", Location: "token.sol:12", Description: "state update after call", SuggestedFix: "move state update before call", Severity: security.Critical},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "markdown", "cli"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) unexpectedly failed: %v", s, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected ParseFormat(yaml) to fail")
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), JSON, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["passed"] != false {
		t.Errorf("got %v", decoded["passed"])
	}
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Markdown, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "## Critical") || !strings.Contains(out, "Reentrancy") {
		t.Errorf("unexpected markdown output: %s", out)
	}
}

func TestRenderCLIPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), CLI, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no ANSI codes when isTerminal is false")
	}
	if !strings.Contains(out, "[CRITICAL]") {
		t.Errorf("expected severity label in output: %s", out)
	}
}

func TestRenderCLIColorized(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), CLI, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI codes when isTerminal is true")
	}
}

func TestIsTerminalWriterNonFile(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminalWriter(&buf) {
		t.Error("expected a bytes.Buffer to report false")
	}
}
