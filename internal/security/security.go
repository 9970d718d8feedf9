// Package security runs a pre-build security validator over source
// code: it matches chain-relevant attack patterns, with a specialized
// heuristic for reentrancy, and rolls the findings up into a risk
// score.
package security

import (
	"fmt"
	"os"
	"strings"

	"github.com/Emmyhack/invar/internal/attackpatterns"
	"github.com/Emmyhack/invar/internal/config"
)

// IssueSeverity ranks an Issue; higher is worse.
type IssueSeverity int

const (
	Low IssueSeverity = iota + 1
	Medium
	High
	Critical
)

func (s IssueSeverity) String() string {
	switch s {
	case Critical:
		return "CRITICAL"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

func severityForCVSS(score float32) IssueSeverity {
	switch {
	case score >= 9.0:
		return Critical
	case score >= 7.0:
		return High
	case score >= 5.0:
		return Medium
	default:
		return Low
	}
}

// Issue is one detected vulnerability.
type Issue struct {
	AttackPattern string
	Location      string
	Description   string
	SuggestedFix  string
	Severity      IssueSeverity
}

// Report is the outcome of validating one source file.
type Report struct {
	CriticalIssues []Issue
	HighIssues     []Issue
	MediumIssues   []Issue
	LowIssues      []Issue
	Passed         bool
	RiskScore      uint32
}

// Validator checks code against the attack-pattern catalogue.
type Validator struct {
	db *attackpatterns.DB
}

// NewValidator returns a Validator backed by the full attack catalogue.
func NewValidator() *Validator {
	return &Validator{db: attackpatterns.NewDB()}
}

// ValidateFile reads path and validates its contents.
func (v *Validator) ValidateFile(path, chain string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read file: %w", err)
	}
	return v.ValidateCode(string(data), path, chain), nil
}

// ValidateCode checks code (attributed to filePath for reporting)
// against every pattern affecting chain, and rolls up a risk score.
func (v *Validator) ValidateCode(code, filePath, chain string) Report {
	var report Report

	for _, pattern := range v.db.PatternsForChain(chain) {
		for _, issue := range v.checkPattern(code, filePath, pattern) {
			switch issue.Severity {
			case Critical:
				report.CriticalIssues = append(report.CriticalIssues, issue)
			case High:
				report.HighIssues = append(report.HighIssues, issue)
			case Medium:
				report.MediumIssues = append(report.MediumIssues, issue)
			default:
				report.LowIssues = append(report.LowIssues, issue)
			}
		}
	}

	score := uint32(len(report.CriticalIssues))*25 +
		uint32(len(report.HighIssues))*15 +
		uint32(len(report.MediumIssues))*8 +
		uint32(len(report.LowIssues))*3
	if score > 100 {
		score = 100
	}
	report.RiskScore = score
	report.Passed = len(report.CriticalIssues) == 0 && len(report.HighIssues) == 0

	return report
}

func (v *Validator) checkPattern(code, filePath string, pattern attackpatterns.Pattern) []Issue {
	if pattern.ID == "reentrancy" {
		return v.checkReentrancy(code, filePath, pattern)
	}

	var issues []Issue
	severity := severityForCVSS(pattern.CVSSScore)
	lines := strings.Split(code, "\n")
	for lineNum, line := range lines {
		for _, vuln := range pattern.VulnerablePatterns {
			if strings.Contains(line, vuln) {
				issues = append(issues, Issue{
					AttackPattern: pattern.Name,
					Location:      fmt.Sprintf("%s:%d", filePath, lineNum+1),
					Description:   fmt.Sprintf("Potential %s vulnerability detected. %s", pattern.Name, pattern.Description),
					SuggestedFix:  fmt.Sprintf("Apply defensive invariant: %s", firstOr(pattern.DefensiveInvariants, "Review code")),
					Severity:      severity,
				})
			}
		}
	}
	return issues
}

// checkReentrancy flags external calls (transfer/.call(/.send() with no
// state-zeroing update in the preceding lookback window, skipping lines
// already guarded by a reentrancy lock.
func (v *Validator) checkReentrancy(code, filePath string, pattern attackpatterns.Pattern) []Issue {
	var issues []Issue
	lines := strings.Split(code, "\n")

	for lineNum, line := range lines {
		if strings.Contains(line, config.ReentrancyGuardToken) {
			continue
		}

		hasExternalCall := false
		for _, tok := range config.ReentrancyExternalCallTokens {
			if strings.Contains(line, tok) {
				hasExternalCall = true
				break
			}
		}
		if !hasExternalCall {
			continue
		}

		searchStart := lineNum - config.ReentrancyLookbackLines
		if searchStart < 0 {
			searchStart = 0
		}

		hasStateUpdateBefore := false
		for _, prevLine := range lines[searchStart:lineNum] {
			for _, pair := range config.ReentrancyStateZeroPatterns {
				if strings.Contains(prevLine, pair[0]) && strings.Contains(prevLine, pair[1]) {
					hasStateUpdateBefore = true
					break
				}
			}
			if hasStateUpdateBefore {
				break
			}
		}

		if !hasStateUpdateBefore {
			issues = append(issues, Issue{
				AttackPattern: pattern.Name,
				Location:      fmt.Sprintf("%s:%d", filePath, lineNum+1),
				Description:   fmt.Sprintf("Potential %s vulnerability detected. %s", pattern.Name, pattern.Description),
				SuggestedFix:  "Apply defensive invariant: state_update_before_external_call",
				Severity:      Critical,
			})
		}
	}
	return issues
}

func firstOr(s []string, fallback string) string {
	if len(s) == 0 {
		return fallback
	}
	return s[0]
}
