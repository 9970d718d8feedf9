// Package library loads invariant definitions authored as TOML tables,
// routing each invariant's expression string through the real DSL
// lexer/parser rather than treating it as an opaque placeholder.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/parser"
)

// entryFile mirrors the TOML document shape: a top-level `invariants`
// array of tables.
type entryFile struct {
	Invariants []entry `toml:"invariants"`
}

type entry struct {
	Name        string `toml:"name"`
	Expression  string `toml:"expression"`
	Severity    string `toml:"severity"`
	Category    string `toml:"category"`
	Description string `toml:"description"`
}

// Error wraps a load failure with the offending file path.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func severityFromString(s string) ast.Severity {
	switch s {
	case "critical":
		return ast.SeverityCritical
	case "high":
		return ast.SeverityHigh
	case "low":
		return ast.SeverityLow
	case "", "medium":
		return ast.SeverityMedium
	default:
		return ast.Severity(s)
	}
}

// LoadFile parses one TOML invariant-library file. Each entry's
// `expression` string is parsed as a standalone DSL expression (wrapped
// in a throwaway invariant header so the existing grammar can be
// reused without a second entrypoint) and the resulting Expression is
// attached to the returned Invariant.
func LoadFile(path string) ([]ast.Invariant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	var doc entryFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	out := make([]ast.Invariant, 0, len(doc.Invariants))
	for _, e := range doc.Invariants {
		if e.Name == "" {
			return nil, &Error{Path: path, Err: fmt.Errorf("invariant entry missing required 'name'")}
		}

		wrapped := fmt.Sprintf("invariant __lib_entry__ { %s }", e.Expression)
		parsed, err := parser.ParseInvariant(wrapped)
		if err != nil {
			return nil, &Error{Path: path, Err: fmt.Errorf("invariant %q: invalid expression: %w", e.Name, err)}
		}

		out = append(out, ast.Invariant{
			Name:         e.Name,
			Description:  e.Description,
			Expression:   parsed.Expression,
			Severity:     severityFromString(e.Severity),
			Category:     defaultString(e.Category, "general"),
			IsAlwaysTrue: true,
		})
	}
	return out, nil
}

// LoadDir loads every *.toml file directly under dir (non-recursive),
// in sorted filename order, and concatenates their invariant lists.
func LoadDir(dir string) ([]ast.Invariant, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &Error{Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []ast.Invariant
	for _, name := range names {
		invs, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, invs...)
	}
	return out, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
