// Package threatmodel implements the five defenses that harden invariant
// enforcement against tampering and sandbox escape: re-parse/coverage
// verification, scope containment, tamper-hash detection, DSL
// sandboxing, strict-mode mutation coverage, and simulation isolation.
package threatmodel

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/config"
)

// Config toggles each defense independently.
type Config struct {
	StrictMode            bool
	ReParseVerification   bool
	TamperDetectionEnabled bool
	DSLSandboxingEnabled  bool
	IsolationVerification bool
}

// DefaultConfig matches the reference analyzer: every defense enabled.
func DefaultConfig() Config {
	return Config{
		StrictMode:             true,
		ReParseVerification:    true,
		TamperDetectionEnabled: true,
		DSLSandboxingEnabled:   true,
		IsolationVerification:  true,
	}
}

// ErrorKind tags the defense that rejected the input.
type ErrorKind int

const (
	ReParseVerificationFailed ErrorKind = iota
	TamperDetected
	SandboxEscapeDetected
	MutationUncertaintyDetected
	IsolationViolationDetected
	CustomThreat
)

// Error is the threat model's single error type.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ReParseVerificationFailed:
		return fmt.Sprintf("re-parse verification failed: %s", e.Msg)
	case TamperDetected:
		return fmt.Sprintf("macro tampering detected: %s", e.Msg)
	case SandboxEscapeDetected:
		return fmt.Sprintf("DSL sandbox escape: %s", e.Msg)
	case MutationUncertaintyDetected:
		return fmt.Sprintf("mutation uncertainty in strict mode: %s", e.Msg)
	case IsolationViolationDetected:
		return fmt.Sprintf("simulation isolation violation: %s", e.Msg)
	default:
		return e.Msg
	}
}

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// VerifyCoverage checks that generatedCode contains a "// Invariant: <check>"
// marker for every expected check, proving each was actually emitted.
func VerifyCoverage(generatedCode string, expectedChecks []string) error {
	for _, check := range expectedChecks {
		marker := "// Invariant: " + check
		if !strings.Contains(generatedCode, marker) {
			return newErr(ReParseVerificationFailed, "invariant check not found in generated code: %s", check)
		}
	}
	return nil
}

// VerifyScopeContainment rejects generated code containing tokens that
// indicate an injection has escaped its invariant-check block.
func VerifyScopeContainment(generatedCode string) error {
	for _, pattern := range config.ScopeDenyTokens {
		if strings.Contains(generatedCode, pattern) {
			return newErr(ReParseVerificationFailed, "dangerous pattern found in generated code: %s", pattern)
		}
	}
	return nil
}

// ComputeTamperHash computes a deterministic, order-independent hash over
// a set of invariant checks: checks are sorted before hashing so that
// reordering the list (but not altering its content) yields the same
// hash. Uses FNV-64a, a non-cryptographic hash — this defends against
// accidental/careless tampering of generated code, not a motivated
// cryptographic adversary.
func ComputeTamperHash(checks []string) string {
	sorted := make([]string, len(checks))
	copy(sorted, checks)
	sort.Strings(sorted)

	h := fnv.New64a()
	for _, check := range sorted {
		h.Write([]byte(check))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// VerifyTampering checks that generatedCode embeds the INVAR_HASH marker
// matching the hash of expectedChecks.
func VerifyTampering(generatedCode string, expectedChecks []string) error {
	expectedHash := ComputeTamperHash(expectedChecks)
	marker := "INVAR_HASH: " + expectedHash
	if !strings.Contains(generatedCode, marker) {
		return newErr(TamperDetected, "hash mismatch: generated code does not contain expected INVAR_HASH")
	}
	return nil
}

// ValidateExpression recursively checks expr for sandbox escapes: forbidden
// variable/layer/phase name prefixes and calls to functions outside the
// computational allow-list.
func ValidateExpression(expr ast.Expression) error {
	return checkExpr(expr)
}

func hasForbiddenPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range config.SandboxForbiddenPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func isAllowedFunction(name string) bool {
	for _, fn := range config.SandboxAllowedFunctions {
		if fn == name {
			return true
		}
	}
	return false
}

func checkExpr(expr ast.Expression) error {
	switch e := expr.(type) {
	case ast.Boolean, ast.Int:
		return nil

	case ast.Var:
		if hasForbiddenPrefix(e.Name) {
			return newErr(SandboxEscapeDetected, "forbidden variable name: %s", e.Name)
		}
		return nil

	case ast.LayerVar:
		if hasForbiddenPrefix(e.Layer) || hasForbiddenPrefix(e.Name) {
			return newErr(SandboxEscapeDetected, "forbidden layer/variable name: %s::%s", e.Layer, e.Name)
		}
		return nil

	case ast.PhaseQualifiedVar:
		if hasForbiddenPrefix(e.Phase) || hasForbiddenPrefix(e.Layer) || hasForbiddenPrefix(e.Name) {
			return newErr(SandboxEscapeDetected, "forbidden phase/layer/variable name: %s::%s::%s", e.Phase, e.Layer, e.Name)
		}
		return nil

	case ast.FunctionCall:
		if !isAllowedFunction(e.Name) {
			return newErr(SandboxEscapeDetected, "forbidden function call: %s", e.Name)
		}
		for _, arg := range e.Args {
			if err := checkExpr(arg); err != nil {
				return err
			}
		}
		return nil

	case ast.BinaryExpr:
		if err := checkExpr(e.Left); err != nil {
			return err
		}
		return checkExpr(e.Right)

	case ast.Logical:
		if err := checkExpr(e.Left); err != nil {
			return err
		}
		return checkExpr(e.Right)

	case ast.Not:
		return checkExpr(e.Expr)

	case ast.Tuple:
		for _, sub := range e.Exprs {
			if err := checkExpr(sub); err != nil {
				return err
			}
		}
		return nil

	case ast.PhaseConstraint:
		return checkExpr(e.Constraint)

	case ast.CrossPhaseRelation:
		if err := checkExpr(e.Expr1); err != nil {
			return err
		}
		return checkExpr(e.Expr2)

	default:
		return newErr(CustomThreat, "unrecognized expression type %T", expr)
	}
}

// StrictModeAnalyzer rejects mutation analyses that report uncertainty,
// when enabled. Disabled, it is a no-op pass-through.
type StrictModeAnalyzer struct {
	Enabled bool
}

// VerifyMutationCoverage returns an error if strict mode is enabled and
// any uncertainty warning was raised during mutation analysis.
func (s StrictModeAnalyzer) VerifyMutationCoverage(uncertaintyWarnings []string) error {
	if !s.Enabled {
		return nil
	}
	if len(uncertaintyWarnings) > 0 {
		return newErr(MutationUncertaintyDetected, "strict mode detected %d uncertain mutations: %s",
			len(uncertaintyWarnings), strings.Join(uncertaintyWarnings, ", "))
	}
	return nil
}

// VerifyIsolation checks that every simulation context variable's
// declared type matches one of allowedTypes, proving the simulation
// sandbox only touches in-memory, deterministic data structures.
func VerifyIsolation(contextVars map[string]string, allowedTypes []string) error {
	names := make([]string, 0, len(contextVars))
	for name := range contextVars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		typeStr := contextVars[name]
		allowed := false
		for _, t := range allowedTypes {
			if strings.Contains(typeStr, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return newErr(IsolationViolationDetected, "variable '%s' has disallowed type '%s' in simulation context", name, typeStr)
		}
	}
	return nil
}
