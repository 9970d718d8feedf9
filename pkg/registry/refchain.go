package registry

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/model"
	"github.com/Emmyhack/invar/internal/security"
	"github.com/Emmyhack/invar/internal/threatmodel"
)

// RefAnalyzer is a reference, non-production ChainAnalyzer: it extracts
// a coarse ProgramModel by scanning source text for lines matching
// "state <name>: <type>" and "fn <name>(...) mutates <vars> reads <vars>"
// declarations, purely to exercise the registry and driver end-to-end.
// It is explicitly not a real Solidity/Move/Rust parser.
type RefAnalyzer struct {
	chain string
}

// NewRefAnalyzer returns a RefAnalyzer for chain.
func NewRefAnalyzer(chain string) *RefAnalyzer { return &RefAnalyzer{chain: chain} }

func (a *RefAnalyzer) Chain() string { return a.chain }

func (a *RefAnalyzer) Analyze(path string) (model.ProgramModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ProgramModel{}, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	pm := model.New(baseName(path), a.chain, path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "state "):
			if sv, ok := parseStateLine(line); ok {
				pm.AddStateVar(sv)
			}
		case strings.HasPrefix(line, "fn "):
			if fn, ok := parseFnLine(line); ok {
				pm.AddFunction(fn)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return model.ProgramModel{}, fmt.Errorf("reading source: %w", err)
	}
	return *pm, nil
}

func baseName(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	name := path[i+1:]
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name
}

// parseStateLine parses "state balance: u64 mut" / "state owner: address".
func parseStateLine(line string) (model.StateVar, bool) {
	rest := strings.TrimPrefix(line, "state ")
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return model.StateVar{}, false
	}
	name := strings.TrimSpace(parts[0])
	typeAndFlags := strings.Fields(parts[1])
	if len(typeAndFlags) == 0 {
		return model.StateVar{}, false
	}
	sv := model.StateVar{Name: name, TypeName: typeAndFlags[0], Visibility: "public"}
	for _, flag := range typeAndFlags[1:] {
		if flag == "mut" {
			sv.IsMutable = true
		}
	}
	return sv, true
}

// parseFnLine parses "fn transfer(from, to, amount) mutates balance reads total_supply entry".
func parseFnLine(line string) (model.FunctionModel, bool) {
	open := strings.Index(line, "(")
	close_ := strings.Index(line, ")")
	if open < 0 || close_ < 0 || close_ < open {
		return model.FunctionModel{}, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(line[:open], "fn "))
	var params []string
	for _, p := range strings.Split(line[open+1:close_], ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			params = append(params, p)
		}
	}

	fn := model.FunctionModel{Name: name, Parameters: params, ReturnType: "bool"}
	fields := strings.Fields(line[close_+1:])
	mode := ""
	for _, f := range fields {
		switch f {
		case "mutates", "reads":
			mode = f
		case "entry":
			fn.IsEntryPoint = true
		case "pure":
			fn.IsPure = true
		default:
			switch mode {
			case "mutates":
				fn.Mutates = append(fn.Mutates, f)
			case "reads":
				fn.Reads = append(fn.Reads, f)
			}
		}
	}
	return fn, true
}

// RefGenerator is a reference CodeGenerator: it emits a minimal
// instrumented-text stand-in embedding the threat-model's required
// "// Invariant: <check>" markers and a trailing INVAR_HASH line, for
// use as a coverage/tamper-hash round-trip target in tests.
type RefGenerator struct {
	chain string
}

// NewRefGenerator returns a RefGenerator for chain.
func NewRefGenerator(chain string) *RefGenerator { return &RefGenerator{chain: chain} }

func (g *RefGenerator) Chain() string { return g.chain }

func (g *RefGenerator) Generate(program model.ProgramModel, invariants []ast.Invariant) (model.GenerationOutput, error) {
	var sb strings.Builder
	checks := make([]string, 0, len(invariants))

	fmt.Fprintf(&sb, "// generated for %s (%s)\n", program.Name, program.Chain)
	for _, inv := range invariants {
		check := inv.Expression.String()
		checks = append(checks, check)
		fmt.Fprintf(&sb, "// Invariant: %s\n", check)
	}

	hash := threatmodel.ComputeTamperHash(checks)
	fmt.Fprintf(&sb, "// INVAR_HASH: %s\n", hash)

	var assertions []string
	for _, c := range checks {
		assertions = append(assertions, "assert("+c+")")
	}

	return model.GenerationOutput{
		Code:           sb.String(),
		Assertions:     assertions,
		CoveragePercent: coveragePercent(program, invariants),
	}, nil
}

func coveragePercent(program model.ProgramModel, invariants []ast.Invariant) uint8 {
	total := len(program.Functions)
	if total == 0 || len(invariants) == 0 {
		return 0
	}
	pct := len(invariants) * 100 / total
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

// RefSimulator is a reference Simulator: it runs the attack-pattern-
// backed SecurityValidator over the generated code as a cheap proxy for
// fuzz-found violations, purely to exercise the registry/driver plumbing.
type RefSimulator struct {
	chain     string
	validator *security.Validator
}

// NewRefSimulator returns a RefSimulator for chain.
func NewRefSimulator(chain string) *RefSimulator {
	return &RefSimulator{chain: chain, validator: security.NewValidator()}
}

func (s *RefSimulator) Chain() string { return s.chain }

func (s *RefSimulator) Simulate(program model.ProgramModel, invariants []ast.Invariant, seed uint64) (model.SimulationReport, error) {
	report := s.validator.ValidateCode(program.SourcePath, program.SourcePath, s.chain)
	violations := len(report.CriticalIssues) + len(report.HighIssues)

	var traces []string
	for _, iss := range report.CriticalIssues {
		traces = append(traces, iss.Description)
	}

	return model.SimulationReport{
		Violations: violations,
		Traces:     traces,
		Coverage:   float64(len(invariants)),
		Seed:       seed,
	}, nil
}
