// Package registry defines the chain-specific analyzer/generator/
// simulator interfaces and a chain-keyed registry of implementations,
// grounded on original_source's traits.rs.
package registry

import (
	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/model"
)

// ChainAnalyzer extracts a chain-agnostic ProgramModel from chain-
// specific source.
type ChainAnalyzer interface {
	Analyze(path string) (model.ProgramModel, error)
	Chain() string
}

// CodeGenerator emits instrumented code embedding each invariant's
// "// Invariant: <check>" marker and a trailing INVAR_HASH line.
type CodeGenerator interface {
	Generate(program model.ProgramModel, invariants []ast.Invariant) (model.GenerationOutput, error)
	Chain() string
}

// Simulator fuzzes program execution against invariants and reports
// violations.
type Simulator interface {
	Simulate(program model.ProgramModel, invariants []ast.Invariant, seed uint64) (model.SimulationReport, error)
	Chain() string
}

// Registry holds one of each component kind per chain identifier.
type Registry struct {
	analyzers  map[string]ChainAnalyzer
	generators map[string]CodeGenerator
	simulators map[string]Simulator
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		analyzers:  make(map[string]ChainAnalyzer),
		generators: make(map[string]CodeGenerator),
		simulators: make(map[string]Simulator),
	}
}

func (r *Registry) RegisterAnalyzer(a ChainAnalyzer)   { r.analyzers[a.Chain()] = a }
func (r *Registry) RegisterGenerator(g CodeGenerator)   { r.generators[g.Chain()] = g }
func (r *Registry) RegisterSimulator(s Simulator)       { r.simulators[s.Chain()] = s }

func (r *Registry) Analyzer(chain string) (ChainAnalyzer, bool) {
	a, ok := r.analyzers[chain]
	return a, ok
}

func (r *Registry) Generator(chain string) (CodeGenerator, bool) {
	g, ok := r.generators[chain]
	return g, ok
}

func (r *Registry) SimulatorFor(chain string) (Simulator, bool) {
	s, ok := r.simulators[chain]
	return s, ok
}
