// Package model holds the program-level domain types a chain analyzer
// produces and the type checker consumes: state variables, functions,
// and the program model that ties them together, plus the generation
// and simulation output shapes the peripheral drivers exchange.
package model

import "sort"

// StateVar is a single state variable extracted from source.
type StateVar struct {
	Name       string
	TypeName   string
	IsMutable  bool
	Visibility string // empty means unset
}

// FunctionModel is a function or entry point extracted from source.
type FunctionModel struct {
	Name         string
	Parameters   []string
	ReturnType   string // empty means none
	Mutates      []string
	Reads        []string
	IsEntryPoint bool
	IsPure       bool
}

// ProgramModel is the complete analyzer output for one source file: an
// mapping of state vars and functions, plus the derived mutation graph.
// The fields are plain Go maps, so ranging over them directly has no
// defined order; StateVarNames and FunctionNames return the keys in
// sorted order for callers that need a deterministic walk.
type ProgramModel struct {
	Name          string
	Chain         string
	SourcePath    string
	StateVars     map[string]StateVar
	Functions     map[string]FunctionModel
	MutationGraph map[string][]string
}

// New creates an empty program model for the given chain and source path.
func New(name, chain, sourcePath string) *ProgramModel {
	return &ProgramModel{
		Name:          name,
		Chain:         chain,
		SourcePath:    sourcePath,
		StateVars:     make(map[string]StateVar),
		Functions:     make(map[string]FunctionModel),
		MutationGraph: make(map[string][]string),
	}
}

// AddStateVar registers or replaces a state variable by name.
func (p *ProgramModel) AddStateVar(sv StateVar) {
	p.StateVars[sv.Name] = sv
}

// AddFunction registers or replaces a function by name and derives its
// mutation-graph entry from Mutates.
func (p *ProgramModel) AddFunction(f FunctionModel) {
	mutates := make([]string, len(f.Mutates))
	copy(mutates, f.Mutates)
	sort.Strings(mutates)
	p.MutationGraph[f.Name] = mutates
	p.Functions[f.Name] = f
}

// StateVarNames returns state variable names in key order.
func (p *ProgramModel) StateVarNames() []string {
	names := make([]string, 0, len(p.StateVars))
	for n := range p.StateVars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FunctionNames returns function names in key order.
func (p *ProgramModel) FunctionNames() []string {
	names := make([]string, 0, len(p.Functions))
	for n := range p.Functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GenerationOutput is the result of a CodeGenerator run.
type GenerationOutput struct {
	Code            string
	Assertions      []string
	Tests           string // empty means none generated
	CoveragePercent uint8
	RunID           string
}

// SimulationReport is the result of a Simulator run.
type SimulationReport struct {
	Violations int
	Traces     []string
	Coverage   float64
	Seed       uint64
	RunID      string
}
