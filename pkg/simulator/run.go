package simulator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/model"
	"github.com/Emmyhack/invar/pkg/registry"
)

// Runner drives a registry.Simulator for one chain and persists its
// output to a Store, stamping each run with a fresh RunID.
type Runner struct {
	sim   registry.Simulator
	store *Store
}

// NewRunner pairs sim with an already-open trace store.
func NewRunner(sim registry.Simulator, store *Store) *Runner {
	return &Runner{sim: sim, store: store}
}

// Run simulates program against invariants with the given seed,
// stamps a RunID, persists the report, and returns it.
func (r *Runner) Run(program model.ProgramModel, invariants []ast.Invariant, seed uint64) (model.SimulationReport, error) {
	report, err := r.sim.Simulate(program, invariants, seed)
	if err != nil {
		return model.SimulationReport{}, fmt.Errorf("simulation failed: %w", err)
	}
	report.RunID = uuid.NewString()

	if r.store != nil {
		if err := r.store.SaveReport(report.RunID, program.Name, program.Chain, report); err != nil {
			return report, fmt.Errorf("persisting simulation report: %w", err)
		}
	}
	return report, nil
}
