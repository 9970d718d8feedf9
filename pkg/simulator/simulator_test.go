package simulator

import (
	"path/filepath"
	"testing"

	"github.com/Emmyhack/invar/internal/model"
	"github.com/Emmyhack/invar/pkg/registry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traces.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadTraces(t *testing.T) {
	store := openTestStore(t)

	report := model.SimulationReport{
		Violations: 2,
		Traces:     []string{"trace-a", "trace-b"},
		Coverage:   0.5,
		Seed:       7,
	}
	if err := store.SaveReport("run-1", "token", "evm", report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	traces, err := store.LoadTraces("run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(traces) != 2 || traces[0] != "trace-a" || traces[1] != "trace-b" {
		t.Errorf("got %v", traces)
	}
}

func TestDiffTraces(t *testing.T) {
	store := openTestStore(t)

	old := model.SimulationReport{Traces: []string{"shared", "only-old"}, Seed: 1}
	updated := model.SimulationReport{Traces: []string{"shared", "only-new"}, Seed: 1}

	if err := store.SaveReport("old", "token", "evm", old); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveReport("new", "token", "evm", updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	added, err := store.DiffTraces("old", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(added) != 1 || added[0] != "only-new" {
		t.Errorf("got %v", added)
	}
}

func TestRunnerStampsRunIDAndPersists(t *testing.T) {
	store := openTestStore(t)
	sim := registry.NewRefSimulator("evm")
	runner := NewRunner(sim, store)

	pm := *model.New("token", "evm", "token.src")
	report, err := runner.Run(pm, nil, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.RunID == "" {
		t.Error("expected a non-empty RunID")
	}

	traces, err := store.LoadTraces(report.RunID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = traces
}
