package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/model"
	"github.com/Emmyhack/invar/pkg/registry"
	"github.com/Emmyhack/invar/pkg/simulator"
)

func newUpgradeCheckCmd() *cobra.Command {
	var oldPath, newPath, store string

	cmd := &cobra.Command{
		Use:   "upgrade-check",
		Short: "simulate old and new program versions and diff violation traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgradeCheck(cmd, oldPath, newPath, store)
		},
	}

	cmd.Flags().StringVar(&oldPath, "old", "", "previous source version")
	cmd.Flags().StringVar(&newPath, "new", "", "candidate source version")
	cmd.Flags().StringVar(&store, "trace-store", "invar-traces.db", "sqlite trace store path")
	cmd.MarkFlagRequired("old")
	cmd.MarkFlagRequired("new")
	return cmd
}

func runUpgradeCheck(cmd *cobra.Command, oldPath, newPath, storePath string) error {
	oldChain, err := inferChain(oldPath)
	if err != nil {
		return fmt.Errorf("old: %w", err)
	}
	newChain, err := inferChain(newPath)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}
	if oldChain != newChain {
		return fmt.Errorf("old and new source target different chains (%s vs %s)", oldChain, newChain)
	}

	db, err := simulator.OpenStore(storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	oldRunID, err := simulateVersion(db, oldChain, oldPath)
	if err != nil {
		return fmt.Errorf("simulating old version: %w", err)
	}
	newRunID, err := simulateVersion(db, newChain, newPath)
	if err != nil {
		return fmt.Errorf("simulating new version: %w", err)
	}

	added, err := db.DiffTraces(oldRunID, newRunID)
	if err != nil {
		return fmt.Errorf("diffing traces: %w", err)
	}

	if len(added) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no new violation traces introduced")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d new violation trace(s) introduced:\n", len(added))
	for _, t := range added {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
	}
	return fmt.Errorf("upgrade introduces %d new violation trace(s)", len(added))
}

// simulateVersion analyzes path with no invariant library (upgrade-check
// compares raw attack-pattern violation traces, not invariant checks) and
// returns the persisted run's ID.
func simulateVersion(db *simulator.Store, chain, path string) (string, error) {
	reg := defaultRegistry()
	analyzer, _ := reg.Analyzer(chain)
	sim, _ := reg.SimulatorFor(chain)

	program, err := analyzeProgram(analyzer, path)
	if err != nil {
		return "", err
	}

	runner := simulator.NewRunner(sim, db)
	report, err := runner.Run(program, []ast.Invariant(nil), 42)
	if err != nil {
		return "", err
	}
	return report.RunID, nil
}

func analyzeProgram(analyzer registry.ChainAnalyzer, path string) (model.ProgramModel, error) {
	return analyzer.Analyze(path)
}
