package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/library"
)

func newListCmd() *cobra.Command {
	var category, dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list invariants from the invariant library, optionally filtered by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, dir, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list invariants in this category")
	cmd.Flags().StringVar(&dir, "library", "invariants", "invariant library directory to load")
	return cmd
}

func runList(cmd *cobra.Command, dir, category string) error {
	invariants, err := library.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("loading invariant library %s: %w", dir, err)
	}

	w := cmd.OutOrStdout()
	count := 0
	for _, inv := range invariants {
		if category != "" && inv.Category != category {
			continue
		}
		fmt.Fprintf(w, "%-30s severity=%-8s category=%-12s %s\n", inv.Name, severityLabel(inv.Severity), inv.Category, inv.Description)
		count++
	}
	if count == 0 {
		fmt.Fprintln(w, "no invariants found")
	}
	return nil
}

func severityLabel(s ast.Severity) string {
	return string(s)
}
