package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Emmyhack/invar/internal/corelog"
	"github.com/Emmyhack/invar/pkg/registry"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invar",
		Short:         "invariant analysis engine for smart-contract source code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(),
		newBuildCmd(),
		newSimulateCmd(),
		newUpgradeCheckCmd(),
		newReportCmd(),
		newListCmd(),
	)
	return root
}

// defaultRegistry returns the registry populated with the reference
// evm/solana/move stubs used to exercise the driver end-to-end.
func defaultRegistry() *registry.Registry {
	r := registry.New()
	for _, chain := range []string{"evm", "solana", "move"} {
		r.RegisterAnalyzer(registry.NewRefAnalyzer(chain))
		r.RegisterGenerator(registry.NewRefGenerator(chain))
		r.RegisterSimulator(registry.NewRefSimulator(chain))
	}
	return r
}

// newSink builds a zap-backed corelog.Sink for non-fatal diagnostics.
func newSink() corelog.Sink {
	l, err := zap.NewProduction()
	if err != nil {
		return corelog.NoOp{}
	}
	return corelog.NewZapSink(l.Sugar())
}
