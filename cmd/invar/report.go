package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Emmyhack/invar/internal/security"
	"github.com/Emmyhack/invar/pkg/report"
)

func newReportCmd() *cobra.Command {
	var input, format, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "run the security validator over a source file and render its findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, input, format, output)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "source file to validate")
	cmd.Flags().StringVar(&format, "format", "cli", "output format: json|markdown|cli")
	cmd.Flags().StringVar(&output, "output", "", "write report to this path instead of stdout")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runReport(cmd *cobra.Command, input, formatFlag, output string) error {
	chain, err := inferChain(input)
	if err != nil {
		return err
	}

	f, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	rep, err := security.NewValidator().ValidateFile(input, chain)
	if err != nil {
		return fmt.Errorf("validating %s: %w", input, err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := report.Render(w, rep, f, report.IsTerminalWriter(w)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if !rep.Passed {
		return fmt.Errorf("critical or high security finding (risk_score=%d)", rep.RiskScore)
	}
	return nil
}
