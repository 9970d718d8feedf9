package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/corelog"
	"github.com/Emmyhack/invar/internal/model"
	"github.com/Emmyhack/invar/internal/security"
)

func newBuildCmd() *cobra.Command {
	var source, chain, output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "analyze source and generate instrumented code, blocking on critical or high findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, source, chain, output)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source file or directory to analyze")
	cmd.Flags().StringVar(&chain, "chain", "", "target chain: solana|evm|move")
	cmd.Flags().StringVar(&output, "output", "", "output directory for generated code (defaults to invar-out)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("chain")
	return cmd
}

func runBuild(cmd *cobra.Command, source, chain, output string) error {
	if chain != "evm" && chain != "solana" && chain != "move" {
		return fmt.Errorf("unknown chain %q", chain)
	}

	reg := defaultRegistry()
	analyzer, _ := reg.Analyzer(chain)
	generator, _ := reg.Generator(chain)
	validator := security.NewValidator()
	sink := newSink()

	files, err := sourceFiles(source)
	if err != nil {
		return err
	}

	if output == "" {
		output = "invar-out"
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var g errgroup.Group
	results := make([]buildResult, len(files))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := buildOne(analyzer, generator, validator, sink, path, chain, output)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: risk_score=%d passed=%v\n", r.path, r.report.RiskScore, r.report.Passed)
	}
	for _, r := range results {
		if !r.report.Passed {
			return fmt.Errorf("critical or high security finding in %s (risk_score=%d)", r.path, r.report.RiskScore)
		}
	}
	return nil
}

type buildResult struct {
	path   string
	report security.Report
}

func buildOne(analyzer interface {
	Analyze(string) (model.ProgramModel, error)
}, generator interface {
	Generate(model.ProgramModel, []ast.Invariant) (model.GenerationOutput, error)
}, validator *security.Validator, sink corelog.Sink, path, chain, outputDir string) (buildResult, error) {
	program, err := analyzer.Analyze(path)
	if err != nil {
		return buildResult{path: path}, fmt.Errorf("analyzing %s: %w", path, err)
	}

	report, err := validator.ValidateFile(path, chain)
	if err != nil {
		return buildResult{path: path}, fmt.Errorf("validating %s: %w", path, err)
	}
	if !report.Passed {
		corelog.Emit(sink, corelog.Warn, "critical/high security finding", corelog.F("file", path), corelog.F("risk_score", report.RiskScore))
		return buildResult{path: path, report: report}, nil
	}

	out, err := generator.Generate(program, nil)
	if err != nil {
		return buildResult{path: path, report: report}, fmt.Errorf("generating code for %s: %w", path, err)
	}

	dest := filepath.Join(outputDir, program.Name+".generated.txt")
	if err := os.WriteFile(dest, []byte(out.Code), 0o644); err != nil {
		return buildResult{path: path, report: report}, fmt.Errorf("writing generated output: %w", err)
	}

	return buildResult{path: path, report: report}, nil
}

func sourceFiles(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("missing source: %w", err)
	}
	if !info.IsDir() {
		return []string{source}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(source, e.Name()))
		}
	}
	return files, nil
}
