package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/adapt"
	"github.com/vsariola/mensura/analyzer"
	"github.com/vsariola/mensura/metrics"
	"github.com/vsariola/mensura/report"
	"github.com/vsariola/mensura/simulate"
)

var (
	analyzeCmd = &cobra.Command{
		Use:   "analyze [score]",
		Short: "Analyze the mode, rhythm, melodic figures and form of a score",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	adaptCmd = &cobra.Command{
		Use:   "adapt [score]",
		Short: "Validate a score against the instrument constraints and repair it",
		Long: `Validates every voice against the constraints of its instrument, applies the
automatic repairs (octave shifts, duration clamping, rests in rapid passages),
validates again and prints a report with suggestions for what is left.`,
		Args: cobra.ExactArgs(1),
		RunE: runAdapt,
	}
	adaptSubstitute string
	adaptOutput     string
	adaptSimulate   bool
	adaptMetrics    bool
)

func init() {
	f := adaptCmd.Flags()
	f.StringVarP(&adaptSubstitute, "substitute", "s", "", "Comma separated voice=instrument substitutions applied before validation")
	f.StringVarP(&adaptOutput, "output", "o", "", "Write the adapted score to this file (.json, .yml or .mid)")
	f.BoolVar(&adaptSimulate, "simulate", false, "Cross-check the adapted score with the instrument simulators")
	f.BoolVar(&adaptMetrics, "metrics", false, "Print the run metrics in the Prometheus text format after the report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	score, err := loadScore(args[0])
	if err != nil {
		return err
	}
	lib, err := newLibrary()
	if err != nil {
		return err
	}
	r, err := report.New()
	if err != nil {
		return err
	}
	return r.WriteAnalysis(cmd.OutOrStdout(), score, analyzer.New(lib).Analyze(score))
}

func runAdapt(cmd *cobra.Command, args []string) error {
	score, err := loadScore(args[0])
	if err != nil {
		return err
	}
	subs, err := parseSubstitutions(adaptSubstitute)
	if err != nil {
		return err
	}
	v, err := newValidator()
	if err != nil {
		return err
	}
	lib, err := newLibrary()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	p := adapt.New(adapt.WithLogger(logger), adapt.WithValidator(v), adapt.WithAnalyzer(analyzer.New(lib)), adapt.WithMetrics(metrics.New(reg)))
	res := p.Adapt(score, subs)
	r, err := report.New()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := r.WriteAdaptation(out, res); err != nil {
		return err
	}
	if adaptSimulate {
		if err := simulateScore(out, res.Adapted); err != nil {
			return err
		}
	}
	if adaptOutput != "" {
		if err := writeScore(res.Adapted, adaptOutput, out); err != nil {
			return err
		}
		logger.Info("wrote adapted score", "file", adaptOutput)
	}
	if adaptMetrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}
	if !res.Success {
		return fmt.Errorf("adaptation left %d violations", len(res.Violations))
	}
	return nil
}

func simulateScore(w io.Writer, score *mensura.Score) error {
	table := simulate.DefaultParams()
	if cfg.SimParamsFile != "" {
		var err error
		if table, err = simulate.LoadParams(cfg.SimParamsFile); err != nil {
			return err
		}
	}
	rep, err := adapt.ValidateWithSimulation(score, simulate.Simulators(table), cfg.Seed)
	fmt.Fprintf(w, "\n## Simulation\n\n- Checked voices: %d\n", len(rep.Checked))
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "- %s\n", warn)
	}
	if err != nil {
		return fmt.Errorf("simulation check failed: %w", err)
	}
	return nil
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("could not gather metrics: %w", err)
	}
	fmt.Fprintln(w)
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("could not write metrics: %w", err)
		}
	}
	return nil
}
