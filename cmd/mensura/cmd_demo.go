package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/adapt"
	"github.com/vsariola/mensura/oto"
	"github.com/vsariola/mensura/render"
)

var (
	demoCmd = &cobra.Command{
		Use:   "demo [score]",
		Short: "Render a score as an ensemble demo",
		Long: `Adapts the score, converts it into timed events per instrument repeated over
the given number of measures, writes the events as JSON and renders them to a
.wav file in MENSURA_OUTPUT_DIR.`,
		Args: cobra.ExactArgs(1),
		RunE: runDemo,
	}
	demoName     string
	demoMeasures int
	demoBeats    int
	demoNoAdapt  bool
	demoPlay     bool
)

func init() {
	f := demoCmd.Flags()
	f.StringVar(&demoName, "name", "", "Base name of the output files; defaults to the score file name")
	f.IntVarP(&demoMeasures, "measures", "n", 4, "Number of measures to tile the score over")
	f.IntVar(&demoBeats, "beats", 0, "Beats per measure; 0 uses the default of the form")
	f.BoolVar(&demoNoAdapt, "no-adapt", false, "Render the score as is, without adapting it first")
	f.BoolVarP(&demoPlay, "play", "p", false, "Play the rendered demo through the audio device")
}

func runDemo(cmd *cobra.Command, args []string) error {
	score, err := loadScore(args[0])
	if err != nil {
		return err
	}
	name := demoName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	v, err := newValidator()
	if err != nil {
		return err
	}
	p := adapt.New(adapt.WithLogger(logger), adapt.WithValidator(v))
	if !demoNoAdapt {
		res := p.Adapt(score, nil)
		if !res.Success {
			logger.Warn("score still has violations after adaptation", "violations", len(res.Violations))
		}
		score = res.Adapted
	}
	r := render.New()
	res, err := p.GenerateEnsembleDemo(adapt.DemoRequest{
		Score:           score,
		Name:            name,
		Measures:        demoMeasures,
		BeatsPerMeasure: demoBeats,
		Renderer:        r,
		OutputDir:       cfg.OutputDir,
		SampleRate:      cfg.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("could not generate demo: %w", err)
	}
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ensemble: %s (%d events, %.1f s)\n", res.EnsemblePath, res.Ensemble.NumEvents(), res.Ensemble.Duration())
	if res.AudioPath != "" {
		fmt.Fprintf(out, "audio: %s\n", res.AudioPath)
	}
	if demoPlay {
		return play(r, res.Ensemble)
	}
	return nil
}

func play(r mensura.BufferRenderer, e *mensura.Ensemble) error {
	ctx, err := oto.NewContext(cfg.SampleRate, 2)
	if err != nil {
		return err
	}
	logger.Info("playing demo", "seconds", e.Duration())
	return ctx.PlayEnsemble(r, e)
}
