package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/compose"
	"github.com/vsariola/mensura/motif"
)

var (
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Compose a new score",
		Long: `Composes a score in the given form and mode, either with the rule-based
generator (chord progressions and voice ranges) or the pattern-based composer
(chains of library patterns with optional variations).`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	genMethod     string
	genForm       string
	genMode       string
	genTitle      string
	genMeasures   int
	genSeed       int64
	genVoices     int
	genInstrument string
	genAssign     string
	genOutput     string
	genVariations motif.Options
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genMethod, "method", "m", "rule", "Composition method: rule or pattern")
	f.StringVar(&genForm, "form", string(mensura.Pavane), "Musical form")
	f.StringVar(&genMode, "mode", string(mensura.Dorian), "Church mode")
	f.StringVarP(&genTitle, "title", "t", "", "Title of the score")
	f.IntVarP(&genMeasures, "measures", "n", 16, "Number of measures")
	f.Int64Var(&genSeed, "seed", 0, "Random seed; 0 uses MENSURA_SEED")
	f.IntVar(&genVoices, "voices", 4, "Number of voices (1-4) when --assign is not given")
	f.StringVarP(&genInstrument, "instrument", "i", string(mensura.MechanicalOrgan), "Instrument of all voices when --assign is not given")
	f.StringVarP(&genAssign, "assign", "a", "", "Comma separated role=instrument assignments, e.g. soprano=mechanical_organ,bass=mechanical_lute")
	f.StringVarP(&genOutput, "output", "o", "", "Output file (.json, .yml or .mid); standard output if empty")
	f.BoolVar(&genVariations.Diminution, "diminution", false, "Pattern method: split notes into shorter values")
	f.BoolVar(&genVariations.Ornamentation, "ornament", false, "Pattern method: add ornaments")
	f.BoolVar(&genVariations.Rhythmic, "rhythmic", false, "Pattern method: vary note lengths")
	f.BoolVar(&genVariations.SmoothTransitions, "smooth", true, "Pattern method: add passing tones at large leaps between patterns")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	assignments, err := parseAssignments(genAssign, genVoices, genInstrument)
	if err != nil {
		return err
	}
	seed := genSeed
	if seed == 0 {
		seed = cfg.Seed
	}
	form, mode := mensura.Form(genForm), mensura.Mode(genMode)
	var score *mensura.Score
	switch genMethod {
	case "rule":
		g := compose.New(v.Table(), logger)
		score, err = g.Generate(compose.Request{Title: genTitle, Form: form, Mode: mode, Assignments: assignments, Measures: genMeasures, Seed: seed})
	case "pattern":
		lib, lerr := newLibrary()
		if lerr != nil {
			return lerr
		}
		c := motif.New(lib, v.Table(), logger)
		score, err = c.Compose(motif.Request{Title: genTitle, Form: form, Mode: mode, Assignments: assignments, Measures: genMeasures, Seed: seed, Variations: genVariations})
	default:
		return fmt.Errorf("unknown method %q, expected rule or pattern", genMethod)
	}
	if err != nil {
		return fmt.Errorf("could not generate score: %w", err)
	}
	logger.Info("generated score", "title", score.Title, "form", score.Form, "mode", score.Mode, "voices", len(score.Voices), "notes", score.NumNotes())
	return writeScore(score, genOutput, cmd.OutOrStdout())
}
