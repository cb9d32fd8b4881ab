package main

import (
	"github.com/spf13/cobra"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/midifile"
)

var (
	midiCmd = &cobra.Command{
		Use:   "midi",
		Short: "Convert scores to and from Standard MIDI Files",
	}
	midiExportCmd = &cobra.Command{
		Use:   "export [score] [file.mid]",
		Short: "Write a .json or .yml score as a MIDI file",
		Args:  cobra.ExactArgs(2),
		RunE:  runMIDIExport,
	}
	midiImportCmd = &cobra.Command{
		Use:   "import [file.mid] [score]",
		Short: "Read a MIDI file into a .json or .yml score",
		Args:  cobra.ExactArgs(2),
		RunE:  runMIDIImport,
	}
	midiInstrument string
)

func init() {
	midiImportCmd.Flags().StringVarP(&midiInstrument, "instrument", "i", string(mensura.MechanicalOrgan), "Instrument of tracks without a known instrument name")
	midiCmd.AddCommand(midiExportCmd, midiImportCmd)
}

func runMIDIExport(cmd *cobra.Command, args []string) error {
	score, err := mensura.LoadScoreFile(args[0])
	if err != nil {
		return err
	}
	return midifile.WriteFile(score, args[1])
}

func runMIDIImport(cmd *cobra.Command, args []string) error {
	score, err := midifile.ReadFile(args[0], mensura.InstrumentType(midiInstrument))
	if err != nil {
		return err
	}
	logger.Info("imported MIDI file", "voices", len(score.Voices), "notes", score.NumNotes(), "tempo", score.TempoBPM)
	return writeScore(score, args[1], cmd.OutOrStdout())
}
