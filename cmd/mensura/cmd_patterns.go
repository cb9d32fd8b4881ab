package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/patterns"
)

var (
	patternsCmd = &cobra.Command{
		Use:   "patterns",
		Short: "Inspect the pattern library",
	}
	patternsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the patterns matching a filter",
		Args:  cobra.NoArgs,
		RunE:  runPatternsList,
	}
	patternsExportCmd = &cobra.Command{
		Use:   "export [file]",
		Short: "Write the pattern catalogue as YAML, to standard output if no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPatternsExport,
	}
	patFilter patterns.Filter
	patTypes  []string
	patYAML   bool
)

func init() {
	f := patternsListCmd.Flags()
	f.StringVar((*string)(&patFilter.Mode), "mode", "", "Only patterns in this mode")
	f.StringVar((*string)(&patFilter.Form), "form", "", "Only pattern types suited to this form")
	f.StringVar((*string)(&patFilter.Instrument), "instrument", "", "Only patterns this instrument can play")
	f.StringSliceVar(&patTypes, "type", nil, "Only patterns of these types")
	f.StringSliceVar(&patFilter.Tags, "tag", nil, "Only patterns carrying all these tags")
	f.BoolVar(&patYAML, "yaml", false, "Print the matching patterns as YAML")
	patternsCmd.AddCommand(patternsListCmd, patternsExportCmd)
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	lib, err := newLibrary()
	if err != nil {
		return err
	}
	for _, t := range patTypes {
		patFilter.Types = append(patFilter.Types, mensura.PatternType(t))
	}
	found := lib.Query(patFilter)
	if patYAML {
		return writeYAML(found, cmd.OutOrStdout())
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tMODE\tNOTES\tTAGS")
	for _, p := range found {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.Name, p.PatternType, p.Mode, len(p.Notes), strings.Join(p.Tags, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	logger.Debug("queried pattern library", "filter", patFilter.String(), "matches", len(found))
	return nil
}

func runPatternsExport(cmd *cobra.Command, args []string) error {
	lib, err := newLibrary()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return lib.WriteYAML(cmd.OutOrStdout())
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("could not create %v: %w", args[0], err)
	}
	if err := lib.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
