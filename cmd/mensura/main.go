package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vsariola/mensura/config"
	"github.com/vsariola/mensura/version"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "mensura",
		Short: "Analyze, compose and adapt Renaissance music for mechanical instruments",
		Long: `mensura generates Renaissance-style polyphonic scores, analyzes them and
adapts them to the playing constraints of a set of mechanical instruments.
Configuration is read from MENSURA_* environment variables and an optional .env file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
)

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env: %w", err)
	}
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd, generateCmd, analyzeCmd, adaptCmd, demoCmd, patternsCmd, midiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mensura: %v\n", err)
		os.Exit(1)
	}
}
