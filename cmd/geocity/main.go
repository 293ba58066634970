package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/TomasB/geocity/internal/fixture"
	"github.com/TomasB/geocity/internal/geodb"
	"github.com/TomasB/geocity/internal/runner"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "geocity: %v\n", err)
		os.Exit(runner.ExitCode(err))
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := runner.DefaultOptions()
	var logLevel string

	root := &cobra.Command{
		Use:           "geocity",
		Short:         "Look up the localized country and city of an IP address in a MaxMind City database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Initialize structured logging
			level := getLogLevel(logLevel)
			logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			slog.Debug("geocity starting", "command", cmd.Name(), "log_level", level.String())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runner.New(stdout, nil, slog.Default()).Run(opts)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&opts.DBPath, "db", opts.DBPath, "path to the MaxMind City database")
	root.Flags().StringVar(&opts.IP, "ip", opts.IP, "IP address to look up")
	root.Flags().StringVar(&opts.Locale, "locale", opts.Locale, "locale of the printed names")
	root.Flags().StringVarP(&opts.Format, "format", "o", opts.Format, "output format (text, json)")
	root.Flags().BoolVar(&opts.Verify, "verify", false, "verify the whole database before the lookup")

	root.AddCommand(newMetadataCmd(stdout), newFixtureCmd(stdout))
	return root
}

func newMetadataCmd(stdout io.Writer) *cobra.Command {
	dbPath := runner.DefaultDBPath

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print the metadata of a MaxMind database",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := geodb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			data, err := json.MarshalIndent(db.Metadata(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode metadata: %w", err)
			}
			_, err = fmt.Fprintln(stdout, string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the MaxMind City database")
	return cmd
}

func newFixtureCmd(stdout io.Writer) *cobra.Command {
	out := runner.DefaultDBPath

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write a small City test database",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := fixture.WriteFile(out); err != nil {
				return err
			}
			slog.Info("fixture written", "path", out)
			_, err := fmt.Fprintf(stdout, "wrote %s\n", out)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", out, "output path")
	return cmd
}

// getLogLevel converts string log level to slog.Level
func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
