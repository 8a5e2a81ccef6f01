package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.rowstore/internal/config"
	"go.rowstore/internal/engine"
	"go.rowstore/internal/logger"
)

type rootOptions struct {
	home     string
	config   string
	logLevel string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "rowstore <path>",
		Short:        "rowstore - paged fixed-width record store",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		// Execute prints the error itself
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.home, "home", "", "rowstore home directory (default $ROWSTORE_HOME or ~/.local/share/rowstore)")
	cmd.Flags().StringVar(&opts.config, "config", "", "path to config.yaml (default <home>/config.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, dbPath string) error {
	cfg, err := config.LoadConfig(opts.home, opts.config)
	if err != nil {
		return fmt.Errorf("Failed to load config: %w", err)
	}

	levelName := cfg.LogLevel
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.New(logOut, level)

	db, err := engine.Open(dbPath, engine.Options{
		CreateIfMissing: cfg.CreateIfMissing,
		Sync:            cfg.Sync,
	}, log)
	if err != nil {
		return fmt.Errorf("Failed to open Database: %w", err)
	}

	return NewREPL(db, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Prompt, log).Run()
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
