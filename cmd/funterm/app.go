package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/engine"
	"github.com/funvibe/funterm/internal/prettyprinter"
)

// flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	unicode    bool
}

// app is what a subcommand runs against, built once per invocation.
type app struct {
	cfg    *config.Config
	engine *engine.Engine
	logger *slog.Logger
	out    io.Writer
	color  bool
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.LoadConfig(path)
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if cmd.Flags().Changed("log-level") {
		level = flags.logLevel
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(level)}))

	display := prettyprinter.Options{
		Unicode:   cfg.Display.Unicode || flags.unicode,
		ShowTypes: cfg.Display.ShowTypes,
	}
	eng, err := engine.New(cfg, engine.WithLogger(logger), engine.WithDisplay(display))
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	return &app{
		cfg:    cfg,
		engine: eng,
		logger: logger,
		out:    out,
		color:  colorEnabled(out),
	}, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// withApp adapts a subcommand body to cobra's RunE.
func withApp(flags *globalFlags, run func(a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, flags)
		if err != nil {
			return err
		}
		return run(a, args)
	}
}
