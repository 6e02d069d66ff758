// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tide-demo is a stopwatch built on the tide runtime, doubling as a
// living example of the framework's moving parts: the tick
// subscription exists only while the stopwatch runs (so starting and
// stopping it exercises subscription reconciliation), saving laps
// runs as a one-shot command, and background log records arrive in
// the status line through the runtime's log handler.
//
// Keys: space starts/stops, l records a lap, s saves laps to a file,
// r resets, q or ctrl+c quits.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tide/lib/clock"
	"github.com/bureau-foundation/tide/lib/input"
	"github.com/bureau-foundation/tide/lib/runtime"
)

const demoVersion = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var lapFile string
	var logOutput string

	flagSet := pflag.NewFlagSet("tide-demo", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: built-in settings)")
	flagSet.StringVar(&lapFile, "lap-file", "", "where the s key writes recorded laps (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("tide-demo " + demoVersion)
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if lapFile != "" {
		config.LapFile = lapFile
	}

	// Background log records route into the status line instead of
	// stderr, which would corrupt the alternate screen. An optional
	// file handler captures everything for post-mortem debugging.
	statusHandler := runtime.NewLogHandler(slog.LevelWarn, func(record runtime.LogRecord) msg {
		return logMsg{record: record}
	})
	var logger *slog.Logger
	if logOutput != "" {
		fileHandler, fileCloser, fileErr := openFileLogHandler(logOutput)
		if fileErr != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, fileErr)
		}
		defer fileCloser()
		logger = slog.New(fanoutHandler{statusHandler, fileHandler})
	} else {
		logger = slog.New(statusHandler)
	}

	reader, err := input.NewReader(os.Stdin)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer reader.Close()

	app := newStopwatchApp(config, clock.Real(), logger)
	program := runtime.New[model, msg](app,
		runtime.WithEvents(reader),
		runtime.WithLogger(logger),
	)
	statusHandler.SetSender(program.Sender())

	return program.Run()
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `tide-demo — stopwatch showcasing the tide runtime.

While the stopwatch runs, a tick subscription drives the display;
stopping it removes the subscription, so the space key demonstrates
live subscription reconciliation. Laps are kept in the model; the s
key saves them with a background command.

Usage:
  tide-demo [flags]

Keys:
  space  start / stop
  l      record a lap
  s      save laps to the lap file
  r      reset
  q      quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
