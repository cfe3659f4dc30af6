// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"nickandperla.net/chef/pkg/chef"
)

// app carries the streams and resolved settings shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg Config
	log *slog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.DiscardHandler),
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "chef",
		Usage:     "Bake programs written as recipes",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default is $HOME/.chef.yaml)",
			},
			&cli.StringFlag{
				Name:  "db",
				Value: defaultDB,
				Usage: "SQLite cookbook path",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log every parsed section and executed step to stderr",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "stop a bake that runs longer than this (0 for no limit)",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for Mix, for reproducible bakes",
			},
			&cli.IntFlag{
				Name:  "step-limit",
				Usage: "stop a bake after this many instructions (0 for no limit)",
			},
		},
		Before: a.configure,
		Commands: []*cli.Command{
			a.bakeCmd(),
			a.checkCmd(),
			a.cookbookCmd(),
			a.samplesCmd(),
		},
	}
}

// configure merges the config file with explicitly set flags and sets up
// logging.
func (a *app) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path, explicit := cmd.String("config"), cmd.IsSet("config")
	if !explicit {
		path = defaultConfigPath()
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("db") {
		cfg.DB = cmd.String("db")
	}
	if cmd.IsSet("trace") {
		cfg.Trace = cmd.Bool("trace")
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("seed") {
		seed := cmd.Int64("seed")
		cfg.Seed = &seed
	}
	if cmd.IsSet("step-limit") {
		cfg.StepLimit = cmd.Int("step-limit")
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if cfg.Trace {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return ctx, nil
}

// kitchen builds a Kitchen from the resolved settings. The cookbook is
// only opened when the command needs it or history is on.
func (a *app) kitchen(withStore bool, extra ...chef.Option) (*chef.Kitchen, error) {
	opts := []chef.Option{
		chef.WithLogger(a.log),
		chef.WithTimeout(a.cfg.Timeout),
		chef.WithStepLimit(a.cfg.StepLimit),
		chef.WithHistory(a.cfg.History),
	}
	if a.cfg.Seed != nil {
		opts = append(opts, chef.WithSeed(*a.cfg.Seed))
	}
	if withStore || a.cfg.History {
		opts = append(opts, chef.WithSQLiteStore(a.cfg.DB))
	}
	return chef.New(append(opts, extra...)...)
}

// inputReader reads Take values from stdin, prompting when stdin is a
// terminal. The reader is created once and shared across every Take.
func (a *app) inputReader() func(string) (string, error) {
	interactive := false
	if f, ok := a.stdin.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	r := bufio.NewReader(a.stdin)
	return func(prompt string) (string, error) {
		if interactive && prompt != "" {
			fmt.Fprint(a.stderr, prompt)
		}
		return r.ReadString('\n')
	}
}
