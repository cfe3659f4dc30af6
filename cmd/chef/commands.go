// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"nickandperla.net/chef/internal/cookbook"
	"nickandperla.net/chef/pkg/chef"
)

var errNoFiles = errors.New("at least one recipe file is required")

func (a *app) bakeCmd() *cli.Command {
	return &cli.Command{
		Name:      "bake",
		Usage:     "Parse and run recipe files, printing each one's output",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "read Take values from this file instead of stdin",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "store each recipe in the cookbook once it parses",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errNoFiles
			}

			input := chef.WithInputReader(a.inputReader())
			if path := cmd.String("input"); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				input = chef.WithInput(f)
			}

			save := cmd.Bool("save")
			k, err := a.kitchen(save, input)
			if err != nil {
				return err
			}
			defer k.Close()

			for _, path := range files {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if save {
					if _, err := k.Save(string(src)); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				res, err := k.Bake(ctx, string(src))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintln(a.stdout, res.Output)
			}
			return nil
		},
	}
}

// checked is one file's parse outcome as reported by check.
type checked struct {
	File   string       `yaml:"file"`
	Recipe *chef.Recipe `yaml:"recipe,omitempty"`
	Error  string       `yaml:"error,omitempty"`
}

func (a *app) checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Parse recipe files without running them",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format (text, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errNoFiles
			}
			format := cmd.String("format")
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown output format: %q", format)
			}

			k, err := a.kitchen(false)
			if err != nil {
				return err
			}
			defer k.Close()

			results := make([]checked, len(files))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(runtime.NumCPU())
			for i, path := range files {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					src, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = checked{File: path}
					r, err := k.Check(string(src))
					if err != nil {
						results[i].Error = err.Error()
						return nil
					}
					results[i].Recipe = r
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if format == "yaml" {
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(results); err != nil {
					return err
				}
				if err := enc.Close(); err != nil {
					return err
				}
			}

			failed := 0
			for _, res := range results {
				if res.Error != "" {
					failed++
				}
				if format != "text" {
					continue
				}
				if res.Error != "" {
					fmt.Fprintf(a.stdout, "%s: %s\n", res.File, res.Error)
					continue
				}
				r := res.Recipe
				fmt.Fprintf(a.stdout, "%s: ok %q (%d ingredients, %d instructions, %d auxiliary)\n",
					res.File, r.Title, len(r.Ingredients), len(r.Method), len(r.Auxiliary))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d recipes failed to parse", failed, len(results))
			}
			return nil
		},
	}
}

func (a *app) cookbookCmd() *cli.Command {
	title := func(cmd *cli.Command) (string, error) {
		t := strings.Join(cmd.Args().Slice(), " ")
		if t == "" {
			return "", errors.New("a recipe title is required")
		}
		return t, nil
	}

	return &cli.Command{
		Name:  "cookbook",
		Usage: "Work with recipes saved in the cookbook",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved recipe titles",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					k, err := a.kitchen(true)
					if err != nil {
						return err
					}
					defer k.Close()
					titles, err := k.Recipes()
					if err != nil {
						return err
					}
					for _, t := range titles {
						fmt.Fprintln(a.stdout, t)
					}
					return nil
				},
			},
			{
				Name:      "bake",
				Usage:     "Bake a saved recipe",
				ArgsUsage: "TITLE",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					t, err := title(cmd)
					if err != nil {
						return err
					}
					k, err := a.kitchen(true, chef.WithInputReader(a.inputReader()))
					if err != nil {
						return err
					}
					defer k.Close()
					res, err := k.BakeSaved(ctx, t)
					if err != nil {
						return err
					}
					fmt.Fprintln(a.stdout, res.Output)
					return nil
				},
			},
			{
				Name:      "history",
				Usage:     "Show recorded bakes of a saved recipe, newest first",
				ArgsUsage: "TITLE",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "how many bakes to show (0 for all)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					t, err := title(cmd)
					if err != nil {
						return err
					}
					k, err := a.kitchen(true)
					if err != nil {
						return err
					}
					defer k.Close()
					bakes, err := k.History(t, cmd.Int("limit"))
					if err != nil {
						return err
					}
					for _, b := range bakes {
						result := b.Output
						if b.Err != "" {
							result = "ERROR: " + b.Err
						}
						fmt.Fprintf(a.stdout, "%s  %s  %s\n", b.ID, b.At.Local().Format(time.DateTime), result)
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove a saved recipe and its history",
				ArgsUsage: "TITLE",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					t, err := title(cmd)
					if err != nil {
						return err
					}
					k, err := a.kitchen(true)
					if err != nil {
						return err
					}
					defer k.Close()
					return k.Delete(t)
				},
			},
		},
	}
}

func (a *app) samplesCmd() *cli.Command {
	return &cli.Command{
		Name:      "samples",
		Usage:     "List the bundled sample recipes, or print one",
		ArgsUsage: "[NAME]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				for _, n := range cookbook.Names() {
					fmt.Fprintln(a.stdout, n)
				}
				return nil
			}
			src, ok := cookbook.Get(name)
			if !ok {
				return fmt.Errorf("no sample named %q", name)
			}
			fmt.Fprint(a.stdout, src)
			return nil
		},
	}
}
