// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package chef provides the public API for the Chef recipe interpreter.
package chef

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"nickandperla.net/chef/internal/eval"
	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/recipe"
	"nickandperla.net/chef/internal/store"
)

// Recipe is a parsed recipe document.
type Recipe = recipe.Recipe

// Kitchen parses and bakes recipes, and keeps the cookbook if one is
// configured.
type Kitchen struct {
	store       store.Store
	inputReader func(prompt string) (string, error)
	log         *slog.Logger
	seed        *int64
	timeout     time.Duration
	stepLimit   int
	history     bool
	err         error
}

// Result is the outcome of a successful bake.
type Result struct {
	Title  string
	Output string
	Steps  int
}

// New creates a Kitchen with the given options.
func New(opts ...Option) (*Kitchen, error) {
	k := &Kitchen{
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.err != nil {
		k.Close()
		return nil, k.err
	}
	return k, nil
}

// Check parses a recipe document without running it.
func (k *Kitchen) Check(src string) (*Recipe, error) {
	return recipe.ParseString(src, recipe.WithLogger(k.log))
}

// Bake parses and runs a recipe document and returns its output.
func (k *Kitchen) Bake(ctx context.Context, src string) (*Result, error) {
	r, err := k.Check(src)
	if err != nil {
		return nil, err
	}
	return k.bake(ctx, r)
}

// BakeReader bakes a recipe read from r.
func (k *Kitchen) BakeReader(ctx context.Context, r io.Reader) (*Result, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, err
	}
	return k.Bake(ctx, sb.String())
}

// BakeFile bakes a recipe file.
func (k *Kitchen) BakeFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return k.BakeReader(ctx, f)
}

func (k *Kitchen) bake(ctx context.Context, r *Recipe) (*Result, error) {
	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	opts := []eval.Option{
		eval.WithLogger(k.log.With("recipe", r.Title)),
		eval.WithStepLimit(k.stepLimit),
	}
	if k.inputReader != nil {
		opts = append(opts, eval.WithInputReader(k.inputReader))
	}
	if k.seed != nil {
		opts = append(opts, eval.WithSeed(uint64(*k.seed)))
	}
	e := eval.New(r, opts...)

	var res *Result
	err := e.Run(ctx)
	if err == nil {
		var out string
		if out, err = e.Serve(); err == nil {
			res = &Result{Title: r.Title, Output: out, Steps: e.Steps()}
		}
	}
	if k.history && k.store != nil {
		out := ""
		if res != nil {
			out = res.Output
		}
		if rerr := k.store.RecordBake(store.NewBake(r.Title, out, err)); rerr != nil && err == nil {
			return res, fault.Wrap(fault.Store, "recording bake", rerr)
		}
	}
	return res, err
}

// Save parses a recipe and stores its source under its title.
func (k *Kitchen) Save(src string) (string, error) {
	r, err := k.Check(src)
	if err != nil {
		return "", err
	}
	if k.store == nil {
		return "", errNoCookbook
	}
	if err := k.store.SaveRecipe(r.Title, src); err != nil {
		return "", fault.Wrap(fault.Store, "saving "+r.Title, err)
	}
	return r.Title, nil
}

// BakeSaved bakes a recipe from the cookbook.
func (k *Kitchen) BakeSaved(ctx context.Context, title string) (*Result, error) {
	if k.store == nil {
		return nil, errNoCookbook
	}
	src, ok, err := k.store.Recipe(title)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "loading "+title, err)
	}
	if !ok {
		return nil, fault.Newf(fault.Store, "no saved recipe titled %q", title)
	}
	return k.Bake(ctx, src)
}

// Recipes lists the titles in the cookbook.
func (k *Kitchen) Recipes() ([]string, error) {
	if k.store == nil {
		return nil, errNoCookbook
	}
	titles, err := k.store.Recipes()
	if err != nil {
		return nil, fault.Wrap(fault.Store, "listing recipes", err)
	}
	return titles, nil
}

// Delete removes a recipe and its history from the cookbook.
func (k *Kitchen) Delete(title string) error {
	if k.store == nil {
		return errNoCookbook
	}
	if err := k.store.DeleteRecipe(title); err != nil {
		return fault.Wrap(fault.Store, "deleting "+title, err)
	}
	return nil
}

// History returns the newest bakes of a recipe first.
func (k *Kitchen) History(title string, limit int) ([]Bake, error) {
	if k.store == nil {
		return nil, errNoCookbook
	}
	bakes, err := k.store.History(title, limit)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "reading history of "+title, err)
	}
	return bakes, nil
}

// Close releases resources.
func (k *Kitchen) Close() error {
	if k.store != nil {
		return k.store.Close()
	}
	return nil
}

var errNoCookbook = fault.New(fault.Store, "no cookbook configured")
