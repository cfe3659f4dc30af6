// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package chef

import (
	"bufio"
	"io"
	"log/slog"
	"time"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/store"
)

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithSQLiteStore configures cookbook persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(k *Kitchen) {
		s, err := store.NewSQLite(path)
		if err != nil {
			k.err = fault.Wrap(fault.Store, "opening cookbook "+path, err)
			return
		}
		k.store = s
	}
}

// WithMemoryStore configures an in-memory cookbook (for testing).
func WithMemoryStore() Option {
	return func(k *Kitchen) {
		k.store = store.NewMemory()
	}
}

// WithStore configures a custom cookbook store.
func WithStore(s Store) Option {
	return func(k *Kitchen) {
		k.store = s
	}
}

// WithInputReader sets the reader Take pulls lines from.
func WithInputReader(reader func(prompt string) (string, error)) Option {
	return func(k *Kitchen) {
		k.inputReader = reader
	}
}

// WithInput reads Take values line by line from r.
func WithInput(r io.Reader) Option {
	br := bufio.NewReader(r)
	return WithInputReader(func(string) (string, error) {
		return br.ReadString('\n')
	})
}

// WithLogger sets the logger for parse and step tracing.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kitchen) {
		if l != nil {
			k.log = l
		}
	}
}

// WithSeed makes Mix deterministic. Every bake starts from the same seed.
func WithSeed(seed int64) Option {
	return func(k *Kitchen) {
		k.seed = &seed
	}
}

// WithTimeout bounds how long a single bake may run.
func WithTimeout(timeout time.Duration) Option {
	return func(k *Kitchen) {
		k.timeout = timeout
	}
}

// WithStepLimit stops a bake after n instructions. Zero means no limit.
func WithStepLimit(n int) Option {
	return func(k *Kitchen) {
		k.stepLimit = n
	}
}

// WithHistory records every bake in the cookbook.
func WithHistory(enabled bool) Option {
	return func(k *Kitchen) {
		k.history = enabled
	}
}

// Store interface for custom stores.
type Store = store.Store

// Bake is one recorded run of a recipe.
type Bake = store.Bake
