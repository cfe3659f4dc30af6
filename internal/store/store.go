// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides persistence for cookbook recipes and their bake
// history.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoTitle is returned when a recipe is saved without a title.
var ErrNoTitle = errors.New("recipe title must be provided")

// Store is the interface for cookbook persistence. Titles are matched
// exactly.
type Store interface {
	// SaveRecipe stores a recipe's source by title, overwriting if it exists.
	SaveRecipe(title, source string) error
	// Recipe retrieves a recipe's source. ok is false if not found.
	Recipe(title string) (source string, ok bool, err error)
	// Recipes lists saved titles in alphabetical order.
	Recipes() ([]string, error)
	// DeleteRecipe removes a recipe and its history.
	DeleteRecipe(title string) error
	// RecordBake appends one entry to a recipe's history.
	RecordBake(b Bake) error
	// History returns the newest bakes of a recipe first. A limit of zero
	// or less returns all of them.
	History(title string, limit int) ([]Bake, error)
	// Close releases resources.
	Close() error
}

// Bake is one recorded run of a recipe.
type Bake struct {
	ID     uuid.UUID
	Title  string
	Output string
	Err    string
	At     time.Time
}

// NewBake creates a history entry stamped with a fresh ID and the current
// time.
func NewBake(title, output string, err error) Bake {
	b := Bake{
		ID:     uuid.New(),
		Title:  title,
		Output: output,
		At:     time.Now().UTC(),
	}
	if err != nil {
		b.Err = err.Error()
	}
	return b
}
