// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"slices"
	"sync"
)

// Memory is an in-memory store for testing and for runs without a
// database.
type Memory struct {
	mu      sync.RWMutex
	recipes map[string]string
	bakes   map[string][]Bake
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		recipes: make(map[string]string),
		bakes:   make(map[string][]Bake),
	}
}

// SaveRecipe stores a recipe by title.
func (m *Memory) SaveRecipe(title, source string) error {
	if title == "" {
		return ErrNoTitle
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes[title] = source
	return nil
}

// Recipe retrieves a recipe by title.
func (m *Memory) Recipe(title string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.recipes[title]
	return src, ok, nil
}

// Recipes lists saved titles.
func (m *Memory) Recipes() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	titles := make([]string, 0, len(m.recipes))
	for title := range m.recipes {
		titles = append(titles, title)
	}
	slices.Sort(titles)
	return titles, nil
}

// DeleteRecipe removes a recipe and its history.
func (m *Memory) DeleteRecipe(title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recipes, title)
	delete(m.bakes, title)
	return nil
}

// RecordBake appends a bake to the recipe's history.
func (m *Memory) RecordBake(b Bake) error {
	if b.Title == "" {
		return ErrNoTitle
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bakes[b.Title] = append(m.bakes[b.Title], b)
	return nil
}

// History returns a recipe's bakes, newest first.
func (m *Memory) History(title string, limit int) ([]Bake, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.bakes[title]
	if len(all) == 0 {
		return nil, nil
	}
	out := make([]Bake, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
