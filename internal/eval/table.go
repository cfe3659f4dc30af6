// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/chef/internal/recipe"
	"nickandperla.net/chef/internal/token"
)

// Item is a value snapshot: what an ingredient was when it entered a
// container, or the ingredient itself while it sits in the table.
type Item struct {
	Name  string
	Value int64
	Kind  token.Kind
}

// Table is the mutable ingredient table of one run. It starts as a copy of
// the recipe's declarations.
type Table struct {
	order []string
	items map[string]*Item
}

// NewTable copies the declared ingredients of r.
func NewTable(r *recipe.Recipe) *Table {
	t := &Table{items: make(map[string]*Item, len(r.Ingredients))}
	for _, ing := range r.Ingredients {
		t.order = append(t.order, ing.Name)
		t.items[ing.Name] = &Item{Name: ing.Name, Value: ing.Value, Kind: ing.Kind}
	}
	return t
}

// Get returns a snapshot of the named ingredient.
func (t *Table) Get(name string) (Item, bool) {
	it, ok := t.items[name]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// SetValue overwrites an ingredient's value.
func (t *Table) SetValue(name string, v int64) bool {
	it, ok := t.items[name]
	if ok {
		it.Value = v
	}
	return ok
}

// Liquefy marks an ingredient liquid. There is no way back.
func (t *Table) Liquefy(name string) bool {
	it, ok := t.items[name]
	if ok {
		it.Kind = token.Liquid
	}
	return ok
}

// DrySum adds up the values of every dry ingredient.
func (t *Table) DrySum() int64 {
	var sum int64
	for _, name := range t.order {
		if it := t.items[name]; it.Kind == token.Dry {
			sum += it.Value
		}
	}
	return sum
}
