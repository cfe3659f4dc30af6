// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package recipe parses Chef recipe documents into immutable programs.
package recipe

import (
	"strings"

	"nickandperla.net/chef/internal/token"
)

// Ingredient is one declared ingredient.
type Ingredient struct {
	Name        string     `yaml:"name"`
	Value       int64      `yaml:"value"`
	Measure     string     `yaml:"measure,omitempty"`
	MeasureType string     `yaml:"measure_type,omitempty"`
	Kind        token.Kind `yaml:"kind"`
	Line        int        `yaml:"line"`
}

// CookingTime is the optional "Cooking time:" section.
type CookingTime struct {
	Amount int    `yaml:"amount,omitempty"`
	Unit   string `yaml:"unit,omitempty"`
	Text   string `yaml:"text"`
}

// Oven is the optional "Pre-heat oven to" section.
type Oven struct {
	Degrees int    `yaml:"degrees,omitempty"`
	GasMark int    `yaml:"gas_mark,omitempty"`
	Text    string `yaml:"text"`
}

// Instruction is one compiled method step. Op selects which of the
// operand fields are meaningful.
type Instruction struct {
	Op         token.Token `yaml:"op"`
	Ingredient string      `yaml:"ingredient,omitempty"`
	Bowl       int         `yaml:"bowl,omitempty"` // 0 when no ordinal was given
	Dish       int         `yaml:"dish,omitempty"` // 0 when no ordinal was given
	N          int         `yaml:"n,omitempty"`    // stir minutes, refrigerate hours
	HasN       bool        `yaml:"-"`
	Verb       string      `yaml:"verb,omitempty"`
	Target     string      `yaml:"target,omitempty"`
	// Jump links loop brackets: a LOOP_START holds the index of its
	// LOOP_END, a LOOP_END the index of its LOOP_START, and a SET_ASIDE the
	// index of the innermost enclosing LOOP_START.
	Jump int    `yaml:"jump,omitempty"`
	Line int    `yaml:"line"`
	Text string `yaml:"text"`
}

// Recipe is a parsed Chef program. It is not modified after parsing.
type Recipe struct {
	Title       string         `yaml:"title"`
	Comment     string         `yaml:"comment,omitempty"`
	Ingredients []*Ingredient  `yaml:"ingredients"`
	CookingTime *CookingTime   `yaml:"cooking_time,omitempty"`
	Oven        *Oven          `yaml:"oven,omitempty"`
	Method      []*Instruction `yaml:"method"`
	Serves      int            `yaml:"serves,omitempty"`
	Auxiliary   []*Recipe      `yaml:"auxiliary,omitempty"`

	index map[string]int
}

// Ingredient looks up a declared ingredient by name.
func (r *Recipe) Ingredient(name string) (*Ingredient, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.Ingredients[i], true
}

// Names returns the declared ingredient names in declaration order.
func (r *Recipe) Names() []string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// FindAuxiliary returns the auxiliary recipe with the given title,
// compared case-insensitively.
func (r *Recipe) FindAuxiliary(title string) (*Recipe, bool) {
	for _, aux := range r.Auxiliary {
		if strings.EqualFold(aux.Title, title) {
			return aux, true
		}
	}
	return nil, false
}

func (r *Recipe) addIngredient(ing *Ingredient) bool {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, dup := r.index[ing.Name]; dup {
		return false
	}
	r.index[ing.Name] = len(r.Ingredients)
	r.Ingredients = append(r.Ingredients, ing)
	return true
}
