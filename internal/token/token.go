// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines Chef opcodes and the fixed word lists the
// recipe parser recognises.
package token

import (
	"strconv"
	"strings"
)

// Token represents a Chef method opcode.
type Token int

const (
	ILLEGAL Token = iota

	TAKE         // Take x from refrigerator
	PUT          // Put x into bowl
	FOLD         // Fold x into bowl
	ADD          // Add x to bowl
	REMOVE       // Remove x from bowl
	COMBINE      // Combine x into bowl
	DIVIDE       // Divide x into bowl
	ADD_DRY      // Add dry ingredients to bowl
	LIQUEFY      // Liquefy x
	LIQUEFY_BOWL // Liquefy contents of bowl
	STIR         // Stir bowl for n minutes
	STIR_INTO    // Stir x into bowl
	MIX          // Mix bowl well
	CLEAN        // Clean bowl
	POUR         // Pour contents of bowl into dish
	LOOP_START   // Verb the x
	LOOP_END     // Verb [the x] until verbed
	SET_ASIDE    // Set aside
	SERVE_WITH   // Serve with recipe
	REFRIGERATE  // Refrigerate [for n hours]
)

var names = [...]string{
	ILLEGAL:      "ILLEGAL",
	TAKE:         "TAKE",
	PUT:          "PUT",
	FOLD:         "FOLD",
	ADD:          "ADD",
	REMOVE:       "REMOVE",
	COMBINE:      "COMBINE",
	DIVIDE:       "DIVIDE",
	ADD_DRY:      "ADD_DRY",
	LIQUEFY:      "LIQUEFY",
	LIQUEFY_BOWL: "LIQUEFY_BOWL",
	STIR:         "STIR",
	STIR_INTO:    "STIR_INTO",
	MIX:          "MIX",
	CLEAN:        "CLEAN",
	POUR:         "POUR",
	LOOP_START:   "LOOP_START",
	LOOP_END:     "LOOP_END",
	SET_ASIDE:    "SET_ASIDE",
	SERVE_WITH:   "SERVE_WITH",
	REFRIGERATE:  "REFRIGERATE",
}

// String returns the string representation of a token.
func (t Token) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return "UNKNOWN"
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UsesIngredient returns true if the opcode names an ingredient that must
// be declared when the method is parsed.
func (t Token) UsesIngredient() bool {
	switch t {
	case TAKE, PUT, FOLD, ADD, REMOVE, COMBINE, DIVIDE, LIQUEFY, STIR_INTO:
		return true
	}
	return false
}

// Verbs is the fixed vocabulary of leading words. A method sentence whose
// first word is listed here must match one of that verb's patterns; any
// other first word is a candidate loop verb.
var Verbs = map[string]bool{
	"Take":        true,
	"Put":         true,
	"Fold":        true,
	"Add":         true,
	"Remove":      true,
	"Combine":     true,
	"Divide":      true,
	"Liquefy":     true,
	"Liquify":     true,
	"Stir":        true,
	"Mix":         true,
	"Clean":       true,
	"Pour":        true,
	"Serve":       true,
	"Refrigerate": true,
	"Set":         true,
}

// Kind classifies an ingredient as dry, liquid or not yet decided.
type Kind int

const (
	Dry Kind = iota
	Liquid
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Dry:
		return "dry"
	case Liquid:
		return "liquid"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// MarshalText lets kinds appear by name in YAML dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Measures maps every recognised measure word to the kind it implies.
var Measures = map[string]Kind{
	"g":       Dry,
	"kg":      Dry,
	"pinch":   Dry,
	"pinches": Dry,

	"ml":     Liquid,
	"l":      Liquid,
	"dash":   Liquid,
	"dashes": Liquid,

	"cup":         Ambiguous,
	"cups":        Ambiguous,
	"teaspoon":    Ambiguous,
	"teaspoons":   Ambiguous,
	"tablespoon":  Ambiguous,
	"tablespoons": Ambiguous,
}

// MeasureTypes are the optional qualifiers in front of a measure.
var MeasureTypes = map[string]bool{
	"heaped": true,
	"level":  true,
}

var ordinalWords = map[string]int{
	"first":   1,
	"second":  2,
	"third":   3,
	"fourth":  4,
	"fifth":   5,
	"sixth":   6,
	"seventh": 7,
	"eighth":  8,
	"ninth":   9,
	"tenth":   10,
}

// MaxContainers is the highest mixing bowl or baking dish number a recipe
// may refer to.
const MaxContainers = 1024

// OrdinalPattern is a regexp fragment matching one ordinal reference such
// as "2nd" or "third".
const OrdinalPattern = `\d+(?:st|nd|rd|th)|first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth`

// Ordinal converts "1st", "22nd", "third" and the like to a positive
// index. The empty string means no index was given and yields 0.
func Ordinal(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	s = strings.ToLower(s)
	if n, ok := ordinalWords[s]; ok {
		return n, true
	}
	if len(s) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-2])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
