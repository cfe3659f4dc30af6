// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package recipe

import (
	"strconv"
	"strings"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/token"
)

// parseIngredients fills r's ingredient table from the lines following an
// "Ingredients." header. line is the document line of the first of them.
func parseIngredients(r *Recipe, text string, line int) error {
	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ing, err := parseIngredient(raw)
		if err != nil {
			err.Line = line + i
			return err
		}
		ing.Line = line + i
		if !r.addIngredient(ing) {
			return fault.Newf(fault.Format, "ingredient declared twice: %s", ing.Name).In("ingredients").At(ing.Line)
		}
	}
	return nil
}

// parseIngredient parses "value [[measure-type] measure] name".
func parseIngredient(line string) (*Ingredient, *fault.Error) {
	fields := strings.Fields(line)

	value, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || !isDigits(fields[0]) {
		return nil, fault.Newf(fault.Format, "initial value must be a number, got %q", fields[0]).In("ingredients")
	}

	ing := &Ingredient{Value: value, Kind: token.Dry}
	rest := fields[1:]
	if len(rest) > 1 && token.MeasureTypes[strings.ToLower(rest[0])] {
		if kind, ok := token.Measures[strings.ToLower(rest[1])]; ok {
			ing.MeasureType = strings.ToLower(rest[0])
			ing.Measure = strings.ToLower(rest[1])
			ing.Kind = kind
			rest = rest[2:]
		}
	}
	if ing.Measure == "" && len(rest) > 0 {
		if kind, ok := token.Measures[strings.ToLower(rest[0])]; ok {
			ing.Measure = strings.ToLower(rest[0])
			ing.Kind = kind
			rest = rest[1:]
		}
	}

	ing.Name = strings.Join(rest, " ")
	if ing.Name == "" || token.MeasureTypes[strings.ToLower(ing.Name)] {
		return nil, fault.New(fault.Format, "ingredient name must be provided").In("ingredients")
	}
	return ing, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
