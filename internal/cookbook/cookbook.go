// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package cookbook holds the sample recipes shipped with chef.
package cookbook

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed recipes/*.chef
var recipes embed.FS

const ext = ".chef"

// Names lists the samples in alphabetical order, without extension.
func Names() []string {
	entries, err := fs.ReadDir(recipes, "recipes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ext); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Get returns the source of the named sample.
func Get(name string) (string, bool) {
	b, err := recipes.ReadFile(path.Join("recipes", name+ext))
	if err != nil {
		return "", false
	}
	return string(b), true
}
