// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/token"
)

// Serve renders the baking dishes as the program's output. Dishes are
// visited in index order, each from its top down; liquid items become the
// character with their value as code point, everything else its decimal
// value. A recipe serving n > 0 renders at most its first n dishes.
//
// A liquid whose value is not a valid Unicode code point is a runtime
// error and nothing is served.
func (e *Evaluator) Serve() (string, error) {
	n := e.dishes.Len()
	if s := e.recipe.Serves; s > 0 && s < n {
		n = s
	}
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		if err := serveDish(&sb, i, e.dishes.At(i)); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func serveDish(sb *strings.Builder, n int, dish Stack) error {
	for i := len(dish) - 1; i >= 0; i-- {
		it := dish[i]
		if it.Kind != token.Liquid {
			sb.WriteString(strconv.FormatInt(it.Value, 10))
			continue
		}
		if it.Value < 0 || it.Value > utf8.MaxRune || !utf8.ValidRune(rune(it.Value)) {
			return fault.Newf(fault.Runtime, "liquid %s in baking dish %d has value %d, which is not a character", it.Name, n, it.Value).In("serves")
		}
		sb.WriteRune(rune(it.Value))
	}
	return nil
}
