// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/token"
)

// Stack holds item snapshots, top last.
type Stack []Item

// Push copies it onto the top.
func (s *Stack) Push(it Item) {
	*s = append(*s, it)
}

// Pop removes and returns the top.
func (s *Stack) Pop() (Item, bool) {
	n := len(*s)
	if n == 0 {
		return Item{}, false
	}
	it := (*s)[n-1]
	*s = (*s)[:n-1]
	return it, true
}

// Top returns a pointer to the top item for in-place arithmetic.
func (s Stack) Top() (*Item, bool) {
	if len(s) == 0 {
		return nil, false
	}
	return &s[len(s)-1], true
}

// Roll pops the top and reinserts it n positions below the top, modulo
// the number of items left underneath.
func (s *Stack) Roll(n int) bool {
	it, ok := s.Pop()
	if !ok {
		return false
	}
	rest := len(*s)
	pos := 0
	if rest > 0 && n > 0 {
		pos = n % rest
	}
	at := rest - pos
	*s = append(*s, Item{})
	copy((*s)[at+1:], (*s)[at:])
	(*s)[at] = it
	return true
}

// Containers is a 1-indexed, growable family of stacks: the mixing bowls
// or the baking dishes.
type Containers struct {
	noun     string
	stacks   []Stack
	numbered bool // a numbered reference has been used
}

func newContainers(noun string) *Containers {
	return &Containers{noun: noun, stacks: make([]Stack, 1)}
}

// Get resolves a reference to a container, growing the family as needed.
// n is 0 for an unnumbered reference, which means container 1 unless a
// numbered reference was already made.
func (c *Containers) Get(n int) (*Stack, error) {
	if n == 0 {
		if c.numbered {
			return nil, fault.Newf(fault.Runtime, "a %s may not be used without a number once a numbered one has been used", c.noun)
		}
		n = 1
	} else {
		c.numbered = true
	}
	if n > token.MaxContainers {
		return nil, fault.Newf(fault.Runtime, "%s number %d is too large, at most %d are allowed", c.noun, n, token.MaxContainers)
	}
	for len(c.stacks) < n {
		c.stacks = append(c.stacks, nil)
	}
	return &c.stacks[n-1], nil
}

// Len returns the highest index referenced so far.
func (c *Containers) Len() int {
	return len(c.stacks)
}

// At returns a copy of container n's contents, bottom first.
func (c *Containers) At(n int) Stack {
	if n < 1 || n > len(c.stacks) {
		return nil
	}
	return append(Stack(nil), c.stacks[n-1]...)
}

func (c *Containers) empty(n int) error {
	if n == 0 {
		n = 1
	}
	return fault.Newf(fault.Runtime, "%s %d is empty", c.noun, n)
}
