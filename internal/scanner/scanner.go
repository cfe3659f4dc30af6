// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner splits a recipe document into blank-line separated
// blocks.
package scanner

import (
	"bufio"
	"io"
	"strings"
)

// Scanner reads a recipe document block by block.
type Scanner struct {
	reader *bufio.Reader
	peeked *Block
	line   int // Lines consumed so far
	done   bool
}

// Block is a run of consecutive non-blank lines.
type Block struct {
	Text string
	Line int // Line number where this block started (1-based)
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Line returns the number of lines consumed so far.
func (s *Scanner) Line() int {
	return s.line
}

// Peek returns the next block without consuming it.
func (s *Scanner) Peek() (*Block, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	b, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = b
	return b, nil
}

// Next returns the next block, or io.EOF once the document is exhausted.
func (s *Scanner) Next() (*Block, error) {
	if s.peeked != nil {
		b := s.peeked
		s.peeked = nil
		return b, nil
	}

	var lines []string
	start := 0
	for !s.done {
		raw, err := s.reader.ReadString('\n')
		if err == io.EOF {
			s.done = true
			if raw == "" {
				break
			}
		} else if err != nil {
			return nil, err
		}
		s.line++

		text := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(text) == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if len(lines) == 0 {
			start = s.line
		}
		lines = append(lines, strings.TrimRight(text, " \t"))
	}

	if len(lines) == 0 {
		return nil, io.EOF
	}
	return &Block{Text: strings.Join(lines, "\n"), Line: start}, nil
}

// FirstWord returns the block's first whitespace-separated token.
func (b *Block) FirstWord() string {
	f := strings.Fields(b.Text)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// Lines returns the block's lines.
func (b *Block) Lines() []string {
	return strings.Split(b.Text, "\n")
}

// Rest returns the block's text after its first line, and the line number
// on which that remainder starts.
func (b *Block) Rest() (string, int) {
	i := strings.IndexByte(b.Text, '\n')
	if i < 0 {
		return "", b.Line + 1
	}
	return b.Text[i+1:], b.Line + 1
}
