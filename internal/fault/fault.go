// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package fault provides the structured error type shared by the recipe
// parser, the evaluator and the cookbook store.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an error.
type Code string

const (
	// Format marks a recipe that cannot be parsed. Nothing was executed.
	Format Code = "FORMAT"
	// Runtime marks a failure while the method was executing.
	Runtime Code = "RUNTIME"
	// Input marks an exhausted or unreadable input stream during Take.
	Input Code = "INPUT"
	// Store marks a cookbook persistence failure.
	Store Code = "STORE"
)

// Error is a classified error with an optional recipe location.
type Error struct {
	Code    Code
	Message string
	Section string // recipe section, e.g. "ingredients"
	Line    int    // 1-based line in the recipe document, 0 if unknown
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Code))
	sb.WriteString("] ")
	if e.Section != "" {
		sb.WriteString(e.Section)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause with a code and message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// In sets the section name and returns e for chaining.
func (e *Error) In(section string) *Error {
	e.Section = section
	return e
}

// At sets the line number and returns e for chaining.
func (e *Error) At(line int) *Error {
	e.Line = line
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if
// there is none.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsFormat reports whether err is a parse-time rejection.
func IsFormat(err error) bool {
	return CodeOf(err) == Format
}

// IsRuntime reports whether err stopped a running recipe, including
// exhausted input.
func IsRuntime(err error) bool {
	switch CodeOf(err) {
	case Runtime, Input:
		return true
	}
	return false
}
