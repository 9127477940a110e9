// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs classifies the errors that motif-liquidator surfaces to
// its top-level driver, per the error handling design in spec.md §7.
package errs

import "fmt"

// Kind classifies an Error for the purpose of exit-code reporting.
// Every kind currently maps to CLI exit code 1; the classification
// exists so the top-level driver's message and, eventually, monitoring
// can distinguish failure causes.
type Kind int

const (
	// Usage covers missing/extra positional arguments, unknown flags,
	// or incompatible option combinations (e.g. -region with FASTA).
	Usage Kind = iota
	// IO covers inputs that cannot be opened/read or outputs that
	// cannot be created/written.
	IO
	// Format covers malformed MEME directives, non-positive or
	// non-normalized backgrounds, and inconsistent PWM widths.
	Format
	// UnsupportedAlphabet covers a motif alength other than 4.
	UnsupportedAlphabet
	// InvalidBase covers a ScoreMatrix.Value call with a base outside
	// ACGT/acgt.
	InvalidBase
	// Index covers a BAM region fetch failure reported by the
	// underlying index.
	Index
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage error"
	case IO:
		return "io error"
	case Format:
		return "format error"
	case UnsupportedAlphabet:
		return "unsupported alphabet"
	case InvalidBase:
		return "invalid base"
	case Index:
		return "index error"
	default:
		return "error"
	}
}

// Error is a classified motif-liquidator error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New returns an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
