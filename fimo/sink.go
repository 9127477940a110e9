// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fimo formats pwm.Score matches as FIMO-style tab-separated
// records, and optionally as GFF3 features.
package fimo

import (
	"fmt"
	"io"

	"github.com/jdimatteo/motif-liquidator/pwm"
)

// PvalueThreshold is the significance cutoff below which a Score counts
// as a hit worth reporting.
const PvalueThreshold = 1e-4

// Header is the FIMO-style header comment line written once at the
// start of a hit stream.
const Header = "#pattern name\tsequence name\tstart\tstop\tstrand\tscore\tp-value\tq-value\tmatched sequence"

// Sink writes FIMO-style tab-separated hit records to an io.Writer. It
// implements pwm.Consumer, filtering to pvalue < PvalueThreshold and
// silently dropping everything else (including unscorable windows).
type Sink struct {
	w io.Writer
	// reverseComplement is set by the caller per-matrix, since strand is
	// a property of the ScoreMatrix, not of pwm.Score.
	reverseComplement bool
	hits              int
}

// NewSink returns a Sink writing to w, writing the header comment line
// immediately so it appears even for a run with zero hits.
func NewSink(w io.Writer) *Sink {
	s := &Sink{w: w}
	fmt.Fprintln(s.w, Header)
	return s
}

// SetStrand tells the sink which strand subsequent Accept calls
// describe. Callers scan one ScoreMatrix at a time, so this is set once
// per matrix before scanning it.
func (s *Sink) SetStrand(reverseComplement bool) {
	s.reverseComplement = reverseComplement
}

// Hits returns the number of records written so far.
func (s *Sink) Hits() int { return s.hits }

// Accept implements pwm.Consumer.
func (s *Sink) Accept(matrixName, sequenceName string, start, stop int, score pwm.Score) {
	if !(score.Pvalue < PvalueThreshold) {
		return
	}

	strand := '+'
	if s.reverseComplement {
		strand = '-'
	}

	fmt.Fprintf(s.w, "%s\t%s\t%d\t%d\t%c\t%.6g\t%.3g\t\t%s\n",
		matrixName, sequenceName, start, stop, strand,
		score.Score, score.Pvalue, score.MatchedSequence())
	s.hits++
}
