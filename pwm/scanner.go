// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import "math"

// Score is a transient scan result. It is only valid for the duration
// of the Consumer.Accept call that receives it: it borrows the scanned
// sequence and must not be retained. Callers that need the matched
// slice afterward should call MatchedSequence to copy it immediately.
type Score struct {
	sequence string
	// Begin and End are 0-based, half-open over the source sequence.
	Begin, End int
	// Pvalue is NaN when the window contains an unscorable base.
	Pvalue float64
	// Score is 0 when the window contains an unscorable base.
	Score float64
}

// MatchedSequence returns an upper-cased copy of the window this Score
// covers.
func (s Score) MatchedSequence() string {
	buf := make([]byte, s.End-s.Begin)
	for i := range buf {
		c := s.sequence[s.Begin+i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		buf[i] = c
	}
	return string(buf)
}

// Consumer receives every Score emitted while scanning one sequence
// against one matrix, including unscorable windows. matrixName is the
// motif's name; sequenceName labels the source sequence (may be empty).
// start/stop are 1-based inclusive, matching the FIMO convention.
type Consumer interface {
	Accept(matrixName, sequenceName string, start, stop int, score Score)
}

// StrandSetter is implemented by consumers (such as fimo.Sink) that
// report which strand a match was found on. A driver scanning a
// forward/reverse-complement matrix pair against the same forward
// sequence string should call SetStrand before each Scan call if the
// consumer supports it.
type StrandSetter interface {
	SetStrand(reverseComplement bool)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(matrixName, sequenceName string, start, stop int, score Score)

// Accept implements Consumer.
func (f ConsumerFunc) Accept(matrixName, sequenceName string, start, stop int, score Score) {
	f(matrixName, sequenceName, start, stop, score)
}

// Scan slides matrix's window across sequence and delivers a Score to
// consumer for every window position, including unscorable ones. It
// scans only the strand matrix was built for; scanning both strands
// means calling Scan once per forward/reverse-complement matrix pair
// against the same forward sequence string.
func (m *ScoreMatrix) Scan(sequence, sequenceName string, consumer Consumer) {
	w := m.Width()
	n := len(sequence)
	if w > n {
		return
	}

	for begin := 0; begin+w <= n; begin++ {
		end := begin + w
		score := m.scoreWindow(sequence, begin, end)
		consumer.Accept(m.Name, sequenceName, begin+1, end, score)
	}
}

func (m *ScoreMatrix) scoreWindow(sequence string, begin, end int) Score {
	sum := 0
	for c := 0; begin+c < end; c++ {
		idx := BaseIndex(sequence[begin+c])
		if idx == Unscorable {
			return Score{sequence: sequence, Begin: begin, End: end, Pvalue: math.NaN(), Score: 0}
		}
		sum += m.Matrix[c][idx]
	}

	clamped := sum
	if clamped > m.SMax {
		clamped = m.SMax
	}
	if clamped < 0 {
		clamped = 0
	}

	realScore := float64(sum)/m.Scale + float64(m.Width())*m.MinBeforeScaling
	return Score{
		sequence: sequence,
		Begin:    begin,
		End:      end,
		Pvalue:   m.PValues[clamped],
		Score:    realScore,
	}
}
