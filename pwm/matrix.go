// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"math"

	"github.com/jdimatteo/motif-liquidator/errs"
)

// BINS is the integer resolution of a scaled matrix, matching the
// MEME/FIMO convention.
const BINS = 100

// DefaultPseudoSites is the default pseudocount weight added to each
// column when adjusting observed frequencies.
const DefaultPseudoSites = 0.1

// ScoreMatrix is an immutable, integer-scaled PWM ready for scanning.
// It is built once per run by BuildMatrices and never mutated.
type ScoreMatrix struct {
	Name              string
	NumberOfSites     int
	ReverseComplement bool
	Background        [AlphabetSize]float64
	Matrix            [][AlphabetSize]int
	Scale             float64
	MinBeforeScaling  float64
	SMax              int
	PValues           []float64
}

// Width returns the motif length in positions.
func (m *ScoreMatrix) Width() int { return len(m.Matrix) }

// Value returns the scaled matrix entry for the given 0-based position
// and ACGT/acgt base. It returns an *errs.Error of kind InvalidBase for
// any other base byte.
func (m *ScoreMatrix) Value(position int, base byte) (int, error) {
	idx := BaseIndex(base)
	if idx == Unscorable {
		return 0, errs.New(errs.InvalidBase, "invalid base %q", base)
	}
	return m.Matrix[position][idx], nil
}

// BuildMatrices builds the forward ScoreMatrix for motif, and, if
// includeReverseComplement is true, its reverse-complement pair. Each
// matrix independently computes its own scaling bounds and p-value
// table, per spec: scaling bounds only coincide for symmetric
// backgrounds.
func BuildMatrices(motif Motif, background [AlphabetSize]float64, pseudoSites float64, includeReverseComplement bool) ([]ScoreMatrix, error) {
	forward, err := buildOne(motif, background, pseudoSites, false)
	if err != nil {
		return nil, err
	}
	matrices := []ScoreMatrix{forward}

	if includeReverseComplement {
		rc := motif
		rc.Rows = reverseComplementRows(motif.Rows)
		rcMatrix, err := buildOne(rc, background, pseudoSites, true)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, rcMatrix)
	}
	return matrices, nil
}

func reverseComplementRows(rows [][AlphabetSize]float64) [][AlphabetSize]float64 {
	w := len(rows)
	out := make([][AlphabetSize]float64, w)
	for c := 0; c < w; c++ {
		src := rows[w-1-c]
		var dst [AlphabetSize]float64
		for b := 0; b < AlphabetSize; b++ {
			dst[b] = src[ComplementIndex(b)]
		}
		out[c] = dst
	}
	return out
}

func buildOne(motif Motif, background [AlphabetSize]float64, pseudoSites float64, isRC bool) (ScoreMatrix, error) {
	w := len(motif.Rows)
	if w == 0 {
		return ScoreMatrix{}, errs.New(errs.Format, "motif %q has zero rows", motif.Name)
	}

	logOdds := make([][AlphabetSize]float64, w)
	minL := math.Inf(1)
	maxL := math.Inf(-1)
	nsites := float64(motif.NSites)

	for c, row := range motif.Rows {
		for b := 0; b < AlphabetSize; b++ {
			f := (row[b] + pseudoSites*background[b]) / (nsites + pseudoSites)
			l := math.Log2(f / background[b])
			logOdds[c][b] = l
			if l < minL {
				minL = l
			}
			if l > maxL {
				maxL = l
			}
		}
	}

	scale := float64(BINS) / (maxL - minL)
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		// every column scores identically (e.g. w=0 is excluded above;
		// this covers a degenerate single-value matrix).
		scale = 0
	}

	matrix := make([][AlphabetSize]int, w)
	sMax := 0
	for c := 0; c < w; c++ {
		maxCol := math.Inf(-1)
		for b := 0; b < AlphabetSize; b++ {
			scaled := int(math.Round((logOdds[c][b] - minL) * scale))
			matrix[c][b] = scaled
			if float64(scaled) > maxCol {
				maxCol = float64(scaled)
			}
		}
		sMax += int(maxCol)
	}

	m := ScoreMatrix{
		Name:              motif.Name,
		NumberOfSites:     motif.NSites,
		ReverseComplement: isRC,
		Background:        background,
		Matrix:            matrix,
		Scale:             scale,
		MinBeforeScaling:  minL,
		SMax:              sMax,
	}
	m.PValues = BuildPValueTable(matrix, background, sMax)
	return m, nil
}
