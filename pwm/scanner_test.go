// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"math"
	"testing"
)

func newTestMatrix(matrix [][AlphabetSize]int) *ScoreMatrix {
	sMax := 0
	for _, col := range matrix {
		max := 0
		for _, v := range col {
			if v > max {
				max = v
			}
		}
		sMax += max
	}
	return &ScoreMatrix{
		Name:             "test",
		Background:       UniformBackground,
		Matrix:           matrix,
		Scale:            1,
		MinBeforeScaling: 0,
		SMax:             sMax,
		PValues:          BuildPValueTable(matrix, UniformBackground, sMax),
	}
}

type collectingConsumer struct {
	scores []Score
}

func (c *collectingConsumer) Accept(matrixName, sequenceName string, start, stop int, score Score) {
	c.scores = append(c.scores, score)
}

func TestScanEmitsOneScorePerWindow(t *testing.T) {
	//  A   C   G   T
	m := newTestMatrix([][AlphabetSize]int{
		{24, 24, 24, 0},
		{0, 0, 30, 0},
	})
	var c collectingConsumer
	m.Scan("AAAAA", "", &c)
	if len(c.scores) != 4 {
		t.Fatalf("got %d scores, want 4 (len 5, w 2 => 4 windows)", len(c.scores))
	}
}

func TestScanWiderThanSequenceEmitsNothing(t *testing.T) {
	m := newTestMatrix([][AlphabetSize]int{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}})
	var c collectingConsumer
	m.Scan("AC", "", &c)
	if len(c.scores) != 0 {
		t.Fatalf("got %d scores, want 0", len(c.scores))
	}
}

func TestScanScoresMatchOriginalFixture(t *testing.T) {
	//  A   C   G   T
	matrix := [][AlphabetSize]int{
		{24, 24, 24, 0},
		{0, 0, 30, 0},
	}
	m := newTestMatrix(matrix)

	cases := []struct {
		seq   string
		want  float64
	}{
		{"AA", 24},
		{"AG", 54},
		{"ag", 54},
	}
	for _, tc := range cases {
		var c collectingConsumer
		m.Scan(tc.seq, "", &c)
		if len(c.scores) != 1 {
			t.Fatalf("sequence %q: got %d scores, want 1", tc.seq, len(c.scores))
		}
		got := c.scores[0].Score
		wantReal := tc.want/m.Scale + float64(m.Width())*m.MinBeforeScaling
		if got != wantReal {
			t.Errorf("sequence %q: score = %v, want %v", tc.seq, got, wantReal)
		}
	}
}

func TestScanUnscorableWindow(t *testing.T) {
	m := newTestMatrix([][AlphabetSize]int{{1, 1, 1, 1}, {1, 1, 1, 1}})
	var c collectingConsumer
	m.Scan("NNNN", "", &c)
	if len(c.scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(c.scores))
	}
	for _, s := range c.scores {
		if !math.IsNaN(s.Pvalue) {
			t.Errorf("pvalue = %v, want NaN", s.Pvalue)
		}
		if s.Score != 0 {
			t.Errorf("score = %v, want 0", s.Score)
		}
	}
}

func TestScanReverseComplementSymmetry(t *testing.T) {
	motif := Motif{
		Name:   "GT",
		NSites: 10,
		Rows: [][AlphabetSize]float64{
			{0, 0, 10, 0},
			{0, 0, 0, 10},
		},
	}
	matrices, err := BuildMatrices(motif, UniformBackground, DefaultPseudoSites, true)
	if err != nil {
		t.Fatalf("BuildMatrices: %v", err)
	}
	fwd, rc := &matrices[0], &matrices[1]

	sequence := "ACAC"
	reverseComplementSeq := reverseComplementString(sequence)

	var fc, rcc collectingConsumer
	fwd.Scan(sequence, "", &fc)
	rc.Scan(sequence, "", &rcc)

	// fwd(GT) should not hit ACAC's windows strongly; rc(GT) is
	// effectively AC and should score maximally at windows 0 and 2.
	if rcc.scores[0].Score <= fc.scores[0].Score {
		t.Errorf("expected rc matrix to score window 0 of ACAC higher than fwd matrix")
	}

	// symmetry: scoring X with M at window i equals scoring
	// reverse_complement(X) with M' at window len(X)-w-i.
	w := fwd.Width()
	var revConsumer collectingConsumer
	fwd.Scan(reverseComplementSeq, "", &revConsumer)
	for i, s := range rcc.scores {
		mirrored := revConsumer.scores[len(sequence)-w-i]
		if math.IsNaN(s.Pvalue) != math.IsNaN(mirrored.Pvalue) {
			t.Errorf("window %d: NaN mismatch", i)
			continue
		}
		if !math.IsNaN(s.Pvalue) && s.Score != mirrored.Score {
			t.Errorf("window %d: rc score %v != mirrored fwd score %v", i, s.Score, mirrored.Score)
		}
	}
}

func reverseComplementString(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		idx := BaseIndex(s[len(s)-1-i])
		if idx == Unscorable {
			out[i] = 'N'
			continue
		}
		out[i] = base(ComplementIndex(idx))
	}
	return string(out)
}
