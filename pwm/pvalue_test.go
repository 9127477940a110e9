// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"math"
	"testing"
)

func TestBuildPValueTableEmptyMatrix(t *testing.T) {
	pvalues := BuildPValueTable(nil, UniformBackground, 0)
	if len(pvalues) != 1 {
		t.Fatalf("got %d entries, want 1", len(pvalues))
	}
	if pvalues[0] != 1 {
		t.Errorf("pvalues[0] = %v, want 1", pvalues[0])
	}
}

func TestBuildPValueTableLengthOne(t *testing.T) {
	// a single column with G scoring 1 and everything else 0: value 0
	// with 75% probability, value 1 with 25%.
	matrix := [][AlphabetSize]int{{0, 0, 1, 0}}
	pvalues := BuildPValueTable(matrix, UniformBackground, 1)
	if len(pvalues) != 2 {
		t.Fatalf("got %d entries, want 2", len(pvalues))
	}
	if math.Abs(pvalues[0]-1.0) > 1e-9 {
		t.Errorf("pvalues[0] = %v, want 1", pvalues[0])
	}
	if math.Abs(pvalues[1]-0.25) > 1e-9 {
		t.Errorf("pvalues[1] = %v, want 0.25", pvalues[1])
	}
}

func TestBuildPValueTableLengthTwo(t *testing.T) {
	// column0: G=1,T=1; column1: A=1,G=1. Scores: 0 w.p 25%, 1 w.p 50%,
	// 2 w.p. 25% (16 equally likely dinucleotides under uniform bg).
	matrix := [][AlphabetSize]int{
		{0, 0, 1, 1},
		{1, 0, 1, 0},
	}
	pvalues := BuildPValueTable(matrix, UniformBackground, 2)
	if len(pvalues) != 3 {
		t.Fatalf("got %d entries, want 3", len(pvalues))
	}
	want := []float64{1.0, 0.75, 0.25}
	for i, w := range want {
		if math.Abs(pvalues[i]-w) > 1e-9 {
			t.Errorf("pvalues[%d] = %v, want %v", i, pvalues[i], w)
		}
	}
}

func TestBuildPValueTableMonotonic(t *testing.T) {
	matrix := [][AlphabetSize]int{
		{5, 12, 0, 8},
		{20, 0, 3, 7},
		{1, 1, 1, 100},
	}
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
	pvalues := BuildPValueTable(matrix, UniformBackground, sMax)

	if math.Abs(pvalues[0]-1.0) > 1e-9 {
		t.Errorf("pvalues[0] = %v, want 1.0", pvalues[0])
	}
	if pvalues[sMax] <= 0 {
		t.Errorf("pvalues[sMax] = %v, want > 0", pvalues[sMax])
	}
	for k := 1; k < len(pvalues); k++ {
		if pvalues[k] > pvalues[k-1]+1e-12 {
			t.Errorf("pvalues not monotonically non-increasing at %d: %v > %v", k, pvalues[k], pvalues[k-1])
		}
	}
}
