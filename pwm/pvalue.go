// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import "gonum.org/v1/gonum/floats"

// BuildPValueTable convolves the per-column discrete score
// distributions implied by matrix under background, producing
// pvalues[k] = P(score >= k) for every reachable integer score
// k in [0, sMax]. See spec §4.3.
func BuildPValueTable(matrix [][AlphabetSize]int, background [AlphabetSize]float64, sMax int) []float64 {
	pmf := []float64{1.0}

	for _, col := range matrix {
		maxCol := 0
		for b := 0; b < AlphabetSize; b++ {
			if col[b] > maxCol {
				maxCol = col[b]
			}
		}
		next := make([]float64, len(pmf)+maxCol)
		for s, p := range pmf {
			if p == 0 {
				continue
			}
			for b := 0; b < AlphabetSize; b++ {
				next[s+col[b]] += p * background[b]
			}
		}
		pmf = next
	}

	n := sMax + 1
	if len(pmf) > n {
		n = len(pmf)
	}
	padded := make([]float64, n)
	copy(padded, pmf)

	// pvalues[k] = P(score >= k) = sum of padded[k:]. Reverse, take the
	// running (forward) cumulative sum, then reverse back.
	floats.Reverse(padded)
	pvalues := floats.CumSum(make([]float64, n), padded)
	floats.Reverse(pvalues)

	if len(pvalues) > sMax+1 {
		pvalues = pvalues[:sMax+1]
	}
	return pvalues
}
