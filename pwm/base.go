// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pwm implements a position weight matrix (PWM) engine for
// scoring nucleotide sequences against MEME-format motifs: parsing,
// pseudocount-adjusted log-odds scaling, p-value table construction by
// convolution, and sliding-window scanning of both strands.
package pwm

import "github.com/biogo/biogo/alphabet"

// AlphabetSize is the number of scorable bases (A, C, G, T).
const AlphabetSize = 4

// Unscorable is returned by BaseIndex for any byte that is not an
// upper- or lower-case A, C, G or T.
const Unscorable = AlphabetSize

// bases lists the alphabet in the canonical MEME column order.
var bases = [AlphabetSize]alphabet.Letter{'A', 'C', 'G', 'T'}

// complement maps a base index to the index of its Watson-Crick
// complement: A<->T, C<->G.
var complement = [AlphabetSize]int{3, 2, 1, 0}

// BaseIndex maps an ACGT/acgt byte to {0,1,2,3}. Any other byte,
// including 'N', '.' and '-', returns Unscorable.
func BaseIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	default:
		return Unscorable
	}
}

// ComplementIndex returns the base index of the complement of the base
// at index i.
func ComplementIndex(i int) int {
	return complement[i]
}

// base returns the upper-case ACGT letter for a base index in [0,4).
func base(i int) byte {
	return byte(bases[i])
}
