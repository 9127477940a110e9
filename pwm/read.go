// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import "io"

// Read parses every motif in a MEME minimal format stream and builds a
// forward (and, if includeReverseComplement is true, reverse-complement)
// ScoreMatrix for each, in file order.
func Read(r io.Reader, background [AlphabetSize]float64, includeReverseComplement bool, pseudoSites float64) ([]ScoreMatrix, error) {
	motifs, err := ReadMEME(r)
	if err != nil {
		return nil, err
	}

	var matrices []ScoreMatrix
	for _, motif := range motifs {
		built, err := BuildMatrices(motif, background, pseudoSites, includeReverseComplement)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, built...)
	}
	return matrices, nil
}
