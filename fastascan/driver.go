// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fastascan implements the FASTA driver: it reads records with
// biogo's fasta reader and scans each against every configured matrix,
// forwarding every emitted score to a pwm.Consumer.
package fastascan

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/jdimatteo/motif-liquidator/errs"
	"github.com/jdimatteo/motif-liquidator/pwm"
)

// Run iterates every FASTA record in r and scans it against every
// matrix, forwarding scores to consumer. It does not retain records
// beyond a single iteration.
func Run(r io.Reader, matrices []pwm.ScoreMatrix, consumer pwm.Consumer) error {
	template := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	for sc.Next() {
		s := sc.Seq()
		sequence := fmt.Sprintf("%s", s.(*linear.Seq).Seq)
		name := s.Name()

		for i := range matrices {
			if ss, ok := consumer.(pwm.StrandSetter); ok {
				ss.SetStrand(matrices[i].ReverseComplement)
			}
			matrices[i].Scan(sequence, name, consumer)
		}
	}
	if err := sc.Error(); err != nil {
		return errs.New(errs.IO, "reading FASTA record: %v", err)
	}
	return nil
}
