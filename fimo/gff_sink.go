// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fimo

import (
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/jdimatteo/motif-liquidator/pwm"
)

// GFFSink writes significant matches as GFF3 "match" features, an
// optional secondary sink alongside the tabular Sink. It is exercised
// via cmd/motif_liquidator's -gff flag.
type GFFSink struct {
	w                 *gff.Writer
	reverseComplement bool
	seenSequences     map[string]bool
}

// NewGFFSink returns a GFFSink writing to w. Line-wrap width and header
// output are whatever w was configured with by gff.NewWriter.
func NewGFFSink(w *gff.Writer) *GFFSink {
	return &GFFSink{w: w, seenSequences: make(map[string]bool)}
}

// SetStrand tells the sink which strand subsequent Accept calls
// describe.
func (g *GFFSink) SetStrand(reverseComplement bool) {
	g.reverseComplement = reverseComplement
}

// Accept implements pwm.Consumer.
func (g *GFFSink) Accept(matrixName, sequenceName string, start, stop int, score pwm.Score) {
	if !(score.Pvalue < PvalueThreshold) {
		return
	}

	if !g.seenSequences[sequenceName] {
		g.w.WriteMetaData(gff.Sequence{SeqName: sequenceName, Type: alphabet.DNA.Moltype()})
		g.seenSequences[sequenceName] = true
	}

	strand := seq.Plus
	if g.reverseComplement {
		strand = seq.Minus
	}

	g.w.Write(&gff.Feature{
		SeqName:    sequenceName,
		Source:     "motif_liquidator",
		Feature:    "match",
		FeatStart:  start,
		FeatEnd:    stop,
		FeatScore:  &score.Score,
		FeatStrand: strand,
		FeatFrame:  gff.NoFrame,
		FeatAttributes: gff.Attributes{
			gff.Attribute{Tag: "Motif", Value: matrixName},
			gff.Attribute{Tag: "p", Value: fmt.Sprintf("%.3g", score.Pvalue)},
		},
	})
}
