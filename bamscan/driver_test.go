// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bamscan

import (
	"bytes"
	"math"
	"testing"

	"github.com/biogo/hts/sam"
	check "gopkg.in/check.v1"

	"github.com/jdimatteo/motif-liquidator/pwm"
)

func Test(t *testing.T) { check.TestingT(t) }

type DriverSuite struct{}

var _ = check.Suite(&DriverSuite{})

func newTestDriver(unmappedOnly bool) (*Driver, *bytes.Buffer) {
	var buf bytes.Buffer
	d := &Driver{
		verbose:      true,
		unmappedOnly: unmappedOnly,
		stdout:       &buf,
	}
	return d, &buf
}

func (s *DriverSuite) TestAcceptCountsOnlySignificantHits(c *check.C) {
	d, _ := newTestDriver(false)
	matrix := pwm.ScoreMatrix{Name: "m"}
	d.currentMatrix = &matrix
	d.currentRead = &sam.Record{Name: "r1", Pos: 100}

	d.Accept("m", "chr1", 1, 5, pwm.Score{Pvalue: 1e-3, Score: 10})
	if d.totalHitCount != 0 {
		c.Errorf("pvalue 1e-3 should not count as a hit, got count %d", d.totalHitCount)
	}

	d.Accept("m", "chr1", 1, 5, pwm.Score{Pvalue: 1e-5, Score: 10})
	if d.totalHitCount != 1 {
		c.Errorf("pvalue 1e-5 should count as a hit, got count %d", d.totalHitCount)
	}

	d.Accept("m", "chr1", 1, 5, pwm.Score{Pvalue: math.NaN(), Score: 0})
	if d.totalHitCount != 1 {
		c.Errorf("NaN pvalue should not count as a hit, got count %d", d.totalHitCount)
	}
}

func (s *DriverSuite) TestAcceptUsesReadPosForMappedReads(c *check.C) {
	d, buf := newTestDriver(false)
	matrix := pwm.ScoreMatrix{Name: "m"}
	d.currentMatrix = &matrix
	d.currentRead = &sam.Record{Name: "r1", Pos: 1000, Flags: 0}

	d.Accept("m", "chr1", 1, 5, pwm.Score{Pvalue: 1e-5, Score: 10})

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("1001")) {
		c.Errorf("expected output to contain read.pos+start=1001, got %q", out)
	}
}

func (s *DriverSuite) TestAcceptUsesZeroPosForUnmappedReads(c *check.C) {
	d, buf := newTestDriver(false)
	matrix := pwm.ScoreMatrix{Name: "m"}
	d.currentMatrix = &matrix
	d.currentRead = &sam.Record{Name: "r1", Pos: -1, Flags: sam.Unmapped}

	d.Accept("m", "unmapped-name", 1, 5, pwm.Score{Pvalue: 1e-5, Score: 10})

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("\t1\t5\t")) {
		c.Errorf("expected output to use 0 offset for unmapped read, got %q", out)
	}
}

func (s *DriverSuite) TestIsUnmapped(c *check.C) {
	mapped := &sam.Record{Flags: 0}
	unmapped := &sam.Record{Flags: sam.Unmapped}
	if isUnmapped(mapped) {
		c.Error("mapped record reported as unmapped")
	}
	if !isUnmapped(unmapped) {
		c.Error("unmapped record reported as mapped")
	}
}

func (s *DriverSuite) TestPrintSummaryOmitsMappedLinesWhenUnmappedOnly(c *check.C) {
	d, buf := newTestDriver(true)
	d.readCount = 10
	d.unmappedCount = 4
	d.readHitCount = 2
	d.unmappedHitCount = 2
	d.totalHitCount = 3

	d.printSummary()

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("(mapped hits)")) {
		c.Errorf("unmapped-only summary should omit the mapped hits line, got %q", out)
	}
	if bytes.Contains([]byte(out), []byte("(unmapped hits) / (total hits)")) {
		c.Errorf("unmapped-only summary should omit the unmapped hits / total hits line, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("unmapped hits")) {
		c.Errorf("expected unmapped hits line, got %q", out)
	}
}

func (s *DriverSuite) TestPrintSummaryIncludesAllLinesByDefault(c *check.C) {
	d, buf := newTestDriver(false)
	d.readCount = 10
	d.unmappedCount = 2
	d.readHitCount = 3
	d.unmappedHitCount = 1
	d.totalHitCount = 5

	d.printSummary()

	out := buf.String()
	for _, want := range []string{"total hits", "mapped hits", "unmapped hits", "unmapped reads", "average hits per hit read"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			c.Errorf("expected summary to contain %q, got %q", want, out)
		}
	}
}
