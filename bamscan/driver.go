// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bamscan coordinates scanning aligned reads from a BAM file
// (all reads, or reads overlapping a set of BED regions via the index)
// through the pwm engine, writing significant reads through to an
// output archive and printing FIMO-style hits and summary counters.
package bamscan

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/jdimatteo/motif-liquidator/bedregion"
	"github.com/jdimatteo/motif-liquidator/errs"
	"github.com/jdimatteo/motif-liquidator/fimo"
	"github.com/jdimatteo/motif-liquidator/pwm"
)

// Driver owns a BAM input (and its index), an optional passthrough
// output, the accumulated run counters and the reusable sequence
// unpacking buffer described in spec §4.6/§5.
type Driver struct {
	in        *bam.Reader
	inCloser  io.Closer
	index     *bam.Index
	out       *bam.Writer
	outCloser io.Closer

	matrices     []pwm.ScoreMatrix
	verbose      bool
	unmappedOnly bool
	stdout       io.Writer

	seqBuf []byte

	// state for the current read/matrix being scanned, consulted from
	// Accept (the pwm.Consumer callback).
	currentRead   *sam.Record
	currentMatrix *pwm.ScoreMatrix
	regionLabel   string

	readCount        int
	unmappedCount    int
	readHitCount     int
	unmappedHitCount int
	totalHitCount    int
}

// Options configures a Driver.
type Options struct {
	InputPath    string
	OutputPath   string // empty disables passthrough output
	Verbose      bool
	UnmappedOnly bool
	Stdout       io.Writer // defaults to os.Stdout
}

// Open opens the BAM input and its .bai index, and, if OutputPath is
// set, creates the passthrough output archive with the same header.
// The caller must call Close when done, on every exit path.
func Open(opts Options) (*Driver, error) {
	inFile, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, errs.New(errs.IO, "failed to open %s: %v", opts.InputPath, err)
	}

	in, err := bam.NewReader(inFile, 0)
	if err != nil {
		inFile.Close()
		return nil, errs.New(errs.IO, "failed to read BAM header from %s: %v", opts.InputPath, err)
	}

	idxFile, err := os.Open(opts.InputPath + ".bai")
	if err != nil {
		in.Close()
		inFile.Close()
		return nil, errs.New(errs.IO, "failed to open BAM index for %s: %v", opts.InputPath, err)
	}
	defer idxFile.Close()

	index, err := bam.ReadIndex(idxFile)
	if err != nil {
		in.Close()
		inFile.Close()
		return nil, errs.New(errs.IO, "failed to read BAM index for %s: %v", opts.InputPath, err)
	}

	d := &Driver{
		in:           in,
		inCloser:     inFile,
		index:        index,
		verbose:      opts.Verbose,
		unmappedOnly: opts.UnmappedOnly,
		stdout:       opts.Stdout,
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}

	if opts.OutputPath != "" {
		outFile, err := os.Create(opts.OutputPath)
		if err != nil {
			d.closeInput()
			return nil, errs.New(errs.IO, "failed to create %s: %v", opts.OutputPath, err)
		}
		out, err := bam.NewWriter(outFile, in.Header(), 0)
		if err != nil {
			outFile.Close()
			d.closeInput()
			return nil, errs.New(errs.IO, "failed to write BAM header to %s: %v", opts.OutputPath, err)
		}
		d.out = out
		d.outCloser = outFile
	}

	if d.verbose {
		fmt.Fprintln(d.stdout, fimo.Header)
	}

	return d, nil
}

func (d *Driver) closeInput() {
	d.in.Close()
	d.inCloser.Close()
}

// Close flushes and closes the output archive (if any) before closing
// the input, so buffered output records are not lost, then prints the
// summary block to stdout.
func (d *Driver) Close() error {
	var outErr error
	if d.out != nil {
		outErr = d.out.Close()
		if err := d.outCloser.Close(); err != nil && outErr == nil {
			outErr = err
		}
	}
	d.closeInput()

	d.printSummary()

	if outErr != nil {
		return errs.New(errs.IO, "failed to close output archive: %v", outErr)
	}
	return nil
}

// SetMatrices installs the matrices to scan every read against.
func (d *Driver) SetMatrices(matrices []pwm.ScoreMatrix) {
	d.matrices = matrices
}

// ScoreAll iterates every read in the input, unrestricted.
func (d *Driver) ScoreAll() error {
	for {
		rec, err := d.in.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errs.New(errs.IO, "reading BAM record: %v", err)
		}
		d.regionLabel = ""
		d.scoreRead(rec)
	}
}

// ScoreRegions fetches, via the index, every read overlapping each
// region, skipping (silently) any region whose chromosome is absent
// from this BAM's header.
func (d *Driver) ScoreRegions(regions []bedregion.Region) error {
	header := d.in.Header()
	for _, region := range regions {
		ref, ok := findReference(header, region.Chrom)
		if !ok {
			continue // this bam doesn't have this chromosome
		}

		chunks, err := d.index.Chunks(ref, region.Start, region.End)
		if err != nil {
			return errs.New(errs.Index, "bam index fetch failed for %s: %v", region, err)
		}

		it, err := bam.NewIterator(d.in, chunks)
		if err != nil {
			return errs.New(errs.Index, "bam iterator failed for %s: %v", region, err)
		}
		d.regionLabel = region.String()
		for it.Next() {
			d.scoreRead(it.Record())
		}
		if err := it.Close(); err != nil {
			return errs.New(errs.Index, "bam iterator error for %s: %v", region, err)
		}
	}
	return nil
}

func findReference(h *sam.Header, name string) (*sam.Reference, bool) {
	for _, ref := range h.Refs() {
		if ref.Name() == name {
			return ref, true
		}
	}
	return nil, false
}

func isUnmapped(rec *sam.Record) bool {
	return rec.Flags&sam.Unmapped != 0
}

// scoreRead implements spec §4.6 steps 1-5 for a single read.
func (d *Driver) scoreRead(rec *sam.Record) {
	d.readCount++
	unmapped := isUnmapped(rec)
	if unmapped {
		d.unmappedCount++
	} else if d.unmappedOnly {
		return
	}

	sequence := d.unpack(rec)

	sequenceLabel := d.regionLabel
	if sequenceLabel == "" {
		sequenceLabel = rec.Name
	}

	preHits := d.totalHitCount
	d.currentRead = rec
	for i := range d.matrices {
		d.currentMatrix = &d.matrices[i]
		d.currentMatrix.Scan(sequence, sequenceLabel, d)
	}

	if d.totalHitCount > preHits {
		d.readHitCount++
		if unmapped {
			d.unmappedHitCount++
		}
		if d.out != nil {
			if err := d.out.Write(rec); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to write passthrough record %s: %v.\n", rec.Name, err)
			}
		}
	}
}

// unpack decodes rec's doublet-packed sequence into an ASCII buffer,
// reusing the buffer across reads of uniform length.
func (d *Driver) unpack(rec *sam.Record) string {
	expanded := rec.Seq.Expand()
	if cap(d.seqBuf) < len(expanded) {
		d.seqBuf = make([]byte, len(expanded))
	}
	d.seqBuf = d.seqBuf[:len(expanded)]
	for i, l := range expanded {
		d.seqBuf[i] = byte(l)
	}
	return string(d.seqBuf)
}

// Accept implements pwm.Consumer: only scores with pvalue below
// fimo.PvalueThreshold count as hits, and are printed (if verbose) in
// FIMO style with BAM-relative coordinates.
func (d *Driver) Accept(matrixName, sequenceName string, start, stop int, score pwm.Score) {
	if !(score.Pvalue < fimo.PvalueThreshold) {
		return
	}
	d.totalHitCount++

	if !d.verbose {
		return
	}

	pos := 0
	if !isUnmapped(d.currentRead) {
		pos = d.currentRead.Pos
	}

	strand := '+'
	if d.currentMatrix.ReverseComplement {
		strand = '-'
	}

	fmt.Fprintf(d.stdout, "%s\t%s\t%d\t%d\t%c\t%.6g\t%.3g\t\t%s\n",
		matrixName, sequenceName, pos+start, pos+stop, strand,
		score.Score, score.Pvalue, score.MatchedSequence())
}
