// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// motif_liquidator scans a FASTA or BAM sequence source for
// occurrences of MEME-format motifs, reporting matches whose
// statistical significance exceeds a threshold.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/jdimatteo/motif-liquidator/bamscan"
	"github.com/jdimatteo/motif-liquidator/bedregion"
	"github.com/jdimatteo/motif-liquidator/errs"
	"github.com/jdimatteo/motif-liquidator/fastascan"
	"github.com/jdimatteo/motif-liquidator/fimo"
	"github.com/jdimatteo/motif-liquidator/pwm"
)

type inputType int

const (
	invalidInput inputType = iota
	fastaInput
	bamInput
)

type config struct {
	backgroundPath string
	outputPath     string
	regionPath     string
	unmappedOnly   bool
	verbose        bool
	help           bool
	gff            bool

	motifPath    string
	sequencePath string
	inputType    inputType
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("motif_liquidator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: motif_liquidator [options] motif fasta|bam")
		fs.PrintDefaults()
	}

	var c config
	fs.StringVar(&c.backgroundPath, "background", "", "Meme style background frequency file.")
	fs.StringVar(&c.backgroundPath, "b", "", "Meme style background frequency file. (shorthand)")
	fs.StringVar(&c.outputPath, "output", "", "File to write matches to. Output is fimo style for fasta input, and a .bam for bam input.")
	fs.StringVar(&c.outputPath, "o", "", "File to write matches to. (shorthand)")
	fs.StringVar(&c.regionPath, "region", "", ".bed region file for filtering bam input.")
	fs.StringVar(&c.regionPath, "r", "", ".bed region file for filtering bam input. (shorthand)")
	fs.BoolVar(&c.unmappedOnly, "unmapped-only", false, "Only score unmapped reads from bam.")
	fs.BoolVar(&c.unmappedOnly, "u", false, "Only score unmapped reads from bam. (shorthand)")
	fs.BoolVar(&c.verbose, "verbose", false, "Print verbosely to stdout. For bams, this means writing fimo style output.")
	fs.BoolVar(&c.verbose, "v", false, "Print verbosely to stdout. (shorthand)")
	fs.BoolVar(&c.gff, "gff", false, "Also write matches as GFF3 features alongside the fimo style output (fasta input only).")
	fs.BoolVar(&c.help, "help", false, "Display this help and exit.")
	fs.BoolVar(&c.help, "h", false, "Display this help and exit. (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, errs.New(errs.Usage, "%v", err)
	}

	if c.help {
		fs.Usage()
		return nil, errs.New(errs.Usage, "help requested")
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return nil, errs.New(errs.Usage, "expected exactly 2 positional arguments (motif, fasta|bam), got %d", fs.NArg())
	}
	c.motifPath = fs.Arg(0)
	c.sequencePath = fs.Arg(1)

	switch filepath.Ext(c.sequencePath) {
	case ".bam":
		c.inputType = bamInput
	case ".fasta":
		c.inputType = fastaInput
	default:
		return nil, errs.New(errs.Usage, "only .bam and .fasta extensions are supported, got %q", c.sequencePath)
	}

	if c.regionPath != "" && c.inputType != bamInput {
		return nil, errs.New(errs.Usage, "only .bam input files support region filtering")
	}
	if c.unmappedOnly && c.inputType != bamInput {
		return nil, errs.New(errs.Usage, "-unmapped-only only applies to .bam input files")
	}
	if c.gff && c.inputType != fastaInput {
		return nil, errs.New(errs.Usage, "-gff only applies to .fasta input files")
	}

	return &c, nil
}

func loadBackground(c *config) ([pwm.AlphabetSize]float64, error) {
	if c.backgroundPath == "" {
		return pwm.UniformBackground, nil
	}
	f, err := os.Open(c.backgroundPath)
	if err != nil {
		return pwm.UniformBackground, errs.New(errs.IO, "failed to open background file %s: %v", c.backgroundPath, err)
	}
	defer f.Close()
	return pwm.ReadBackground(f)
}

func loadMatrices(c *config) ([]pwm.ScoreMatrix, error) {
	background, err := loadBackground(c)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(c.motifPath)
	if err != nil {
		return nil, errs.New(errs.IO, "failed to open motif file %s: %v", c.motifPath, err)
	}
	defer f.Close()

	return pwm.Read(f, background, true, pwm.DefaultPseudoSites)
}

// multiConsumer fans a Score out to several consumers.
type multiConsumer []pwm.Consumer

func (m multiConsumer) Accept(matrixName, sequenceName string, start, stop int, score pwm.Score) {
	for _, c := range m {
		c.Accept(matrixName, sequenceName, start, stop, score)
	}
}

// SetStrand implements pwm.StrandSetter, forwarding to every member
// consumer that itself supports it.
func (m multiConsumer) SetStrand(reverseComplement bool) {
	for _, c := range m {
		if ss, ok := c.(pwm.StrandSetter); ok {
			ss.SetStrand(reverseComplement)
		}
	}
}

func runFasta(c *config, matrices []pwm.ScoreMatrix) error {
	in, err := os.Open(c.sequencePath)
	if err != nil {
		return errs.New(errs.IO, "failed to open %s: %v", c.sequencePath, err)
	}
	defer in.Close()

	var consumers multiConsumer

	if c.outputPath != "" {
		out, err := os.Create(c.outputPath)
		if err != nil {
			return errs.New(errs.IO, "failed to create %s: %v", c.outputPath, err)
		}
		defer out.Close()
		consumers = append(consumers, fimo.NewSink(out))
	}
	if c.verbose || c.outputPath == "" {
		consumers = append(consumers, fimo.NewSink(os.Stdout))
	}

	if c.gff {
		gffPath := c.outputPath + ".gff"
		if c.outputPath == "" {
			gffPath = c.sequencePath + ".gff"
		}
		gffFile, err := os.Create(gffPath)
		if err != nil {
			return errs.New(errs.IO, "failed to create %s: %v", gffPath, err)
		}
		defer gffFile.Close()
		consumers = append(consumers, fimo.NewGFFSink(gff.NewWriter(gffFile, 60, true)))
	}

	return fastascan.Run(in, matrices, consumers)
}

func runBAM(c *config, matrices []pwm.ScoreMatrix) error {
	driver, err := bamscan.Open(bamscan.Options{
		InputPath:    c.sequencePath,
		OutputPath:   c.outputPath,
		Verbose:      c.verbose,
		UnmappedOnly: c.unmappedOnly,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	driver.SetMatrices(matrices)

	if c.regionPath != "" {
		regionFile, err := os.Open(c.regionPath)
		if err != nil {
			return errs.New(errs.IO, "failed to open region file %s: %v", c.regionPath, err)
		}
		regions, err := bedregion.Parse(regionFile)
		regionFile.Close()
		if err != nil {
			return err
		}
		return driver.ScoreRegions(regions)
	}
	return driver.ScoreAll()
}

func run(args []string) error {
	c, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	matrices, err := loadMatrices(c)
	if err != nil {
		return err
	}

	switch c.inputType {
	case bamInput:
		return runBAM(c, matrices)
	case fastaInput:
		return runFasta(c, matrices)
	default:
		return errs.New(errs.Usage, "unsupported input type")
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
		os.Exit(1)
	}
}
