// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jdimatteo/motif-liquidator/errs"
)

// Motif is a raw, unscaled PWM read from a MEME minimal format file:
// a name, its training site count, and w rows of 4 non-negative
// frequencies or counts in ACGT column order.
type Motif struct {
	Name   string
	NSites int
	Rows   [][AlphabetSize]float64
}

// UniformBackground is the default background used when no background
// file is supplied.
var UniformBackground = [AlphabetSize]float64{0.25, 0.25, 0.25, 0.25}

const backgroundSumTolerance = 1e-3

// ReadMEME parses a MEME minimal format stream, returning every motif
// declared by a "letter-probability matrix:" block. Lines that match
// none of the recognized directives (version header, ALPHABET, strands,
// URL, comments) are ignored. Parsing ends at EOF.
func ReadMEME(r io.Reader) ([]Motif, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var motifs []Motif
	var pendingName string

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Background letter frequencies"):
			// consumed by ReadBackground below when the caller wants it;
			// the motif-only parser skips the frequency line itself.
			if !sc.Scan() {
				return nil, errs.New(errs.Format, "missing background frequency line")
			}

		case strings.HasPrefix(trimmed, "MOTIF"):
			fields := strings.Fields(trimmed)
			if len(fields) < 2 {
				return nil, errs.New(errs.Format, "MOTIF line missing name: %q", trimmed)
			}
			pendingName = fields[1]

		case strings.HasPrefix(trimmed, "letter-probability matrix:"):
			width, nsites, err := parseMatrixHeader(trimmed)
			if err != nil {
				return nil, err
			}
			rows := make([][AlphabetSize]float64, 0, width)
			for len(rows) < width {
				if !sc.Scan() {
					return nil, errs.New(errs.Format, "motif %q: expected %d rows, got %d", pendingName, width, len(rows))
				}
				row, err := parseRow(sc.Text())
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
			motifs = append(motifs, Motif{Name: pendingName, NSites: nsites, Rows: rows})
			pendingName = ""
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.New(errs.IO, "reading motif stream: %v", err)
	}
	return motifs, nil
}

// ReadBackground parses a background-only MEME file (or the background
// section of a full motif file), returning the ACGT background array.
// It rejects any component that is not strictly positive, or whose sum
// deviates from 1.0 by more than backgroundSumTolerance.
func ReadBackground(r io.Reader) ([AlphabetSize]float64, error) {
	var bg [AlphabetSize]float64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		trimmed := strings.TrimSpace(sc.Text())
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "Background letter frequencies") {
			if !sc.Scan() {
				return bg, errs.New(errs.Format, "missing background frequency line")
			}
			return parseBackgroundLine(sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return bg, errs.New(errs.IO, "reading background stream: %v", err)
	}
	return bg, errs.New(errs.Format, "no \"Background letter frequencies\" section found")
}

func parseBackgroundLine(line string) ([AlphabetSize]float64, error) {
	var bg [AlphabetSize]float64
	fields := strings.Fields(line)
	if len(fields) != 2*AlphabetSize {
		return bg, errs.New(errs.Format, "malformed background line: %q", line)
	}
	sum := 0.0
	for i := 0; i < len(fields); i += 2 {
		letter := strings.ToUpper(fields[i])
		if len(letter) != 1 {
			return bg, errs.New(errs.Format, "malformed background letter: %q", fields[i])
		}
		idx := BaseIndex(letter[0])
		if idx == Unscorable {
			return bg, errs.New(errs.Format, "unsupported background letter: %q", fields[i])
		}
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return bg, errs.New(errs.Format, "malformed background value: %q", fields[i+1])
		}
		if v <= 0 {
			return bg, errs.New(errs.Format, "background letter %s must be positive, got %v", fields[i], v)
		}
		bg[idx] = v
		sum += v
	}
	if math.Abs(sum-1.0) > backgroundSumTolerance {
		return bg, errs.New(errs.Format, "background frequencies sum to %v, want ~1.0", sum)
	}
	return bg, nil
}

// headerValue looks up the value following a "key=" token in fields,
// accepting both "key=value" (attached) and "key= value" (spaced) forms
// as MEME writers use either.
func headerValue(fields []string, key string) (string, bool) {
	prefix := key + "="
	for i, f := range fields {
		if f == prefix {
			if i+1 < len(fields) {
				return fields[i+1], true
			}
			return "", false
		}
		if strings.HasPrefix(f, prefix) {
			return strings.TrimPrefix(f, prefix), true
		}
	}
	return "", false
}

func parseMatrixHeader(line string) (width, nsites int, err error) {
	fields := strings.Fields(line)

	alengthStr, ok := headerValue(fields, "alength")
	if !ok {
		return 0, 0, errs.New(errs.Format, "letter-probability matrix header missing alength=: %q", line)
	}
	alength, err := strconv.Atoi(alengthStr)
	if err != nil {
		return 0, 0, errs.New(errs.Format, "malformed alength value in %q", line)
	}
	if alength != AlphabetSize {
		return 0, 0, errs.New(errs.UnsupportedAlphabet, "unsupported alength=%d, only alength=4 (ACGT) is supported", alength)
	}

	widthStr, ok := headerValue(fields, "w")
	if !ok {
		return 0, 0, errs.New(errs.Format, "letter-probability matrix header missing w=: %q", line)
	}
	width, err = strconv.Atoi(widthStr)
	if err != nil || width <= 0 {
		return 0, 0, errs.New(errs.Format, "invalid motif width in %q", line)
	}

	nsites = 1
	if nsitesStr, ok := headerValue(fields, "nsites"); ok {
		if n, err := strconv.Atoi(nsitesStr); err == nil && n > 0 {
			nsites = n
		}
	}
	return width, nsites, nil
}

func parseRow(line string) ([AlphabetSize]float64, error) {
	var row [AlphabetSize]float64
	fields := strings.Fields(line)
	if len(fields) < AlphabetSize {
		return row, errs.New(errs.Format, "malformed matrix row: %q", line)
	}
	for i := 0; i < AlphabetSize; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || v < 0 {
			return row, errs.New(errs.Format, "malformed matrix value: %q", fields[i])
		}
		row[i] = v
	}
	return row, nil
}
