// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bedregion parses the 3-column subset of BED that
// motif-liquidator's BAM driver consumes for region-filtered scans. It
// is an interface-only collaborator per spec.md §1: full BED parsing
// (scores, strand, blocks) is out of scope.
package bedregion

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
	"github.com/jdimatteo/motif-liquidator/errs"
)

// Region is a half-open, 0-based genomic interval parsed from BED
// columns 1-3 (chrom, start, end). Other columns are ignored.
type Region struct {
	Chrom string
	Start int
	End   int
}

// String renders the region as "chrom:start-end", the label the BAM
// driver uses for reads fetched from it.
func (r Region) String() string {
	return r.Chrom + ":" + strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// regionRange adapts a Region into github.com/biogo/store/interval's
// IntInterface so duplicate BED lines against the same chromosome can
// be collapsed before an index fetch is issued.
type regionRange struct {
	id          uintptr
	start, end  int
}

func (r *regionRange) Overlap(b interval.IntRange) bool {
	return r.end > b.Start && r.start < b.End
}
func (r *regionRange) ID() uintptr { return r.id }
func (r *regionRange) Range() interval.IntRange {
	return interval.IntRange{Start: r.start, End: r.end}
}

// exactQuery is used to detect duplicate BED lines. Its Overlap accepts
// any range that contains the query, so the tree's subtree-range
// pruning never skips a node holding an identical interval; the
// DoMatching callback in Parse then checks for exact equality.
type exactQuery struct {
	start, end int
}

func (q exactQuery) Overlap(b interval.IntRange) bool {
	return b.Start <= q.start && q.end <= b.End
}

// Parse reads whitespace-separated BED lines from r, returning one
// Region per non-blank, non-comment, non-track-line. Duplicate regions
// on the same chromosome are collapsed.
func Parse(r io.Reader) ([]Region, error) {
	sc := bufio.NewScanner(r)
	byChrom := make(map[string]*interval.IntTree)
	var regions []Region
	var nextID uintptr

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errs.New(errs.Format, "malformed BED line: %q", line)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.New(errs.Format, "malformed BED start: %q", fields[1])
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errs.New(errs.Format, "malformed BED end: %q", fields[2])
		}
		if end < start {
			return nil, errs.New(errs.Format, "BED end %d before start %d", end, start)
		}

		chrom := fields[0]
		t, ok := byChrom[chrom]
		if !ok {
			t = &interval.IntTree{}
			byChrom[chrom] = t
		}

		duplicate := false
		t.DoMatching(func(iv interval.IntInterface) (done bool) {
			r := iv.Range()
			if r.Start == start && r.End == end {
				duplicate = true
				return true
			}
			return false
		}, exactQuery{start, end})
		if duplicate {
			continue
		}

		if err := t.Insert(&regionRange{id: nextID, start: start, end: end}, false); err != nil {
			return nil, errs.New(errs.Format, "inserting BED region %s:%d-%d: %v", chrom, start, end, err)
		}
		nextID++
		regions = append(regions, Region{Chrom: chrom, Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, errs.New(errs.IO, "reading BED stream: %v", err)
	}
	for _, t := range byChrom {
		t.AdjustRanges()
	}
	return regions, nil
}
