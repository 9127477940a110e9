// Copyright ©2016 The motif-liquidator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bamscan

import "fmt"

// printSummary emits the shutdown ratio lines described in spec §6,
// omitting the two lines that only make sense when both mapped and
// unmapped reads were eligible for scoring.
func (d *Driver) printSummary() {
	printPercent := func(upperLabel string, upper int, lowerLabel string, lower int) {
		pct := 0.0
		if lower != 0 {
			pct = 100 * float64(upper) / float64(lower)
		}
		fmt.Fprintf(d.stdout, "# (%s) / (%s) = %d/%d = %v%%\n", upperLabel, lowerLabel, upper, lower, pct)
	}

	printPercent("total hits", d.readHitCount, "total reads", d.readCount)
	if !d.unmappedOnly {
		printPercent("mapped hits", d.readHitCount-d.unmappedHitCount, "mapped reads", d.readCount-d.unmappedCount)
	}
	printPercent("unmapped hits", d.unmappedHitCount, "unmapped reads", d.unmappedCount)
	if !d.unmappedOnly {
		printPercent("unmapped hits", d.unmappedHitCount, "total hits", d.readHitCount)
	}
	printPercent("unmapped reads", d.unmappedCount, "total reads", d.readCount)

	avg := 0.0
	if d.readHitCount != 0 {
		avg = float64(d.totalHitCount) / float64(d.readHitCount)
	}
	fmt.Fprintf(d.stdout, "# total hits: %d (average hits per hit read = %v)\n", d.totalHitCount, avg)
}
