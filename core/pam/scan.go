// Package pam locates protospacer-adjacent motifs on both strands.
package pam

import (
	"iter"

	"grna/core/nuclease"
	"grna/core/sequence"
)

// Hit is one PAM occurrence with room for a full-length guide.
// All coordinates are 0-based, half-open, on the forward strand.
type Hit struct {
	PAMStart   int
	PAMEnd     int
	Strand     sequence.Strand
	GuideStart int
	GuideEnd   int
}

// Scan yields every PAM hit for sys in seq, ordered by guide start; at equal
// start the plus-strand hit comes first. Hits whose guide would run off
// either end, or that overlap a non-ACGT base, are skipped.
//
// The returned sequence is lazy and can be ranged over any number of times.
func Scan(seq sequence.Sequence, sys nuclease.System) iter.Seq[Hit] {
	return func(yield func(Hit) bool) {
		fwd := []byte(seq.Seq)
		n := len(fwd)
		g, p := sys.GuideLen, sys.PAMLen()
		if g <= 0 || p == 0 || n < g+p {
			return
		}
		rc := sequence.RevCompBytes(fwd)
		clean := cleanPrefix(fwd)

		for start := 0; start+g <= n; start++ {
			if clean[start+g]-clean[start] != g {
				continue
			}
			for _, strand := range [...]sequence.Strand{sequence.Plus, sequence.Minus} {
				ps := sys.PAMStart(start, strand)
				if ps < 0 || ps+p > n {
					continue
				}
				var window []byte
				if strand == sequence.Plus {
					window = fwd[ps : ps+p]
				} else {
					// forward [ps, ps+p) is rc [n-ps-p, n-ps)
					window = rc[n-ps-p : n-ps]
				}
				if !sys.Pattern.Match(window) {
					continue
				}
				h := Hit{PAMStart: ps, PAMEnd: ps + p, Strand: strand, GuideStart: start, GuideEnd: start + g}
				if !yield(h) {
					return
				}
			}
		}
	}
}

// Collect drains Scan into a slice.
func Collect(seq sequence.Sequence, sys nuclease.System) []Hit {
	var out []Hit
	for h := range Scan(seq, sys) {
		out = append(out, h)
	}
	return out
}

// Count returns the number of hits without materializing them.
func Count(seq sequence.Sequence, sys nuclease.System) int {
	n := 0
	for range Scan(seq, sys) {
		n++
	}
	return n
}

// cleanPrefix[i] is the number of A/C/G/T bases in seq[:i].
func cleanPrefix(seq []byte) []int {
	out := make([]int, len(seq)+1)
	for i, b := range seq {
		out[i+1] = out[i]
		switch b {
		case 'A', 'C', 'G', 'T':
			out[i+1]++
		}
	}
	return out
}
