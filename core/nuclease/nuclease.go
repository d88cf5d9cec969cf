// Package nuclease holds the PAM and guide geometry of the supported CRISPR systems.
package nuclease

import (
	"fmt"

	"grna/core/iupac"
	"grna/core/sequence"
)

// PAMSide says where the PAM sits relative to the protospacer on the guide's strand.
type PAMSide int

const (
	ThreePrime PAMSide = iota // PAM follows the protospacer (Cas9)
	FivePrime                 // PAM precedes the protospacer (Cas12a)
)

func (s PAMSide) String() string {
	if s == FivePrime {
		return "5'"
	}
	return "3'"
}

// System is immutable configuration for one nuclease.
type System struct {
	Name        string
	PAM         string
	Pattern     iupac.Pattern
	GuideLen    int
	MinGuideLen int
	MaxGuideLen int
	Side        PAMSide
	// CutOffset is the cut position counted from the PAM-proximal end of the guide.
	CutOffset   int
	Aliases     []string
	Description string
}

// PAMLen is the number of PAM symbols.
func (s System) PAMLen() int { return len(s.Pattern) }

// MinSequenceLength is the shortest input able to hold one guide and its PAM.
func (s System) MinSequenceLength() int { return s.GuideLen + s.PAMLen() }

// WithGuideLength returns a copy using guide length n.
func (s System) WithGuideLength(n int) (System, error) {
	if n < s.MinGuideLen || n > s.MaxGuideLen {
		if s.MinGuideLen == s.MaxGuideLen {
			return s, fmt.Errorf("%s: guide length must be %d, got %d", s.Name, s.GuideLen, n)
		}
		return s, fmt.Errorf("%s: guide length must be within %d-%d, got %d", s.Name, s.MinGuideLen, s.MaxGuideLen, n)
	}
	s.GuideLen = n
	return s, nil
}

// GuideSpan returns the forward-strand [start,end) of the guide that belongs to
// a PAM occupying forward coordinates [pamStart, pamStart+PAMLen) on strand.
// The span may fall outside the sequence; callers bound-check.
//
// On the minus strand the reading direction flips, so a 3' PAM sits to the
// left of its guide in forward coordinates.
func (s System) GuideSpan(pamStart int, strand sequence.Strand) (start, end int) {
	downstream := (s.Side == ThreePrime) == (strand == sequence.Plus)
	if downstream {
		// guide lies to the left of the PAM
		return pamStart - s.GuideLen, pamStart
	}
	start = pamStart + s.PAMLen()
	return start, start + s.GuideLen
}

// PAMStart is the inverse of GuideSpan: the PAM start for a guide at [start, start+GuideLen).
func (s System) PAMStart(guideStart int, strand sequence.Strand) int {
	if (s.Side == ThreePrime) == (strand == sequence.Plus) {
		return guideStart + s.GuideLen
	}
	return guideStart - s.PAMLen()
}

// CutSite returns the forward-strand boundary index of the break (between
// bases CutSite-1 and CutSite) for a guide spanning [start,end) on strand.
func (s System) CutSite(start, end int, strand sequence.Strand) int {
	// index within the guide as read 5'->3'
	idx := s.CutOffset
	if s.Side == ThreePrime {
		idx = s.GuideLen - s.CutOffset
	}
	if strand == sequence.Plus {
		return start + idx
	}
	return end - idx
}

// SeedAtThreePrime reports whether the PAM-proximal seed lies at the guide's 3' end.
func (s System) SeedAtThreePrime() bool { return s.Side == ThreePrime }

func (s System) String() string { return fmt.Sprintf("%s (%s)", s.Name, s.PAM) }
