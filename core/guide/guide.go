// Package guide turns PAM hits into guide candidates.
package guide

import (
	"fmt"

	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/pam"
	"grna/core/score"
	"grna/core/sequence"
)

// Candidate is one guide with everything computed about it. Start/End/CutSite
// are forward-strand coordinates; Guide and PAM read 5'->3' on Strand.
type Candidate struct {
	ID         string
	SequenceID string
	System     string
	Start      int
	End        int
	Strand     sequence.Strand
	PAM        string
	Guide      string
	CutSite    int
	GC         float64

	Scores         score.Breakdown
	OffTargets     []offtarget.Hit
	Risk           offtarget.Tier
	OffTargetScore float64
}

// Efficiency is the composite on-target score.
func (c Candidate) Efficiency() float64 { return c.Scores.Composite }

// Origin locates the candidate for off-target self-exclusion; target is the
// pool index of the sequence it came from (-1 when not in the pool).
func (c Candidate) Origin(target int) offtarget.Origin {
	return offtarget.Origin{Target: target, Start: c.Start, Strand: c.Strand}
}

// FlankTooShortError reports a PAM without room for a full guide.
type FlankTooShortError struct {
	PAMStart int
	Strand   sequence.Strand
	Need     int
	Have     int
}

func (e *FlankTooShortError) Error() string {
	return fmt.Sprintf("PAM at %d (%s): flank holds %d of %d guide bases", e.PAMStart, e.Strand, e.Have, e.Need)
}

// CandidateID is "<sequence>:<start>:<strand>".
func CandidateID(seqID string, start int, strand sequence.Strand) string {
	return fmt.Sprintf("%s:%d:%s", seqID, start, strand)
}

// Extract slices the guide and PAM for hit out of seq. Minus-strand guides
// come back already reverse-complemented.
func Extract(seq sequence.Sequence, sys nuclease.System, hit pam.Hit) (Candidate, error) {
	n := seq.Len()
	gs, ge := hit.GuideStart, hit.GuideEnd
	if ge-gs != sys.GuideLen {
		gs, ge = sys.GuideSpan(hit.PAMStart, hit.Strand)
	}
	pe := hit.PAMStart + sys.PAMLen()
	if gs < 0 || ge > n || hit.PAMStart < 0 || pe > n {
		have := min(ge, n) - max(gs, 0)
		return Candidate{}, &FlankTooShortError{PAMStart: hit.PAMStart, Strand: hit.Strand, Need: sys.GuideLen, Have: max(have, 0)}
	}
	g, p := seq.Seq[gs:ge], seq.Seq[hit.PAMStart:pe]
	if hit.Strand == sequence.Minus {
		g, p = sequence.RevComp(g), sequence.RevComp(p)
	}
	return Candidate{
		ID:         CandidateID(seq.ID, gs, hit.Strand),
		SequenceID: seq.ID,
		System:     sys.Name,
		Start:      gs,
		End:        ge,
		Strand:     hit.Strand,
		PAM:        p,
		Guide:      g,
		CutSite:    sys.CutSite(gs, ge, hit.Strand),
		GC:         sequence.GCFraction(g),
	}, nil
}

// ExtractAll extracts a candidate for every hit pam.Scan yields, in scan order.
func ExtractAll(seq sequence.Sequence, sys nuclease.System) []Candidate {
	var out []Candidate
	for h := range pam.Scan(seq, sys) {
		c, err := Extract(seq, sys, h)
		if err != nil {
			continue // unreachable: Scan already bounds-checks
		}
		out = append(out, c)
	}
	return out
}
