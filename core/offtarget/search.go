package offtarget

import (
	"errors"
	"fmt"
	"slices"

	"grna/core/nuclease"
	"grna/core/sequence"
)

// Options tune the search. The zero value allows exact matches only and has no seed.
type Options struct {
	MaxMismatches int
	// SeedLength is the PAM-proximal region where 1-2 mismatches still count as moderate.
	SeedLength       int
	SeedAtThreePrime bool
	// RequirePAM, when set, drops hits without a valid PAM next to them on their strand.
	RequirePAM *nuclease.System
}

// DefaultOptions returns K=3 with a 12-nt seed placed for sys.
func DefaultOptions(sys nuclease.System) Options {
	return Options{MaxMismatches: 3, SeedLength: 12, SeedAtThreePrime: sys.SeedAtThreePrime()}
}

// MaxMismatchLimit bounds Options.MaxMismatches.
const MaxMismatchLimit = 8

func (o Options) Validate() error {
	if o.MaxMismatches < 0 || o.MaxMismatches > MaxMismatchLimit {
		return fmt.Errorf("offtarget: max mismatches must be within 0-%d", MaxMismatchLimit)
	}
	if o.SeedLength < 0 {
		return errors.New("offtarget: seed length must be ≥ 0")
	}
	return nil
}

// Origin is the locus a guide was designed from; an exact hit there is not an
// off-target. Target is the index of the originating sequence within the
// searched pool, or -1 when that sequence is not part of the pool. Sequence
// names are not used: pools may repeat them.
type Origin struct {
	Target int
	Start  int
	Strand sequence.Strand
}

// NoOrigin disables self-exclusion.
var NoOrigin = Origin{Target: -1, Start: -1}

// Hit is one near-match. Start is a forward-strand coordinate; MismatchIdx are
// 0-based guide positions (5'->3'); Site is the target read along the guide.
type Hit struct {
	CandidateID string          `json:"candidate_id"`
	TargetID    string          `json:"target_id"`
	Start       int             `json:"start"`
	Strand      sequence.Strand `json:"strand"`
	Mismatches  int             `json:"mismatches"`
	MismatchIdx []int           `json:"mismatch_idx,omitempty"`
	Site        string          `json:"site"`
	Tier        Tier            `json:"tier"`
}

// Search reports every window of every pool sequence within MaxMismatches of
// guide, on both strands, ordered by pool order, then start, then + before -.
func Search(guide string, origin Origin, pool []sequence.Sequence, opt Options) []Hit {
	q := newQuery(guide, origin, opt)
	if q.n == 0 {
		return nil
	}
	var out []Hit
	for ti, t := range pool {
		tb := []byte(t.Seq)
		for pos := 0; pos+q.n <= len(tb); pos++ {
			for _, strand := range strands {
				if h, ok := q.check(ti, t.ID, tb, pos, strand); ok {
					out = append(out, h)
				}
			}
		}
	}
	return out
}

var strands = [2]sequence.Strand{sequence.Plus, sequence.Minus}

type query struct {
	id     string
	guide  []byte
	rc     []byte
	n      int
	origin Origin
	opt    Options
	pam    *nuclease.System
}

func newQuery(guide string, origin Origin, opt Options) *query {
	q := &query{
		guide:  []byte(guide),
		rc:     sequence.RevCompBytes([]byte(guide)),
		n:      len(guide),
		origin: origin,
		opt:    opt,
	}
	if opt.RequirePAM != nil {
		sys := *opt.RequirePAM
		sys.GuideLen = q.n
		q.pam = &sys
	}
	return q
}

func (q *query) pattern(strand sequence.Strand) []byte {
	if strand == sequence.Minus {
		return q.rc
	}
	return q.guide
}

// check verifies the window at pos of pool[ti].
func (q *query) check(ti int, targetID string, tb []byte, pos int, strand sequence.Strand) (Hit, bool) {
	mm, idx, ok := verifyAt(tb, pos, q.pattern(strand), q.opt.MaxMismatches)
	if !ok {
		return Hit{}, false
	}
	return q.finish(ti, targetID, tb, pos, strand, mm, idx)
}

func (q *query) finish(ti int, targetID string, tb []byte, pos int, strand sequence.Strand, mm int, idx []int) (Hit, bool) {
	if mm == 0 && q.origin.Target >= 0 && ti == q.origin.Target && pos == q.origin.Start {
		return Hit{}, false
	}
	if q.pam != nil && !pamAdjacent(tb, pos, strand, *q.pam) {
		return Hit{}, false
	}
	site := tb[pos : pos+q.n]
	if strand == sequence.Minus {
		site = sequence.RevCompBytes(site)
		for i, j := range idx {
			idx[i] = q.n - 1 - j
		}
		slices.Reverse(idx)
	}
	return Hit{
		CandidateID: q.id,
		TargetID:    targetID,
		Start:       pos,
		Strand:      strand,
		Mismatches:  mm,
		MismatchIdx: idx,
		Site:        string(site),
		Tier:        Classify(mm, idx, q.n, q.opt),
	}, true
}

// verifyAt compares pat with seq[start:] allowing up to maxMM mismatches.
// Any non-ACGT target base counts as a mismatch.
func verifyAt(seq []byte, start int, pat []byte, maxMM int) (int, []int, bool) {
	n := len(pat)
	if start < 0 || start+n > len(seq) {
		return 0, nil, false
	}
	mm := 0
	var idx []int
	for j := 0; j < n; j++ {
		if seq[start+j] != pat[j] {
			mm++
			if mm > maxMM {
				return 0, nil, false
			}
			idx = append(idx, j)
		}
	}
	return mm, idx, true
}

func pamAdjacent(tb []byte, guideStart int, strand sequence.Strand, sys nuclease.System) bool {
	ps := sys.PAMStart(guideStart, strand)
	p := sys.PAMLen()
	if ps < 0 || ps+p > len(tb) {
		return false
	}
	w := tb[ps : ps+p]
	if strand == sequence.Minus {
		w = sequence.RevCompBytes(w)
	}
	return sys.Pattern.Match(w)
}
