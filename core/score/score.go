package score

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"grna/core/sequence"
)

// Breakdown holds the four factor scores and their weighted composite, all in [0,1].
type Breakdown struct {
	GC                  float64 `json:"gc"`
	SelfComplementarity float64 `json:"self_complementarity"`
	Homopolymer         float64 `json:"homopolymer"`
	Position            float64 `json:"position"`
	Composite           float64 `json:"composite"`
}

// LengthMismatchError is returned when a guide does not have the system's length.
type LengthMismatchError struct {
	Guide string
	Want  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("guide %q has length %d, want %d", e.Guide, len(e.Guide), e.Want)
}

// Scorer applies a validated Config. It is safe for concurrent use.
type Scorer struct {
	cfg    Config
	normal distuv.Normal
	peak   float64

	// fivePrimePAM reads the position table PAM-proximal first from the 5' end.
	fivePrimePAM bool
}

// New validates cfg and returns a Scorer.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	s := &Scorer{cfg: cfg}
	if cfg.GC.Falloff == Gaussian {
		s.normal = distuv.Normal{Mu: 0, Sigma: cfg.GC.Sigma}
		s.peak = s.normal.Prob(0)
	}
	return s, nil
}

// Default is a Scorer on DefaultConfig.
func Default() *Scorer {
	s, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scorer) Config() Config { return s.cfg }

// ForFivePrimePAM returns a copy of s for systems whose PAM sits 5' of the
// guide (Cas12a). The position table is calibrated with the PAM-proximal
// end at its last position, so the copy reads it mirrored.
func (s *Scorer) ForFivePrimePAM() *Scorer {
	c := *s
	c.fivePrimePAM = true
	return &c
}

// Score computes all factors for guide. wantLen <= 0 skips the length check.
func (s *Scorer) Score(guide string, wantLen int) (Breakdown, error) {
	if wantLen > 0 && len(guide) != wantLen {
		return Breakdown{}, &LengthMismatchError{Guide: guide, Want: wantLen}
	}
	b := Breakdown{
		GC:                  s.GCScore(sequence.GCFraction(guide)),
		SelfComplementarity: s.SelfComplementarityScore(guide),
		Homopolymer:         s.HomopolymerScore(guide),
		Position:            s.PositionScore(guide),
	}
	b.Composite = s.Composite(b)
	return b, nil
}

// Composite is the weighted sum of the factor scores, clamped to [0,1].
func (s *Scorer) Composite(b Breakdown) float64 {
	w := s.cfg.Weights
	return clamp01(w.GC*b.GC + w.SelfComplementarity*b.SelfComplementarity +
		w.Homopolymer*b.Homopolymer + w.Position*b.Position)
}

// GCScore maps a GC fraction to [0,1]: 1 inside the band, decaying outside.
func (s *Scorer) GCScore(gc float64) float64 {
	p := s.cfg.GC
	var d float64 // distance outside the band
	switch {
	case gc < p.Low:
		d = p.Low - gc
	case gc > p.High:
		d = gc - p.High
	default:
		return 1
	}
	if p.Falloff == Gaussian {
		return clamp01(s.normal.Prob(d) / s.peak)
	}
	if gc < p.Low {
		return clamp01(gc / p.Low)
	}
	return clamp01((1 - gc) / (1 - p.High))
}

// SelfComplementarityScore penalizes hairpin potential: the longest stretch
// of the guide that also occurs in its own reverse complement.
func (s *Scorer) SelfComplementarityScore(guide string) float64 {
	p := s.cfg.SelfComplementarity
	return ramp(LongestSelfComplement(guide), p.Tolerated, p.Max)
}

// HomopolymerScore is the worst per-base run score; T runs use stricter limits.
func (s *Scorer) HomopolymerScore(guide string) float64 {
	p := s.cfg.Homopolymer
	runs := LongestRuns(guide)
	best := 1.0
	for _, b := range []byte("ACGT") {
		lo, hi := p.Tolerated, p.Max
		if b == 'T' {
			lo, hi = p.TTolerated, p.TMax
		}
		best = math.Min(best, ramp(runs[b], lo, hi))
	}
	return best
}

// PositionScore is the mean table weight over the positions the table covers.
// The table's last position is the base next to the PAM; guides longer than
// the table span are aligned on their PAM-proximal end.
func (s *Scorer) PositionScore(guide string) float64 {
	t := s.cfg.Position
	offset := 0
	if len(guide) > t.Span {
		offset = len(guide) - t.Span
	}
	var sum float64
	n := 0
	for pos := range t.Weights {
		i := offset + pos - 1
		if s.fivePrimePAM {
			i = t.Span - pos
		}
		if i < 0 || i >= len(guide) {
			continue
		}
		sum += t.weight(pos, guide[i])
		n++
	}
	if n == 0 {
		return 0.5
	}
	return clamp01(sum / float64(n))
}

// LongestSelfComplement returns the length of the longest substring of guide
// that also appears in its reverse complement (longest common substring, O(L²)).
func LongestSelfComplement(guide string) int {
	rc := sequence.RevComp(guide)
	n := len(guide)
	if n == 0 {
		return 0
	}
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	best := 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if guide[i-1] == rc[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// LongestRuns returns, per base, the longest run of that base in s.
func LongestRuns(s string) map[byte]int {
	runs := map[byte]int{'A': 0, 'C': 0, 'G': 0, 'T': 0}
	for i := 0; i < len(s); {
		j := i
		for j < len(s) && s[j] == s[i] {
			j++
		}
		if j-i > runs[s[i]] {
			runs[s[i]] = j - i
		}
		i = j
	}
	return runs
}

// Band buckets a composite score the way results are colour-coded.
func Band(composite float64) string {
	switch {
	case composite >= 0.7:
		return "high"
	case composite >= 0.5:
		return "medium"
	}
	return "low"
}

// ramp is 1 up to lo, 0 from hi, linear in between.
func ramp(x, lo, hi int) float64 {
	switch {
	case x <= lo:
		return 1
	case x >= hi:
		return 0
	}
	return 1 - float64(x-lo)/float64(hi-lo)
}

func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
