// Package offtarget finds near-matches of guide sequences in a target pool
// and grades the cutting risk each one carries.
package offtarget

import (
	"fmt"
	"strings"
)

// Tier is an ordered risk grade; higher is worse.
type Tier int

const (
	Low Tier = iota
	Moderate
	High
	Exact
)

var tierNames = [...]string{"low", "moderate", "high", "exact-duplicate"}

func (t Tier) String() string {
	if t < Low || t > Exact {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Label is the human-readable form used in reports.
func (t Tier) Label() string { return strings.ReplaceAll(t.String(), "-", " ") }

// ParseTier accepts the names printed by String plus a few spellings seen in
// hand-written configs ("exact", "exact duplicate", "clean").
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "clean":
		return Low, nil
	case "moderate", "medium":
		return Moderate, nil
	case "high":
		return High, nil
	case "exact", "exact-duplicate", "exact duplicate", "exact_duplicate":
		return Exact, nil
	}
	return Low, fmt.Errorf("unknown risk tier %q (want low|moderate|high|exact)", s)
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Classify grades one hit. 0 mismatches is an exact duplicate, 1-2 is high
// unless a mismatch falls in the PAM-proximal seed (then moderate), 3 is
// moderate, anything looser is low.
func Classify(mm int, idx []int, guideLen int, opt Options) Tier {
	switch {
	case mm == 0:
		return Exact
	case mm <= 2:
		if inSeed(idx, guideLen, opt) {
			return Moderate
		}
		return High
	case mm == 3:
		return Moderate
	}
	return Low
}

func inSeed(idx []int, guideLen int, opt Options) bool {
	if opt.SeedLength <= 0 {
		return false
	}
	lo, hi := 0, opt.SeedLength
	if opt.SeedAtThreePrime {
		lo, hi = guideLen-opt.SeedLength, guideLen
	}
	for _, j := range idx {
		if j >= lo && j < hi {
			return true
		}
	}
	return false
}

// Summarize returns the worst tier among hits; a candidate with no hits is Low ("clean").
func Summarize(hits []Hit) Tier {
	worst := Low
	for _, h := range hits {
		if h.Tier > worst {
			worst = h.Tier
		}
	}
	return worst
}

// AggregateScore condenses hits into 0-100: each hit adds 2^-mm, scaled by 20.
func AggregateScore(hits []Hit) float64 {
	var s float64
	for _, h := range hits {
		s += 1 / float64(uint(1)<<uint(h.Mismatches))
	}
	s *= 20
	if s > 100 {
		return 100
	}
	return s
}
