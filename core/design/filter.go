package design

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"grna/core/guide"
	"grna/core/offtarget"
	"grna/core/sequence"
)

// Filters are user thresholds applied after scoring and off-target search.
type Filters struct {
	MinScore float64
	GCMin    float64
	GCMax    float64
	MaxRisk  offtarget.Tier
	// Limit keeps the top N ranked candidates (0 = all).
	Limit int
}

// DefaultFilters accept every candidate.
func DefaultFilters() Filters {
	return Filters{GCMin: 0, GCMax: 1, MaxRisk: offtarget.Exact}
}

func (f Filters) Validate() error {
	var errs []error
	if f.MinScore < 0 || f.MinScore > 1 {
		errs = append(errs, fmt.Errorf("min-score %g outside [0,1]", f.MinScore))
	}
	if f.GCMin < 0 || f.GCMax > 1 || f.GCMin > f.GCMax {
		errs = append(errs, fmt.Errorf("gc range must satisfy 0 ≤ min ≤ max ≤ 1, got [%g, %g]", f.GCMin, f.GCMax))
	}
	if f.MaxRisk < offtarget.Low || f.MaxRisk > offtarget.Exact {
		errs = append(errs, fmt.Errorf("invalid max-risk %v", f.MaxRisk))
	}
	if f.Limit < 0 {
		errs = append(errs, errors.New("limit must be ≥ 0"))
	}
	return errors.Join(errs...)
}

// Accept reports whether c passes every threshold.
func (f Filters) Accept(c guide.Candidate) bool {
	return f.acceptOnTarget(c) && c.Risk <= f.MaxRisk
}

func (f Filters) acceptOnTarget(c guide.Candidate) bool {
	return c.Scores.Composite >= f.MinScore && c.GC >= f.GCMin && c.GC <= f.GCMax
}

// Apply keeps the candidates f accepts, preserving order.
func Apply(cands []guide.Candidate, f Filters) []guide.Candidate {
	out := make([]guide.Candidate, 0, len(cands))
	for _, c := range cands {
		if f.Accept(c) {
			out = append(out, c)
		}
	}
	return out
}

// Rank sorts in place: composite descending, then start ascending, then + before -.
func Rank(cands []guide.Candidate) []guide.Candidate {
	slices.SortStableFunc(cands, func(a, b guide.Candidate) int {
		if c := cmp.Compare(b.Scores.Composite, a.Scores.Composite); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(strandRank(a.Strand), strandRank(b.Strand))
	})
	return cands
}

// Select filters, ranks and truncates to f.Limit.
func Select(cands []guide.Candidate, f Filters) []guide.Candidate {
	out := Rank(Apply(cands, f))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func strandRank(s sequence.Strand) int {
	if s == sequence.Minus {
		return 1
	}
	return 0
}
