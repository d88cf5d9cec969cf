// Package design runs the full pipeline for one sequence or a batch:
// PAM scan, guide extraction, scoring, off-target search, filter and rank.
package design

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/core/sequence"
)

// DefaultMaxBatch is the largest batch ProcessBatch accepts by default.
const DefaultMaxBatch = 100

// PoolMode picks the off-target pool for each batch item.
type PoolMode string

const (
	PoolOthers PoolMode = "others" // every other normalized sequence in the batch
	PoolAll    PoolMode = "all"    // the whole batch, the item itself included
	PoolSelf   PoolMode = "self"   // the item alone
)

// Options configure a Designer.
type Options struct {
	System string
	// GuideLength overrides the system default (0 = default).
	GuideLength    int
	Filters        Filters
	OffTarget      offtarget.Options
	RequirePAM     bool
	Score          score.Config
	AllowAmbiguous string
	PoolMode       PoolMode
	Threads        int
	MaxBatch       int
	UseIndex       bool
}

// DefaultOptions designs SpCas9 guides with no filtering.
func DefaultOptions() Options {
	return Options{
		System:    nuclease.SpCas9.Name,
		Filters:   DefaultFilters(),
		OffTarget: offtarget.Options{MaxMismatches: 3, SeedLength: 12},
		Score:     score.DefaultConfig(),
		PoolMode:  PoolOthers,
		MaxBatch:  DefaultMaxBatch,
		UseIndex:  true,
	}
}

// Designer is safe for concurrent use once built.
type Designer struct {
	opts   Options
	sys    nuclease.System
	scorer *score.Scorer
	ot     offtarget.Options
}

// New resolves the system and validates every option.
func New(opts Options) (*Designer, error) {
	sys, err := nuclease.Lookup(opts.System)
	if err != nil {
		return nil, err
	}
	if opts.GuideLength > 0 {
		if sys, err = sys.WithGuideLength(opts.GuideLength); err != nil {
			return nil, err
		}
	}
	if err := opts.Filters.Validate(); err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}
	if err := opts.OffTarget.Validate(); err != nil {
		return nil, err
	}
	switch opts.PoolMode {
	case "":
		opts.PoolMode = PoolOthers
	case PoolOthers, PoolAll, PoolSelf:
	default:
		return nil, fmt.Errorf("unknown off-target pool %q (want others|all|self)", opts.PoolMode)
	}
	if opts.MaxBatch < 0 {
		return nil, errors.New("max batch size must be ≥ 0")
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.GOMAXPROCS(0)
	}
	scorer, err := score.New(opts.Score)
	if err != nil {
		return nil, err
	}
	if sys.Side == nuclease.FivePrime {
		scorer = scorer.ForFivePrimePAM()
	}
	ot := opts.OffTarget
	ot.SeedAtThreePrime = sys.SeedAtThreePrime()
	if opts.RequirePAM {
		ot.RequirePAM = &sys
	}
	return &Designer{opts: opts, sys: sys, scorer: scorer, ot: ot}, nil
}

func (d *Designer) System() nuclease.System { return d.sys }

func (d *Designer) Options() Options { return d.opts }

// Normalize validates raw for this designer's system and names it id.
func (d *Designer) Normalize(raw, id string) (sequence.Sequence, error) {
	s, err := sequence.Normalize(raw, sequence.Options{
		MinLength:      d.sys.MinSequenceLength(),
		AllowAmbiguous: d.opts.AllowAmbiguous,
	})
	if err != nil {
		return s, err
	}
	s.ID = id
	return s, nil
}

// Score fills c.Scores.
func (d *Designer) Score(c *guide.Candidate) error {
	b, err := d.scorer.Score(c.Guide, d.sys.GuideLen)
	if err != nil {
		return err
	}
	c.Scores = b
	return nil
}

// Candidates extracts and scores every guide of seq, in scan order.
func (d *Designer) Candidates(seq sequence.Sequence) ([]guide.Candidate, error) {
	cands := guide.ExtractAll(seq, d.sys)
	for i := range cands {
		if err := d.Score(&cands[i]); err != nil {
			return nil, err
		}
	}
	return cands, nil
}

// Design runs the whole pipeline for seq with pool as the off-target pool
// and returns the ranked survivors. The first pool entry equal to seq (same
// ID and residues) is taken as its origin; use DesignAt when the pool may
// hold identical copies.
func (d *Designer) Design(seq sequence.Sequence, pool []sequence.Sequence) ([]guide.Candidate, error) {
	return d.DesignAt(seq, pool, slices.Index(pool, seq))
}

// DesignAt is Design with the origin given as pool[self]; self < 0 means seq
// is not in the pool and every exact hit is reported.
func (d *Designer) DesignAt(seq sequence.Sequence, pool []sequence.Sequence, self int) ([]guide.Candidate, error) {
	cands, err := d.Candidates(seq)
	if err != nil {
		return nil, err
	}
	// cheap thresholds first; off-target search is the expensive step
	kept := cands[:0]
	for _, c := range cands {
		if d.opts.Filters.acceptOnTarget(c) {
			kept = append(kept, c)
		}
	}
	d.OffTargets(kept, pool, self)
	return Select(kept, d.opts.Filters), nil
}

// OffTargets searches pool for every candidate and fills OffTargets, Risk
// and OffTargetScore in place. pool[self] is the candidates' own sequence
// (self < 0 when it is not in the pool).
func (d *Designer) OffTargets(cands []guide.Candidate, pool []sequence.Sequence, self int) {
	if len(cands) == 0 {
		return
	}
	if d.opts.UseIndex && len(cands) > 1 {
		queries := make([]offtarget.Query, len(cands))
		for i, c := range cands {
			queries[i] = offtarget.Query{ID: c.ID, Guide: c.Guide, Origin: c.Origin(self)}
		}
		hits := offtarget.NewIndex(queries, d.ot).Search(pool)
		for i := range cands {
			setOffTargets(&cands[i], hits[cands[i].ID])
		}
		return
	}
	for i := range cands {
		setOffTargets(&cands[i], d.search(cands[i], pool, self, d.ot))
	}
}

func (d *Designer) search(c guide.Candidate, pool []sequence.Sequence, self int, opt offtarget.Options) []offtarget.Hit {
	hits := offtarget.Search(c.Guide, c.Origin(self), pool, opt)
	for i := range hits {
		hits[i].CandidateID = c.ID
	}
	return hits
}

func setOffTargets(c *guide.Candidate, hits []offtarget.Hit) {
	c.OffTargets = hits
	c.Risk = offtarget.Summarize(hits)
	c.OffTargetScore = offtarget.AggregateScore(hits)
}
