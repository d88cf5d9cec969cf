package design

import (
	"context"
	"slices"

	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/core/sequence"
)

// Normalize validates raw text. With a system, the sequence must also be long
// enough to hold one guide and its PAM.
func Normalize(raw string, sys *nuclease.System) (sequence.Sequence, error) {
	var opt sequence.Options
	if sys != nil {
		opt.MinLength = sys.MinSequenceLength()
	}
	return sequence.Normalize(raw, opt)
}

// DesignGuides designs guides for a single sequence, searching the sequence
// itself for off-targets.
func DesignGuides(seq sequence.Sequence, systemName string, filters Filters) ([]guide.Candidate, error) {
	opts := DefaultOptions()
	opts.System = systemName
	opts.Filters = filters
	opts.PoolMode = PoolSelf
	d, err := New(opts)
	if err != nil {
		return nil, err
	}
	if seq.ID == "" {
		seq.ID = EntryName(Entry{}, 0)
	}
	return d.Design(seq, []sequence.Sequence{seq})
}

// ScoreCandidate recomputes c's scores under the default calibration for its
// system. The guide length must be one the system allows.
func ScoreCandidate(c guide.Candidate) (guide.Candidate, error) {
	sys, err := nuclease.Lookup(c.System)
	if err != nil {
		return c, err
	}
	if _, err := sys.WithGuideLength(len(c.Guide)); err != nil {
		return c, &score.LengthMismatchError{Guide: c.Guide, Want: sys.GuideLen}
	}
	scorer := score.Default()
	if sys.Side == nuclease.FivePrime {
		scorer = scorer.ForFivePrimePAM()
	}
	b, err := scorer.Score(c.Guide, len(c.Guide))
	if err != nil {
		return c, err
	}
	c.Scores = b
	c.GC = sequence.GCFraction(c.Guide)
	return c, nil
}

// FindOffTargets searches pool for c within maxMismatches, both strands.
// The first pool sequence named c.SequenceID is taken as the candidate's
// own sequence, and only the exact hit at c's locus in it is left out.
func FindOffTargets(c guide.Candidate, pool []sequence.Sequence, maxMismatches int) ([]offtarget.Hit, error) {
	opt := offtarget.Options{MaxMismatches: maxMismatches, SeedLength: 12, SeedAtThreePrime: true}
	if sys, err := nuclease.Lookup(c.System); err == nil {
		opt.SeedAtThreePrime = sys.SeedAtThreePrime()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	self := -1
	if c.SequenceID != "" {
		self = slices.IndexFunc(pool, func(s sequence.Sequence) bool { return s.ID == c.SequenceID })
	}
	hits := offtarget.Search(c.Guide, c.Origin(self), pool, opt)
	for i := range hits {
		hits[i].CandidateID = c.ID
	}
	return hits, nil
}

// ProcessBatch runs a batch with default options for systemName and filters.
func ProcessBatch(ctx context.Context, entries []Entry, systemName string, filters Filters) ([]Result, error) {
	opts := DefaultOptions()
	opts.System = systemName
	opts.Filters = filters
	d, err := New(opts)
	if err != nil {
		return nil, err
	}
	return d.ProcessBatch(ctx, entries, nil)
}
