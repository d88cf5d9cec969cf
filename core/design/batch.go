package design

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"grna/core/guide"
	"grna/core/sequence"
)

// Entry is one raw batch input. An empty Name becomes "Sequence_<n>" (1-based).
type Entry struct {
	Name string
	Raw  string
}

// Status of one batch item.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Result is the outcome for the entry at Index.
type Result struct {
	Index      int
	Name       string
	Sequence   sequence.Sequence
	Candidates []guide.Candidate
	Status     Status
	Err        error
}

// Progress receives the number of finished items. It may be called from
// several goroutines; each done value in 1..total is reported once.
type Progress func(done, total int)

// ErrBatchTooLarge is matched by *BatchTooLargeError.
var ErrBatchTooLarge = errors.New("batch too large")

type BatchTooLargeError struct {
	Size int
	Max  int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch of %d sequences exceeds the limit of %d", e.Size, e.Max)
}

func (e *BatchTooLargeError) Is(target error) bool { return target == ErrBatchTooLarge }

// EntryName is the display name for entry i.
func EntryName(e Entry, i int) string {
	if n := strings.TrimSpace(e.Name); n != "" {
		return n
	}
	return fmt.Sprintf("Sequence_%d", i+1)
}

// ProcessBatch designs guides for every entry. A bad entry is recorded as a
// failed Result and never stops the rest; results keep input order. On
// cancellation unstarted items are left as canceled and ctx.Err() is returned
// alongside the partial results.
func (d *Designer) ProcessBatch(ctx context.Context, entries []Entry, progress Progress) ([]Result, error) {
	if d.opts.MaxBatch > 0 && len(entries) > d.opts.MaxBatch {
		return nil, &BatchTooLargeError{Size: len(entries), Max: d.opts.MaxBatch}
	}
	total := len(entries)
	results := make([]Result, total)
	var ok []int
	var done atomic.Int64
	for i, e := range entries {
		r := Result{Index: i, Name: EntryName(e, i), Status: StatusCanceled}
		s, err := d.Normalize(e.Raw, r.Name)
		if err != nil {
			r.Status, r.Err = StatusFailed, err
			n := done.Add(1)
			if progress != nil {
				progress(int(n), total)
			}
		} else {
			r.Sequence = s
			ok = append(ok, i)
		}
		results[i] = r
	}
	normalized := make([]sequence.Sequence, len(ok))
	for j, i := range ok {
		normalized[j] = results[i].Sequence
	}

	var g errgroup.Group
	g.SetLimit(d.opts.Threads)
	for j, i := range ok {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r := &results[i]
			pool, self := d.pool(normalized, j)
			cands, err := d.DesignAt(r.Sequence, pool, self)
			if err != nil {
				r.Status, r.Err = StatusFailed, err
			} else {
				r.Status, r.Candidates = StatusSucceeded, cands
			}
			n := done.Add(1)
			if progress != nil {
				progress(int(n), total)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

// pool returns the off-target pool for normalized[j] and the index of
// normalized[j] within it (-1 when left out).
func (d *Designer) pool(normalized []sequence.Sequence, j int) ([]sequence.Sequence, int) {
	switch d.opts.PoolMode {
	case PoolAll:
		return normalized, j
	case PoolSelf:
		return normalized[j : j+1], 0
	}
	out := make([]sequence.Sequence, 0, len(normalized)-1)
	out = append(out, normalized[:j]...)
	return append(out, normalized[j+1:]...), -1
}

// Summary counts batch outcomes.
type Summary struct {
	Total      int
	Succeeded  int
	Failed     int
	Canceled   int
	Candidates int
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusCanceled:
			s.Canceled++
		}
		s.Candidates += len(r.Candidates)
	}
	return s
}
