// Package summary reports batch-level statistics over designed guides.
package summary

import (
	"fmt"
	"io"
	"sort"

	"github.com/montanaflynn/stats"

	"grna/core/design"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/pkg/api"
)

// Build summarizes results: outcome counts, efficiency distribution, and
// candidate counts per efficiency band and risk tier.
func Build(runID string, results []design.Result) (api.SummaryV1, error) {
	s := design.Summarize(results)
	out := api.SummaryV1{
		RunID:      runID,
		Sequences:  s.Total,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Canceled:   s.Canceled,
		Candidates: s.Candidates,
	}
	if s.Candidates == 0 {
		return out, nil
	}
	effs := make(stats.Float64Data, 0, s.Candidates)
	out.Bands = map[string]int{}
	out.Risks = map[string]int{}
	for _, r := range results {
		for _, c := range r.Candidates {
			effs = append(effs, c.Efficiency())
			out.Bands[score.Band(c.Efficiency())]++
			out.Risks[c.Risk.String()]++
		}
	}
	st, err := describe(effs)
	if err != nil {
		return out, err
	}
	out.Efficiency = &st
	return out, nil
}

func describe(data stats.Float64Data) (api.StatsV1, error) {
	var st api.StatsV1
	var err error
	if st.Min, err = stats.Min(data); err != nil {
		return st, err
	}
	if st.Max, err = stats.Max(data); err != nil {
		return st, err
	}
	if st.Mean, err = stats.Mean(data); err != nil {
		return st, err
	}
	if st.Median, err = stats.Median(data); err != nil {
		return st, err
	}
	if st.StdDev, err = stats.StandardDeviation(data); err != nil {
		return st, err
	}
	// quartiles of a single value are the value itself
	if data.Len() < 2 {
		st.Q1, st.Q3 = st.Median, st.Median
		return st, nil
	}
	q, err := stats.Quartile(data)
	if err != nil {
		return st, err
	}
	st.Q1, st.Q3 = q.Q1, q.Q3
	return st, nil
}

// Write prints s as a short human-readable report.
func Write(w io.Writer, s api.SummaryV1) error {
	var err error
	p := func(format string, a ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, a...)
		}
	}
	if s.RunID != "" {
		p("run %s\n", s.RunID)
	}
	p("sequences: %d (succeeded %d, failed %d, canceled %d)\n", s.Sequences, s.Succeeded, s.Failed, s.Canceled)
	p("candidates: %d\n", s.Candidates)
	if e := s.Efficiency; e != nil {
		p("efficiency: min %.3f  q1 %.3f  median %.3f  mean %.3f  q3 %.3f  max %.3f  sd %.3f\n",
			e.Min, e.Q1, e.Median, e.Mean, e.Q3, e.Max, e.StdDev)
	}
	if len(s.Bands) > 0 {
		p("bands:")
		for _, b := range []string{"high", "medium", "low"} {
			p(" %s=%d", b, s.Bands[b])
		}
		p("\n")
	}
	if len(s.Risks) > 0 {
		names := make([]string, 0, len(s.Risks))
		for k := range s.Risks {
			names = append(names, k)
		}
		sort.Slice(names, func(i, j int) bool { return tierRank(names[i]) > tierRank(names[j]) })
		p("risk:")
		for _, k := range names {
			p(" %s=%d", k, s.Risks[k])
		}
		p("\n")
	}
	return err
}

func tierRank(name string) int {
	t, err := offtarget.ParseTier(name)
	if err != nil {
		return -1
	}
	return int(t)
}
