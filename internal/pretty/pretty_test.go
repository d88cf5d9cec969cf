package pretty

import (
	"testing"

	"grna/core/guide"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/core/sequence"
)

func TestMatchLine(t *testing.T) {
	if got := MatchLine(6, []int{1, 4}, "|", "."); got != "|.||.|" {
		t.Fatalf("MatchLine = %q", got)
	}
	if got := MatchLine(0, nil, "|", "."); got != "" {
		t.Fatalf("empty MatchLine = %q", got)
	}
}

func TestRenderCandidate(t *testing.T) {
	c := guide.Candidate{
		ID: "s1:3:+", Guide: "CGGTACCTGG", PAM: "TGG", CutSite: 10,
		Scores: score.Breakdown{Composite: 0.75},
		Risk:   offtarget.High,
		OffTargets: []offtarget.Hit{
			{TargetID: "s2", Start: 40, Strand: sequence.Minus, Mismatches: 1, MismatchIdx: []int{8}, Site: "CGGTACCTAG", Tier: offtarget.High},
		},
	}
	want := "" +
		"# s1:3:+  CGGTACCTGG TGG  cut 10  efficiency 0.750 (high)  risk high\n" +
		"# 5'-CGGTACCTGG-3' TGG\n" +
		"#    ||||||||.|\n" +
		"# 5'-CGGTACCTAG-3' s2:40:- mm=1 high\n" +
		"\n"
	if got := RenderCandidate(c, DefaultOptions); got != want {
		t.Fatalf("mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderCandidateClean(t *testing.T) {
	c := guide.Candidate{ID: "x:0:+", Guide: "ACGT", PAM: "AGG"}
	want := "" +
		"# x:0:+  ACGT AGG  cut 0  efficiency 0.000 (low)  risk low\n" +
		"# 5'-ACGT-3' AGG\n" +
		"# (no off-targets)\n\n"
	if got := RenderCandidate(c, Options{}); got != want {
		t.Fatalf("mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderCandidateCapsHits(t *testing.T) {
	hits := make([]offtarget.Hit, 4)
	for i := range hits {
		hits[i] = offtarget.Hit{TargetID: "t", Start: i, Strand: sequence.Plus, Site: "ACGT"}
	}
	c := guide.Candidate{ID: "x:0:+", Guide: "ACGT", PAM: "AGG", OffTargets: hits}
	got := RenderCandidate(c, Options{MaxHits: 2})
	want := "" +
		"# x:0:+  ACGT AGG  cut 0  efficiency 0.000 (low)  risk low\n" +
		"# 5'-ACGT-3' AGG\n" +
		"#    ||||\n" +
		"# 5'-ACGT-3' t:0:+ mm=0 low\n" +
		"#    ||||\n" +
		"# 5'-ACGT-3' t:1:+ mm=0 low\n" +
		"# ... 2 more\n" +
		"\n"
	if got != want {
		t.Fatalf("mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}
