package nuclease

import (
	"errors"
	"testing"

	"grna/core/sequence"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SpCas9", "SpCas9"},
		{"spcas9", "SpCas9"},
		{" SpCas9 (NGG) ", "SpCas9"},
		{"SaCas9", "SaCas9"},
		{"Cas12a (TTTV)", "Cas12a"},
		{"cpf1", "Cas12a"},
	}
	for _, tc := range tests {
		s, err := Lookup(tc.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tc.name, err)
		}
		if s.Name != tc.want {
			t.Errorf("Lookup(%q) = %s, want %s", tc.name, s.Name, tc.want)
		}
	}

	_, err := Lookup("Cas13")
	if !errors.Is(err, ErrUnknownSystem) {
		t.Fatalf("want ErrUnknownSystem, got %v", err)
	}
	var ue *UnknownSystemError
	if !errors.As(err, &ue) || ue.Name != "Cas13" {
		t.Fatalf("want UnknownSystemError naming Cas13, got %v", err)
	}
}

func TestRegistryGeometry(t *testing.T) {
	tests := []struct {
		sys      System
		pamLen   int
		guideLen int
		side     PAMSide
	}{
		{SpCas9, 3, 20, ThreePrime},
		{SaCas9, 6, 21, ThreePrime},
		{Cas12a, 4, 20, FivePrime},
	}
	for _, tc := range tests {
		if tc.sys.PAMLen() != tc.pamLen || tc.sys.GuideLen != tc.guideLen || tc.sys.Side != tc.side {
			t.Errorf("%s: pam=%d guide=%d side=%v", tc.sys.Name, tc.sys.PAMLen(), tc.sys.GuideLen, tc.sys.Side)
		}
		if tc.sys.MinSequenceLength() != tc.pamLen+tc.guideLen {
			t.Errorf("%s: MinSequenceLength = %d", tc.sys.Name, tc.sys.MinSequenceLength())
		}
	}
	if got := Names(); len(got) != 3 || got[0] != "Cas12a" || got[1] != "SaCas9" || got[2] != "SpCas9" {
		t.Errorf("Names() = %v", got)
	}
}

func TestGuideSpan(t *testing.T) {
	tests := []struct {
		name      string
		sys       System
		pamStart  int
		strand    sequence.Strand
		wantStart int
		wantEnd   int
	}{
		{"SpCas9 plus: guide left of PAM", SpCas9, 30, sequence.Plus, 10, 30},
		{"SpCas9 minus: guide right of PAM", SpCas9, 30, sequence.Minus, 33, 53},
		{"Cas12a plus: guide right of PAM", Cas12a, 10, sequence.Plus, 14, 34},
		{"Cas12a minus: guide left of PAM", Cas12a, 30, sequence.Minus, 10, 30},
		{"SaCas9 minus", SaCas9, 0, sequence.Minus, 6, 27},
	}
	for _, tc := range tests {
		s, e := tc.sys.GuideSpan(tc.pamStart, tc.strand)
		if s != tc.wantStart || e != tc.wantEnd {
			t.Errorf("%s: got [%d,%d), want [%d,%d)", tc.name, s, e, tc.wantStart, tc.wantEnd)
		}
		if back := tc.sys.PAMStart(s, tc.strand); back != tc.pamStart {
			t.Errorf("%s: PAMStart(%d) = %d, want %d", tc.name, s, back, tc.pamStart)
		}
	}
}

func TestCutSite(t *testing.T) {
	// SpCas9: 17 nt of guide before the break, 3 after (PAM-proximal)
	if got := SpCas9.CutSite(10, 30, sequence.Plus); got != 27 {
		t.Errorf("SpCas9 plus cut = %d, want 27", got)
	}
	if got := SpCas9.CutSite(33, 53, sequence.Minus); got != 36 {
		t.Errorf("SpCas9 minus cut = %d, want 36", got)
	}
	// Cas12a: distal, 18 nt from the PAM-proximal 5' end
	if got := Cas12a.CutSite(14, 34, sequence.Plus); got != 32 {
		t.Errorf("Cas12a plus cut = %d, want 32", got)
	}
}

func TestWithGuideLength(t *testing.T) {
	s, err := Cas12a.WithGuideLength(23)
	if err != nil || s.GuideLen != 23 {
		t.Fatalf("Cas12a 23nt: %v %d", err, s.GuideLen)
	}
	if Cas12a.GuideLen != 20 {
		t.Fatalf("registry entry mutated")
	}
	if _, err := Cas12a.WithGuideLength(24); err == nil {
		t.Fatalf("expected error for 24nt Cas12a")
	}
	if _, err := SpCas9.WithGuideLength(21); err == nil {
		t.Fatalf("expected error for 21nt SpCas9")
	}
}
