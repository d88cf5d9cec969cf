package pam

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"grna/core/nuclease"
	"grna/core/sequence"
)

const scenario = "AAGCGGTACCTGGAAGGTAGGCCTGGAACCTGGA"

func TestScan_SpCas9Scenario(t *testing.T) {
	seq := sequence.MustNormalize(scenario)
	hits := Collect(seq, nuclease.SpCas9)

	want := []Hit{
		{PAMStart: 23, PAMEnd: 26, Strand: sequence.Plus, GuideStart: 3, GuideEnd: 23},
		{PAMStart: 30, PAMEnd: 33, Strand: sequence.Plus, GuideStart: 10, GuideEnd: 30},
		{PAMStart: 8, PAMEnd: 11, Strand: sequence.Minus, GuideStart: 11, GuideEnd: 31},
	}
	require.Equal(t, want, hits)
	require.Equal(t, "TGG", seq.Seq[23:26])
}

// saScenario holds one SaCas9 site per strand: GTCACC...GGGT + CAGAAT (R=A)
// at 2, and the reverse complement of CTAGCA...GCTC + TTGGAT (R=G) at 37.
const saScenario = "ACGTCACCTCCAATGACTAGGGTCAGAATTTATCCAAGAGCTTGAAGTCCGATGCTAGCA"

func TestScan_SaCas9BothStrands(t *testing.T) {
	seq := sequence.MustNormalize(saScenario)
	hits := Collect(seq, nuclease.SaCas9)

	want := []Hit{
		{PAMStart: 23, PAMEnd: 29, Strand: sequence.Plus, GuideStart: 2, GuideEnd: 23},
		{PAMStart: 31, PAMEnd: 37, Strand: sequence.Minus, GuideStart: 37, GuideEnd: 58},
	}
	require.Equal(t, want, hits)
	require.Equal(t, "CAGAAT", seq.Seq[23:29])
	require.Equal(t, "TTGGAT", sequence.RevComp(seq.Seq[31:37]))
}

func TestScan_Restartable(t *testing.T) {
	seq := sequence.MustNormalize(scenario)
	it := Scan(seq, nuclease.SpCas9)
	var a, b []Hit
	for h := range it {
		a = append(a, h)
	}
	for h := range it {
		b = append(b, h)
	}
	require.Equal(t, a, b)
	require.Equal(t, len(a), Count(seq, nuclease.SpCas9))

	// early break must not panic and yields a prefix
	n := 0
	for range it {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestScan_Cas12a(t *testing.T) {
	// TTTA PAM at 2, guide of 20 downstream on the plus strand
	raw := "GGTTTAACGTACGTACGTACGTACGTAAGG"
	seq := sequence.MustNormalize(raw)
	hits := Collect(seq, nuclease.Cas12a)
	require.NotEmpty(t, hits)
	h := hits[0]
	require.Equal(t, sequence.Plus, h.Strand)
	require.Equal(t, 2, h.PAMStart)
	require.Equal(t, 6, h.GuideStart)
	require.Equal(t, 26, h.GuideEnd)
}

func TestScan_MinusStrandCas12a(t *testing.T) {
	// reverse complement of the previous case: PAM now on the minus strand, guide to its left
	raw := sequence.RevComp("GGTTTAACGTACGTACGTACGTACGTAAGG")
	seq := sequence.MustNormalize(raw)
	var minus []Hit
	for h := range Scan(seq, nuclease.Cas12a) {
		if h.Strand == sequence.Minus {
			minus = append(minus, h)
		}
	}
	require.NotEmpty(t, minus)
	n := seq.Len()
	require.Contains(t, minus, Hit{PAMStart: n - 6, PAMEnd: n - 2, Strand: sequence.Minus, GuideStart: n - 26, GuideEnd: n - 6})
}

func TestScan_FlankTooShortDiscarded(t *testing.T) {
	// NGG at the very start: no room for an upstream 20-nt guide on the plus strand
	seq := sequence.MustNormalize("AGGAAAAAAAAAAAAAAAAAAAAA")
	for h := range Scan(seq, nuclease.SpCas9) {
		require.NotEqual(t, 0, h.PAMStart, "PAM without flank must be dropped")
	}
}

func TestScan_AmbiguousBasesExcluded(t *testing.T) {
	seq, err := sequence.Normalize("ACGTACGTACGTACGTACNTTGGACGT", sequence.Options{AllowAmbiguous: "N"})
	require.NoError(t, err)
	for h := range Scan(seq, nuclease.SpCas9) {
		for i := h.GuideStart; i < h.GuideEnd; i++ {
			require.NotEqual(t, byte('N'), seq.Seq[i])
		}
		for i := h.PAMStart; i < h.PAMEnd; i++ {
			require.NotEqual(t, byte('N'), seq.Seq[i])
		}
	}
}

func TestScan_ShortSequence(t *testing.T) {
	seq := sequence.MustNormalize("ACGTAGG")
	require.Zero(t, Count(seq, nuclease.SpCas9))
}

// Every guide region lies inside the sequence and output is ordered.
func TestScan_BoundsAndOrderProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	const bases = "ACGT"
	for _, sys := range nuclease.All() {
		for trial := 0; trial < 50; trial++ {
			n := 20 + r.IntN(200)
			b := make([]byte, n)
			for i := range b {
				b[i] = bases[r.IntN(4)]
			}
			seq := sequence.MustNormalize(string(b))
			prevStart, prevStrand := -1, sequence.Plus
			for h := range Scan(seq, sys) {
				if h.GuideStart < 0 || h.GuideEnd > n || h.PAMStart < 0 || h.PAMEnd > n {
					t.Fatalf("%s: out of bounds %+v (n=%d)", sys.Name, h, n)
				}
				if h.GuideEnd-h.GuideStart != sys.GuideLen {
					t.Fatalf("%s: guide length %d", sys.Name, h.GuideEnd-h.GuideStart)
				}
				if h.GuideStart < prevStart || (h.GuideStart == prevStart && prevStrand == sequence.Minus) {
					t.Fatalf("%s: order violated at %+v", sys.Name, h)
				}
				prevStart, prevStrand = h.GuideStart, h.Strand

				var window string
				if h.Strand == sequence.Plus {
					window = seq.Seq[h.PAMStart:h.PAMEnd]
				} else {
					window = sequence.RevComp(seq.Seq[h.PAMStart:h.PAMEnd])
				}
				if !sys.Pattern.MatchString(window) {
					t.Fatalf("%s: PAM %q does not match %s", sys.Name, window, sys.PAM)
				}
			}
		}
	}
}
