package sequence

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// GCPreset is a named genome-wide GC content.
type GCPreset struct {
	Name string
	GC   float64
}

// GCPresets are typical whole-genome GC fractions.
var GCPresets = []GCPreset{
	{"human", 0.42},
	{"ecoli", 0.51},
	{"yeast", 0.38},
	{"mycobacterium", 0.65},
}

// LookupGCPreset finds a preset by name, case-insensitively.
func LookupGCPreset(name string) (GCPreset, bool) {
	i := slices.IndexFunc(GCPresets, func(p GCPreset) bool { return strings.EqualFold(p.Name, name) })
	if i < 0 {
		return GCPreset{}, false
	}
	return GCPresets[i], true
}

// Generate draws n bases i.i.d. with the given GC fraction. The same src
// state yields the same sequence.
func Generate(n int, gc float64, src rand.Source) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("length must be ≥ 0, got %d", n)
	}
	if gc < 0 || gc > 1 {
		return "", fmt.Errorf("gc fraction must be within 0-1, got %g", gc)
	}
	at := (1 - gc) / 2
	dist := distuv.NewCategorical([]float64{at, gc / 2, gc / 2, at}, src)
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[int(dist.Rand())]
	}
	return string(b), nil
}
