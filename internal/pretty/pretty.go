// Package pretty draws ASCII alignments of a guide against its off-target sites.
package pretty

import (
	"fmt"
	"strings"

	"grna/core/guide"
	"grna/core/score"
)

// Options control the ASCII rendering.
type Options struct {
	// MaxHits caps the off-target sites drawn per candidate (<=0: default 5).
	MaxHits int

	// Glyphs
	MatchGlyph    string // default "|"
	MismatchGlyph string // default "."
}

// DefaultOptions is the look used by the text writer.
var DefaultOptions = Options{
	MaxHits:       5,
	MatchGlyph:    "|",
	MismatchGlyph: ".",
}

const (
	linePrefix = "# "
	prefix5    = "5'-"
	suffix3    = "-3'"
)

func (o Options) match() string {
	if o.MatchGlyph == "" {
		return DefaultOptions.MatchGlyph
	}
	return o.MatchGlyph
}

func (o Options) mismatch() string {
	if o.MismatchGlyph == "" {
		return DefaultOptions.MismatchGlyph
	}
	return o.MismatchGlyph
}

// MatchLine marks each guide position: match glyph, or mismatch glyph at mismIdx.
func MatchLine(n int, mismIdx []int, matchGlyph, mismatchGlyph string) string {
	if n <= 0 {
		return ""
	}
	mism := make(map[int]struct{}, len(mismIdx))
	for _, i := range mismIdx {
		mism[i] = struct{}{}
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		if _, bad := mism[i]; bad {
			b.WriteString(mismatchGlyph)
			continue
		}
		b.WriteString(matchGlyph)
	}
	return b.String()
}

// RenderCandidate prints the candidate header, the guide, and one aligned
// block per off-target site, ending with a blank line.
func RenderCandidate(c guide.Candidate, opt Options) string {
	maxHits := opt.MaxHits
	if maxHits <= 0 {
		maxHits = DefaultOptions.MaxHits
	}
	pad := strings.Repeat(" ", len(prefix5))

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s  %s %s  cut %d  efficiency %.3f (%s)  risk %s\n",
		linePrefix, c.ID, c.Guide, c.PAM, c.CutSite, c.Efficiency(), score.Band(c.Efficiency()), c.Risk.Label())
	fmt.Fprintf(&b, "%s%s%s%s %s\n", linePrefix, prefix5, c.Guide, suffix3, c.PAM)
	if len(c.OffTargets) == 0 {
		fmt.Fprintf(&b, "%s(no off-targets)\n\n", linePrefix)
		return b.String()
	}
	for i, h := range c.OffTargets {
		if i == maxHits {
			fmt.Fprintf(&b, "%s... %d more\n", linePrefix, len(c.OffTargets)-maxHits)
			break
		}
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, pad, MatchLine(len(c.Guide), h.MismatchIdx, opt.match(), opt.mismatch()))
		fmt.Fprintf(&b, "%s%s%s%s %s:%d:%s mm=%d %s\n",
			linePrefix, prefix5, h.Site, suffix3, h.TargetID, h.Start, h.Strand, h.Mismatches, h.Tier.Label())
	}
	b.WriteByte('\n')
	return b.String()
}
