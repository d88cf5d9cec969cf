// Package sequence validates and canonicalizes nucleotide input.
package sequence

import (
	"strings"
	"unicode"
)

// Strand is the orientation of a hit relative to the input sequence.
type Strand byte

const (
	Plus  Strand = '+'
	Minus Strand = '-'
)

func (s Strand) String() string { return string(s) }

// Sequence is a normalized nucleotide string. Seq only ever holds A/C/G/T,
// plus any ambiguity codes the caller explicitly whitelisted.
type Sequence struct {
	ID  string
	Raw string
	Seq string
}

func (s Sequence) Len() int { return len(s.Seq) }

// RevComp returns the reverse complement of the normalized text.
func (s Sequence) RevComp() string { return RevComp(s.Seq) }

// Options control Normalize.
type Options struct {
	// MinLength rejects sequences shorter than guide+PAM for the chosen system (0 = no check).
	MinLength int
	// AllowAmbiguous lists IUPAC codes that are kept instead of rejected ("" = strict ACGT).
	AllowAmbiguous string
}

// Normalize strips whitespace, uppercases, and validates raw text.
func Normalize(raw string, opt Options) (Sequence, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	s := b.String()
	if s == "" {
		return Sequence{}, &InvalidSequenceError{Pos: -1, Reason: "empty sequence"}
	}
	allow := strings.ToUpper(opt.AllowAmbiguous)
	pos := -1
	for _, r := range s {
		pos++
		switch r {
		case 'A', 'C', 'G', 'T':
			continue
		}
		if r < unicode.MaxASCII && strings.ContainsRune(allow, r) && isIUPAC(byte(r)) {
			continue
		}
		return Sequence{}, &InvalidSequenceError{Char: r, Pos: pos, Reason: "invalid base"}
	}
	if opt.MinLength > 0 && len(s) < opt.MinLength {
		return Sequence{}, &SequenceTooShortError{Length: len(s), Min: opt.MinLength}
	}
	return Sequence{Raw: raw, Seq: s}, nil
}

// MustNormalize is Normalize for literals in tests and examples.
func MustNormalize(raw string) Sequence {
	s, err := Normalize(raw, Options{})
	if err != nil {
		panic(err)
	}
	return s
}

func isIUPAC(c byte) bool { return strings.IndexByte("RYSWKMBDHVN", c) >= 0 }
