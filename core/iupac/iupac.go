// Package iupac maps IUPAC nucleotide codes to sets of concrete bases.
package iupac

import (
	"fmt"
	"strings"
)

// Set is a nucleotide set: bit0=A bit1=C bit2=G bit3=T.
type Set uint8

const (
	A Set = 1 << iota
	C
	G
	T
	Any = A | C | G | T
)

var mask [256]Set

func init() {
	set := func(c byte, s Set) {
		mask[c] = s
		mask[c+'a'-'A'] = s
	}
	set('A', A)
	set('C', C)
	set('G', G)
	set('T', T)
	set('R', A|G)
	set('Y', C|T)
	set('S', C|G)
	set('W', A|T)
	set('K', G|T)
	set('M', A|C)
	set('B', C|G|T)
	set('D', A|G|T)
	set('H', A|C|T)
	set('V', A|C|G)
	set('N', Any)
}

// Lookup returns the set for an IUPAC code (0 if unknown).
func Lookup(code byte) Set { return mask[code] }

// Contains reports whether a sequence base belongs to s. Only A/C/G/T can be
// members; an ambiguity code or N in the sequence never matches.
func (s Set) Contains(base byte) bool {
	switch base {
	case 'A', 'C', 'G', 'T':
		return s&mask[base] != 0
	}
	return false
}

func (s Set) String() string {
	var b strings.Builder
	for i, c := range "ACGT" {
		if s&(1<<i) != 0 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Pattern is a compiled motif: one symbol set per offset.
type Pattern []Set

// Compile converts an IUPAC string such as "NGG" into per-offset sets.
func Compile(code string) (Pattern, error) {
	if code == "" {
		return nil, fmt.Errorf("empty IUPAC pattern")
	}
	p := make(Pattern, len(code))
	for i := 0; i < len(code); i++ {
		s := mask[code[i]]
		if s == 0 {
			return nil, fmt.Errorf("invalid IUPAC code %q at %d in %q", code[i], i+1, code)
		}
		p[i] = s
	}
	return p, nil
}

// MustCompile panics on an invalid pattern. Used for the built-in registry.
func MustCompile(code string) Pattern {
	p, err := Compile(code)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Len() int { return len(p) }

// Match reports whether every window base is a member of the set at its offset.
func (p Pattern) Match(window []byte) bool {
	if len(window) != len(p) {
		return false
	}
	for i, s := range p {
		if !s.Contains(window[i]) {
			return false
		}
	}
	return true
}

// MatchString is Match for a string window.
func (p Pattern) MatchString(window string) bool {
	if len(window) != len(p) {
		return false
	}
	for i, s := range p {
		if !s.Contains(window[i]) {
			return false
		}
	}
	return true
}

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = "{" + s.String() + "}"
	}
	return strings.Join(parts, "")
}
