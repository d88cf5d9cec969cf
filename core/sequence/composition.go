package sequence

// Composition holds per-base counts of a sequence.
type Composition struct {
	Length int
	A      int
	C      int
	G      int
	T      int
	Other  int
}

// Compose counts bases in s.
func Compose(s string) Composition {
	c := Composition{Length: len(s)}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A':
			c.A++
		case 'C':
			c.C++
		case 'G':
			c.G++
		case 'T':
			c.T++
		default:
			c.Other++
		}
	}
	return c
}

// GC returns the G+C fraction over all bases (0 for empty input).
func (c Composition) GC() float64 {
	if c.Length == 0 {
		return 0
	}
	return float64(c.G+c.C) / float64(c.Length)
}

// Fraction returns the share of base b in the sequence.
func (c Composition) Fraction(b byte) float64 {
	if c.Length == 0 {
		return 0
	}
	var n int
	switch b {
	case 'A':
		n = c.A
	case 'C':
		n = c.C
	case 'G':
		n = c.G
	case 'T':
		n = c.T
	default:
		n = c.Other
	}
	return float64(n) / float64(c.Length)
}

// GCFraction is the G+C share of s.
func GCFraction(s string) float64 { return Compose(s).GC() }
