package sequence

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// RevCompBytes returns the reverse complement of seq. Unknown bytes become 'N'.
func RevCompBytes(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// RevComp is RevCompBytes for strings.
func RevComp(s string) string { return string(RevCompBytes([]byte(s))) }

// Complement reports the Watson-Crick partner of an unambiguous base (0 otherwise).
func Complement(b byte) byte {
	switch b {
	case 'A', 'C', 'G', 'T':
		return complement[b]
	}
	return 0
}
