package score

import "fmt"

// PositionTable holds per-position base preferences, 1-based from the guide's 5' end.
// Positions absent from the table do not contribute.
type PositionTable struct {
	// Span is the guide length the table was calibrated on.
	Span int
	// Weights[pos] maps a base to its preference in [0,1].
	Weights map[int]map[byte]float64
	// Default applies to a base missing from a position's entry.
	Default float64
}

// DefaultPositionTable is calibrated on 20-nt SpCas9 guides: a G preference
// at the 5' end and at the PAM-proximal positions 16-20.
func DefaultPositionTable() PositionTable {
	return PositionTable{
		Span:    20,
		Default: 0.3,
		Weights: map[int]map[byte]float64{
			1:  {'G': 0.9, 'A': 0.6, 'C': 0.4, 'T': 0.2},
			2:  {'G': 0.3, 'A': 0.8, 'C': 0.4, 'T': 0.3},
			3:  {'G': 0.6, 'A': 0.6, 'C': 0.4, 'T': 0.3},
			4:  {'G': 0.5, 'A': 0.5, 'C': 0.5, 'T': 0.4},
			16: {'G': 0.7, 'A': 0.5, 'C': 0.3, 'T': 0.3},
			17: {'G': 0.8, 'A': 0.4, 'C': 0.3, 'T': 0.2},
			18: {'G': 0.7, 'A': 0.4, 'C': 0.4, 'T': 0.3},
			19: {'G': 0.6, 'A': 0.5, 'C': 0.4, 'T': 0.3},
			20: {'G': 0.8, 'A': 0.4, 'C': 0.3, 'T': 0.2},
		},
	}
}

func (t PositionTable) Validate() error {
	if t.Span <= 0 {
		return fmt.Errorf("position table span must be > 0")
	}
	if len(t.Weights) == 0 {
		return fmt.Errorf("position table is empty")
	}
	if t.Default < 0 || t.Default > 1 {
		return fmt.Errorf("position table default %g outside [0,1]", t.Default)
	}
	for pos, row := range t.Weights {
		if pos < 1 || pos > t.Span {
			return fmt.Errorf("position %d outside table span 1-%d", pos, t.Span)
		}
		for b, w := range row {
			if w < 0 || w > 1 {
				return fmt.Errorf("position %d base %c weight %g outside [0,1]", pos, b, w)
			}
		}
	}
	return nil
}

// weight returns the preference for base b at 1-based table position pos.
func (t PositionTable) weight(pos int, b byte) float64 {
	if w, ok := t.Weights[pos][b]; ok {
		return w
	}
	return t.Default
}
