package sequence

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSequence  = errors.New("invalid sequence")
	ErrSequenceTooShort = errors.New("sequence too short")
)

// InvalidSequenceError reports empty input or a character outside the accepted alphabet.
// Pos is the 0-based index in the whitespace-stripped text, or -1 for empty input.
type InvalidSequenceError struct {
	Char   rune
	Pos    int
	Reason string
}

func (e *InvalidSequenceError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("invalid sequence: %s", e.Reason)
	}
	return fmt.Sprintf("invalid sequence: %s %q at position %d; allowed: A C G T", e.Reason, e.Char, e.Pos+1)
}

func (e *InvalidSequenceError) Is(target error) bool { return target == ErrInvalidSequence }

// SequenceTooShortError means the sequence cannot hold one guide plus its PAM.
type SequenceTooShortError struct {
	Length int
	Min    int
}

func (e *SequenceTooShortError) Error() string {
	return fmt.Sprintf("sequence too short: %d nt, need at least %d", e.Length, e.Min)
}

func (e *SequenceTooShortError) Is(target error) bool { return target == ErrSequenceTooShort }
