package fasta

import (
	"fmt"
	"io"
)

// LineWidth is the residue wrap column used by Write.
const LineWidth = 60

// Write emits rec as FASTA, wrapping the sequence at width residues
// (width <= 0 writes it on one line).
func Write(w io.Writer, rec Record, width int) error {
	hdr := rec.ID
	if rec.Description != "" {
		hdr += " " + rec.Description
	}
	if _, err := fmt.Fprintf(w, ">%s\n", hdr); err != nil {
		return err
	}
	s := rec.Seq
	if width <= 0 {
		width = len(s)
	}
	for len(s) > 0 {
		n := min(width, len(s))
		if _, err := fmt.Fprintf(w, "%s\n", s[:n]); err != nil {
			return err
		}
		s = s[n:]
	}
	return nil
}
