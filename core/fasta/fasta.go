// Package fasta reads multi-record FASTA text.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// Record is one FASTA entry. Seq keeps the raw residue text with line breaks
// removed; validation is left to the caller.
type Record struct {
	ID          string
	Description string
	Seq         string
}

// ErrNoHeader is returned when sequence text appears before the first '>' line.
var ErrNoHeader = errors.New("fasta: sequence data before first header")

// Read parses r and calls emit once per record, in file order. It returns
// promptly with ctx.Err() when ctx is done.
func Read(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		rec    Record
		open   bool
		seq    bytes.Buffer
		lineNo int
	)
	flush := func() error {
		if !open {
			return nil
		}
		rec.Seq = seq.String()
		seq.Reset()
		return emit(rec)
	}

	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			rec = parseHeader(line[1:])
			open = true
			continue
		}
		if !open {
			return fmt.Errorf("line %d: %w", lineNo, ErrNoHeader)
		}
		seq.Write(line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadAll collects every record of r.
func ReadAll(ctx context.Context, r io.Reader) ([]Record, error) {
	var out []Record
	err := Read(ctx, r, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

// Looks reports whether data starts like FASTA (first non-blank byte is '>').
func Looks(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(data) > 0 && data[0] == '>'
}

func parseHeader(hdr []byte) Record {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return Record{ID: string(hdr[:i]), Description: string(bytes.TrimSpace(hdr[i+1:]))}
	}
	return Record{ID: string(hdr)}
}
