// Package batchio reads batch inputs: FASTA, or CSV/TSV/plain text with an
// optional "name,sequence" header.
package batchio

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"grna/core/design"
	"grna/core/fasta"
)

// maxInput bounds what is read into memory; batches are at most a few hundred kb.
const maxInput = 64 << 20

// ErrEmpty is returned when the input holds no entries.
var ErrEmpty = errors.New("batch input has no sequences")

// Read loads entries from path ("-" for stdin; gzip is detected).
func Read(ctx context.Context, path string) ([]design.Entry, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	entries, err := Parse(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse sniffs the format of r and returns its entries in input order.
func Parse(ctx context.Context, r io.Reader) ([]design.Entry, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInput {
		return nil, fmt.Errorf("batch input exceeds %d bytes", maxInput)
	}
	var entries []design.Entry
	if fasta.Looks(data) {
		err = fasta.Read(ctx, bytes.NewReader(data), func(rec fasta.Record) error {
			entries = append(entries, design.Entry{Name: rec.ID, Raw: rec.Seq})
			return nil
		})
	} else {
		entries, err = parseDelimited(data)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return entries, nil
}

func parseDelimited(data []byte) ([]design.Entry, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffComma(data)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	nameCol, seqCol := -1, -1
	first := true
	var out []design.Entry
	for _, rec := range recs {
		rec = trimAll(rec)
		if isBlank(rec) {
			continue
		}
		if first {
			first = false
			if n, s, ok := header(rec); ok {
				nameCol, seqCol = n, s
				continue
			}
		}
		var e design.Entry
		switch {
		case seqCol >= 0:
			if seqCol < len(rec) {
				e.Raw = rec[seqCol]
			}
			if nameCol >= 0 && nameCol < len(rec) {
				e.Name = rec[nameCol]
			}
		case len(rec) == 1:
			e.Raw = rec[0]
		default:
			e.Name, e.Raw = rec[0], rec[1]
		}
		out = append(out, e)
	}
	return out, nil
}

// header recognizes a header row by a "sequence"/"seq" column.
func header(rec []string) (nameCol, seqCol int, ok bool) {
	nameCol, seqCol = -1, -1
	for i, f := range rec {
		switch strings.ToLower(f) {
		case "sequence", "seq", "dna":
			seqCol = i
		case "name", "id", "sequence_name":
			nameCol = i
		}
	}
	return nameCol, seqCol, seqCol >= 0
}

func sniffComma(data []byte) rune {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 {
		return '\t'
	}
	return ','
}

func trimAll(rec []string) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if f != "" {
			return false
		}
	}
	return true
}
