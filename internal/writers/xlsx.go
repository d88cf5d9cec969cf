package writers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func init() {
	Register("xlsx", StartXLSX)
}

const (
	guidesSheet     = "Guides"
	offTargetsSheet = "Off-targets"
)

var offTargetColumns = []string{"candidate_id", "guide", "target_id", "start", "strand", "mismatches", "mismatch_positions", "site", "tier"}

// StartXLSX buffers every row and writes an Excel workbook: one sheet of
// candidates and, with opt.OffTargets, one sheet of off-target hits.
func StartXLSX(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error) {
	in, errCh := newChans(bufSize)
	go func() {
		errCh <- writeXLSX(out, collect(in), opt)
	}()
	return in, errCh
}

func writeXLSX(out io.Writer, rows []Row, opt Options) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", guidesSheet); err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := setRow(f, guidesSheet, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, guidesSheet, i+2, r.values()); err != nil {
			return err
		}
	}

	if opt.OffTargets {
		if _, err := f.NewSheet(offTargetsSheet); err != nil {
			return err
		}
		header := make([]any, len(offTargetColumns))
		for i, c := range offTargetColumns {
			header[i] = c
		}
		if err := setRow(f, offTargetsSheet, 1, header); err != nil {
			return err
		}
		line := 2
		for _, r := range rows {
			c := r.Candidate
			for _, h := range c.OffTargets {
				vals := []any{c.ID, c.Guide, h.TargetID, h.Start, h.Strand.String(), h.Mismatches, intsCSV(h.MismatchIdx), h.Site, h.Tier.Label()}
				if err := setRow(f, offTargetsSheet, line, vals); err != nil {
					return err
				}
				line++
			}
		}
	}
	return f.Write(out)
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	for col, v := range vals {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func intsCSV(a []int) string {
	s := ""
	for i, v := range a {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprint(v)
	}
	return s
}
