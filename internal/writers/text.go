package writers

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"grna/internal/pretty"
)

func init() {
	Register("text", StartTSV)
	Register("tsv", StartTSV)
	Register("csv", StartCSV)
}

// StartTSV streams one tab-separated line per row, each optionally followed
// by its pretty alignment block.
func StartTSV(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error) {
	in, errCh := newChans(bufSize)
	go func() {
		errCh <- writeTSV(out, in, opt)
	}()
	return in, errCh
}

func writeTSV(out io.Writer, in <-chan Row, opt Options) error {
	defer drain(in)
	bw := bufio.NewWriter(out)
	if opt.Header {
		if _, err := io.WriteString(bw, strings.Join(Columns, "\t")+"\n"); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := io.WriteString(bw, strings.Join(r.record(), "\t")+"\n"); err != nil {
			return err
		}
		if opt.Pretty {
			if _, err := io.WriteString(bw, pretty.RenderCandidate(r.Candidate, opt.PrettyOptions)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// StartCSV streams RFC 4180 CSV; the header row is written when opt.Header is set.
func StartCSV(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error) {
	in, errCh := newChans(bufSize)
	go func() {
		errCh <- writeCSV(out, in, opt)
	}()
	return in, errCh
}

func writeCSV(out io.Writer, in <-chan Row, opt Options) error {
	defer drain(in)
	cw := csv.NewWriter(out)
	if opt.Header {
		if err := cw.Write(Columns); err != nil {
			return err
		}
	}
	for r := range in {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
