package writers

import (
	"io"

	"grna/internal/jsonlutil"
	"grna/internal/jsonutil"
	"grna/pkg/api"
)

func init() {
	Register("json", StartJSON)
	Register("jsonl", StartJSONL)
}

// StartJSON buffers every row and writes one indented JSON array of v1 candidates.
func StartJSON(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error) {
	in, errCh := newChans(bufSize)
	go func() {
		rows := collect(in)
		list := make([]api.CandidateV1, 0, len(rows))
		for _, r := range rows {
			list = append(list, ToAPICandidate(r, opt.OffTargets))
		}
		errCh <- jsonutil.EncodePretty(out, list)
	}()
	return in, errCh
}

// StartJSONL streams one v1 candidate per line.
func StartJSONL(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error) {
	return jsonlutil.Start[Row](out, bufSize, func(r Row) any {
		return ToAPICandidate(r, opt.OffTargets)
	}, IsBrokenPipe)
}
