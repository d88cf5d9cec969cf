package writers

import (
	"fmt"
	"io"
	"sort"

	"grna/internal/pretty"
)

// Options shared by all formats; each writer uses what applies to it.
type Options struct {
	Header        bool
	Pretty        bool
	PrettyOptions pretty.Options
	// OffTargets includes per-hit detail in JSON/JSONL and an XLSX sheet.
	OffTargets bool
}

// StartFunc spins up a writer goroutine. The caller closes the channel and
// then reads exactly one error.
type StartFunc func(out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error)

// Writer registry (format → starter). Register in init() blocks of the format files.
var registry = map[string]StartFunc{}

// Register is idempotent last-wins.
func Register(format string, fn StartFunc) { registry[format] = fn }

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Start dispatches to the writer registered for format.
func Start(format string, out io.Writer, opt Options, bufSize int) (chan<- Row, <-chan error, error) {
	fn, ok := registry[format]
	if !ok {
		return nil, nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats())
	}
	in, errCh := fn(out, opt, bufSize)
	return in, errCh, nil
}

// collect drains in into a slice; used by formats that need all rows first.
func collect(in <-chan Row) []Row {
	var buf []Row
	for r := range in {
		buf = append(buf, r)
	}
	return buf
}

func newChans(bufSize int) (chan Row, chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	return make(chan Row, bufSize), make(chan error, 1)
}

// drain keeps consuming after a write error so senders never block.
func drain(in <-chan Row) {
	for range in {
	}
}
