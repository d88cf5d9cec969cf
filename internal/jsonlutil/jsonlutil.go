// Package jsonlutil streams values as JSON Lines from a goroutine.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up a JSONL encoder goroutine for values of type T.
//   - convert: maps one value to its wire form (nil: encode as-is)
//   - isBroken: recognizer for broken/closed pipe errors to suppress them
//
// The caller closes the returned channel and then reads exactly one error.
// After an encode error the goroutine keeps draining so senders never block.
func Start[T any](out io.Writer, bufSize int, convert func(T) any, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err != nil {
				continue
			}
			var wire any = v
			if convert != nil {
				wire = convert(v)
			}
			err = enc.Encode(wire)
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && isBroken != nil && isBroken(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
