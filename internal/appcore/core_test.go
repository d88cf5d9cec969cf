package appcore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"grna/core/design"
	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/sequence"
	"grna/internal/logging"
	"grna/internal/writers"
)

func rows(n int) ProduceFunc {
	return func(ctx context.Context, send func(writers.Row) error) error {
		for i := range n {
			c := guide.Candidate{ID: fmt.Sprintf("s:%d:+", i), SequenceID: "s", Start: i, Strand: sequence.Plus}
			if err := send(writers.Row{Rank: i + 1, Candidate: c}); err != nil {
				return err
			}
		}
		return nil
	}
}

func failWith(err error) ProduceFunc {
	return func(context.Context, func(writers.Row) error) error { return err }
}

func TestRunExitCodes(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		format  string
		produce ProduceFunc
		want    int
	}{
		{"rows", context.Background(), "tsv", rows(2), ExitOK},
		{"no rows", context.Background(), "tsv", rows(0), 7},
		{"unknown format", context.Background(), "yaml", rows(1), ExitUsage},
		{"bad input", context.Background(), "tsv", failWith(&sequence.InvalidSequenceError{Char: 'X', Pos: 1}), ExitUsage},
		{"runtime", context.Background(), "tsv", failWith(errors.New("disk on fire")), ExitRuntime},
		{"canceled", canceled, "tsv", failWith(context.Canceled), ExitCanceled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out, errBuf bytes.Buffer
			o := Options{Format: tc.format, Writer: writers.Options{Header: true}, NoMatchExitCode: 7}
			got := Run(tc.ctx, &out, &errBuf, logging.Discard(), o, tc.produce)
			assert.Equal(t, tc.want, got, errBuf.String())
		})
	}
}

func TestRunWritesRows(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), &out, io.Discard, logging.Discard(), Options{Format: "tsv"}, rows(3))
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestRunBrokenPipeIsSuccess(t *testing.T) {
	code := Run(context.Background(), brokenPipe{}, io.Discard, logging.Discard(), Options{Format: "jsonl"}, rows(5))
	assert.Equal(t, ExitOK, code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("wrap: %w", context.Canceled), ExitCanceled},
		{&nuclease.UnknownSystemError{Name: "x"}, ExitUsage},
		{&design.BatchTooLargeError{Size: 2, Max: 1}, ExitUsage},
		{&guide.FlankTooShortError{}, ExitUsage},
		{Usage(errors.New("bad flag")), ExitUsage},
		{Usage(context.Canceled), ExitCanceled},
		{errors.New("boom"), ExitRuntime},
	}
	for _, tc := range tests {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d want %d", tc.err, got, tc.want)
		}
	}
	if Usage(nil) != nil {
		t.Error("Usage(nil) != nil")
	}
}
