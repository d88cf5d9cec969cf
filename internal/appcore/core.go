// Package appcore runs a producer against a streaming writer and maps the
// outcome to a process exit code.
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"grna/core/design"
	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/score"
	"grna/core/sequence"
	"grna/internal/writers"
)

// Exit codes shared by every command.
const (
	ExitOK       = 0
	ExitNoMatch  = 1 // default; overridden by --no-match-exit-code
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

type Options struct {
	Format          string
	Writer          writers.Options
	BufSize         int
	NoMatchExitCode int
}

// ProduceFunc sends rows until done and returns the first fatal error.
type ProduceFunc func(ctx context.Context, send func(writers.Row) error) error

// Run streams rows from produce into the writer for o.Format.
func Run(parent context.Context, stdout, stderr io.Writer, log *slog.Logger, o Options, produce ProduceFunc) int {
	outw := bufio.NewWriter(stdout)

	bufSize := o.BufSize
	if bufSize <= 0 {
		bufSize = 64
	}
	inCh, writeErr, err := writers.Start(o.Format, outw, o.Writer, bufSize)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total := 0
	perr := produce(ctx, func(r writers.Row) error {
		select {
		case inCh <- r:
			total++
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, "error:", werr)
		return ExitRuntime
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, "error:", e)
		return ExitRuntime
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			log.Warn("canceled", "written", total)
			return ExitCanceled
		}
		fmt.Fprintln(stderr, "error:", perr)
		return ExitCode(perr)
	}
	log.Debug("done", "rows", total)
	if total == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// ExitCode classifies err: bad input and configuration are usage errors,
// cancellation is 130, everything else is a runtime failure.
func ExitCode(err error) int {
	var flank *guide.FlankTooShortError
	var length *score.LengthMismatchError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, sequence.ErrInvalidSequence),
		errors.Is(err, sequence.ErrSequenceTooShort),
		errors.Is(err, nuclease.ErrUnknownSystem),
		errors.Is(err, design.ErrBatchTooLarge),
		errors.As(err, &flank),
		errors.As(err, &length),
		errors.As(err, new(*UsageError)):
		return ExitUsage
	}
	return ExitRuntime
}

// UsageError marks a failure caused by how the program was invoked.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// Usage wraps err as a UsageError (nil stays nil).
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}
