package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"grna/core/design"
	"grna/core/fasta"
	"grna/internal/appcore"
	"grna/internal/cliutil"
	"grna/internal/pretty"
	"grna/internal/writers"
)

// output opens the destination chosen by --out (stdout when unset).
func (a *app) output() (io.Writer, func() error, error) {
	if a.cfg.Output.File == "" || a.cfg.Output.File == "-" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(a.cfg.Output.File)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func (a *app) coreOptions() appcore.Options {
	o := a.cfg.Output
	return appcore.Options{
		Format: o.Format,
		Writer: writers.Options{
			Header:        o.Header,
			Pretty:        o.Pretty,
			PrettyOptions: pretty.DefaultOptions,
			OffTargets:    o.OffTargets,
		},
		NoMatchExitCode: o.NoMatchExitCode,
	}
}

// stream runs produce through the configured writer and records the exit code.
func (a *app) stream(ctx context.Context, produce appcore.ProduceFunc) error {
	w, closeOut, err := a.output()
	if err != nil {
		return err
	}
	a.code = appcore.Run(ctx, w, a.stderr, a.log, a.coreOptions(), produce)
	if err := closeOut(); err != nil && a.code == appcore.ExitOK {
		fmt.Fprintln(a.stderr, "error:", err)
		a.code = appcore.ExitRuntime
	}
	return nil
}

// eachInput yields literal sequences first (named Sequence_<n>), then every
// record of every FASTA path ("-" is stdin).
func eachInput(ctx context.Context, literals, paths []string, fn func(id, raw string) error) error {
	for i, s := range literals {
		if err := fn(design.EntryName(design.Entry{}, i), s); err != nil {
			return err
		}
	}
	paths, err := cliutil.ExpandPaths(paths)
	if err != nil {
		return appcore.Usage(err)
	}
	for _, p := range paths {
		if err := readFASTA(ctx, p, func(r fasta.Record) error { return fn(r.ID, r.Seq) }); err != nil {
			return err
		}
	}
	return nil
}

// readFASTA streams the records of path. A missing or malformed file is a
// usage error.
func readFASTA(ctx context.Context, path string, emit func(fasta.Record) error) error {
	rc, err := fasta.Open(path)
	if err != nil {
		return appcore.Usage(err)
	}
	defer rc.Close()
	if err := fasta.Read(ctx, rc, emit); err != nil {
		if errors.Is(err, fasta.ErrNoHeader) {
			return appcore.Usage(fmt.Errorf("%s: %w", path, err))
		}
		return err
	}
	return nil
}

func needInput(literals, paths []string) error {
	if len(literals) == 0 && len(paths) == 0 {
		return appcore.Usage(errors.New("no input: pass --sequence or FASTA file(s) ('-' for stdin)"))
	}
	return nil
}
