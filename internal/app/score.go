package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grna/core/guide"
	"grna/core/score"
	"grna/core/sequence"
	"grna/internal/appcore"
	"grna/internal/common"
	"grna/internal/jsonlutil"
	"grna/internal/jsonutil"
	"grna/internal/writers"
	"grna/pkg/api"
)

func (a *app) scoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [flags] GUIDE...",
		Short: "Score bare guide sequences",
		Long: `Score prints the on-target breakdown (GC, self-complementarity,
homopolymer, position) and the weighted efficiency for each guide.
Guides must have the system's guide length; one argument may list
several, separated by commas.`,
		Example: `  grna score GAGTCCGAGCAGAAGAAGAA
  grna score -S SaCas9 -o json GAGTCCGAGCAGAAGAAGAAG`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScore(args)
		},
	}
	fs := cmd.Flags()
	addSystemFlags(fs)
	fs.String("gc-falloff", "linear", "GC score falloff outside the optimal band: linear | gaussian")
	fs.StringP("output", "o", "text", "output format: text | tsv | json | jsonl")
	fs.Bool("header", true, "print a header line (text/tsv)")
	return cmd
}

var scoreColumns = []string{"guide", "gc", "gc_score", "self_comp_score", "homopolymer_score", "position_score", "efficiency", "band"}

func (a *app) runScore(args []string) error {
	d, err := a.cfg.Designer()
	if err != nil {
		return appcore.Usage(err)
	}
	var out []api.ScoreResponseV1
	for _, g := range common.GuideList(args) {
		s, err := sequence.Normalize(g, sequence.Options{})
		if err != nil {
			return appcore.Usage(fmt.Errorf("%s: %w", g, err))
		}
		c := guide.Candidate{System: d.System().Name, Guide: s.Seq, GC: sequence.GCFraction(s.Seq)}
		if err := d.Score(&c); err != nil {
			return appcore.Usage(err)
		}
		out = append(out, api.ScoreResponseV1{
			Guide:  c.Guide,
			System: c.System,
			GC:     c.GC,
			Scores: writers.ToAPIScores(c.Scores),
			Band:   score.Band(c.Efficiency()),
		})
	}
	a.code, err = a.writeScores(out)
	return err
}

func (a *app) writeScores(list []api.ScoreResponseV1) (int, error) {
	w := bufio.NewWriter(a.stdout)
	var err error
	switch a.cfg.Output.Format {
	case "json":
		err = jsonutil.EncodePretty(w, list)
	case "jsonl":
		in, errCh := jsonlutil.Start[api.ScoreResponseV1](w, len(list), nil, writers.IsBrokenPipe)
		for _, s := range list {
			in <- s
		}
		close(in)
		err = <-errCh
	case "text", "tsv":
		err = writeScoreTSV(w, list, a.cfg.Output.Header)
	default:
		return appcore.ExitUsage, appcore.Usage(fmt.Errorf("score: unsupported output format %q", a.cfg.Output.Format))
	}
	if err == nil {
		err = w.Flush()
	}
	if writers.IsBrokenPipe(err) {
		return appcore.ExitOK, nil
	}
	if err != nil {
		return appcore.ExitRuntime, err
	}
	return appcore.ExitOK, nil
}

func writeScoreTSV(w io.Writer, list []api.ScoreResponseV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, strings.Join(scoreColumns, "\t")); err != nil {
			return err
		}
	}
	f := func(x float64) string { return strconv.FormatFloat(x, 'f', 3, 64) }
	for _, s := range list {
		rec := []string{s.Guide, f(s.GC), f(s.Scores.GC), f(s.Scores.SelfComplementarity),
			f(s.Scores.Homopolymer), f(s.Scores.Position), f(s.Scores.Composite), s.Band}
		if _, err := fmt.Fprintln(w, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return nil
}
