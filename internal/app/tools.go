package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"grna/core/fasta"
	"grna/core/nuclease"
	"grna/core/sequence"
	"grna/internal/appcore"
	"grna/internal/cliutil"
	"grna/internal/jsonutil"
	"grna/internal/writers"
	"grna/pkg/api"
)

// flushed flushes w and maps the outcome to an exit code.
func (a *app) flushed(w *bufio.Writer, err error) error {
	if err == nil {
		err = w.Flush()
	}
	if writers.IsBrokenPipe(err) {
		return nil
	}
	if err != nil {
		a.code = appcore.ExitRuntime
	}
	return err
}

func (a *app) systemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "systems",
		Short: "List supported nuclease systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := bufio.NewWriter(a.stdout)
			all := nuclease.All()
			if a.cfg.Output.Format == "json" {
				list := make([]api.SystemV1, len(all))
				for i, s := range all {
					list[i] = writers.ToAPISystem(s)
				}
				return a.flushed(w, jsonutil.EncodePretty(w, list))
			}
			var err error
			p := func(format string, args ...any) {
				if err == nil {
					_, err = fmt.Fprintf(w, format, args...)
				}
			}
			p("name\tpam\tpam_side\tguide_length\tcut_offset\taliases\n")
			for _, s := range all {
				gl := fmt.Sprint(s.GuideLen)
				if s.MinGuideLen != s.MaxGuideLen {
					gl = fmt.Sprintf("%d (%d-%d)", s.GuideLen, s.MinGuideLen, s.MaxGuideLen)
				}
				p("%s\t%s\t%s\t%s\t%d\t%s\n", s.Name, s.PAM, s.Side, gl, s.CutOffset, strings.Join(s.Aliases, ","))
			}
			return a.flushed(w, err)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text | json")
	return cmd
}

// compositionV1 is the analyze output for one sequence.
type compositionV1 struct {
	ID     string             `json:"id"`
	Length int                `json:"length"`
	GC     float64            `json:"gc"`
	Counts map[string]int     `json:"counts"`
	Share  map[string]float64 `json:"fractions"`
}

func (a *app) analyzeCommand() *cobra.Command {
	var literals []string
	cmd := &cobra.Command{
		Use:   "analyze [flags] [FASTA...]",
		Short: "Report length, GC content and base composition",
		RunE: func(cmd *cobra.Command, paths []string) error {
			if err := needInput(literals, paths); err != nil {
				return err
			}
			var list []compositionV1
			err := eachInput(cmd.Context(), literals, paths, func(id, raw string) error {
				s, err := sequence.Normalize(raw, sequence.Options{AllowAmbiguous: targetAmbiguity})
				if err != nil {
					return appcore.Usage(fmt.Errorf("%s: %w", id, err))
				}
				c := sequence.Compose(s.Seq)
				v := compositionV1{
					ID:     id,
					Length: c.Length,
					GC:     c.GC(),
					Counts: map[string]int{"A": c.A, "C": c.C, "G": c.G, "T": c.T, "N": c.Other},
					Share:  map[string]float64{},
				}
				for _, b := range []byte("ACGTN") {
					v.Share[string(b)] = c.Fraction(b)
				}
				list = append(list, v)
				return nil
			})
			if err != nil {
				return err
			}
			w := bufio.NewWriter(a.stdout)
			if a.cfg.Output.Format == "json" {
				return a.flushed(w, jsonutil.EncodePretty(w, list))
			}
			return a.flushed(w, writeCompositions(w, list))
		},
	}
	cmd.Flags().StringArrayVarP(&literals, "sequence", "s", nil, "sequence text (repeatable)")
	cmd.Flags().StringP("output", "o", "text", "output format: text | json")
	return cmd
}

func writeCompositions(w io.Writer, list []compositionV1) error {
	if _, err := fmt.Fprintln(w, "id\tlength\tgc_percent\tA\tC\tG\tT\tother"); err != nil {
		return err
	}
	for _, c := range list {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%d\t%d\t%d\t%d\n",
			c.ID, c.Length, 100*c.GC, c.Counts["A"], c.Counts["C"], c.Counts["G"], c.Counts["T"], c.Counts["N"]); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) revcompCommand() *cobra.Command {
	var literals []string
	cmd := &cobra.Command{
		Use:   "revcomp [flags] [FASTA...]",
		Short: "Reverse-complement sequences",
		Long: `Revcomp prints the reverse complement of each --sequence on its own
line, and of each FASTA record as FASTA.`,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if err := needInput(literals, paths); err != nil {
				return err
			}
			paths, err := cliutil.ExpandPaths(paths)
			if err != nil {
				return appcore.Usage(err)
			}
			w := bufio.NewWriter(a.stdout)
			for _, s := range literals {
				n, nerr := sequence.Normalize(s, sequence.Options{AllowAmbiguous: targetAmbiguity})
				if nerr != nil {
					return appcore.Usage(nerr)
				}
				if _, err = fmt.Fprintln(w, n.RevComp()); err != nil {
					return a.flushed(w, err)
				}
			}
			for _, p := range paths {
				err = readFASTA(cmd.Context(), p, func(r fasta.Record) error {
					n, err := sequence.Normalize(r.Seq, sequence.Options{AllowAmbiguous: targetAmbiguity})
					if err != nil {
						return appcore.Usage(fmt.Errorf("%s: %w", r.ID, err))
					}
					return fasta.Write(w, fasta.Record{ID: r.ID, Description: "revcomp", Seq: n.RevComp()}, fasta.LineWidth)
				})
				if err != nil {
					break
				}
			}
			return a.flushed(w, err)
		},
	}
	cmd.Flags().StringArrayVarP(&literals, "sequence", "s", nil, "sequence text (repeatable)")
	return cmd
}

func (a *app) generateCommand() *cobra.Command {
	var (
		length, count int
		organism      string
		gc            float64
		seed          uint64
		prefix        string
	)
	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate random test sequences as FASTA",
		Long: `Generate draws random sequences with a target GC content, either from
an organism preset or --gc. The same --seed reproduces the same output.

Presets: ` + presetNames(),
		Example: `  grna generate --length 500 --count 10 --organism ecoli --seed 42 > test.fa`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			frac := gc
			if !cmd.Flags().Changed("gc") {
				p, ok := sequence.LookupGCPreset(organism)
				if !ok {
					return appcore.Usage(fmt.Errorf("unknown organism %q (want %s)", organism, presetNames()))
				}
				frac = p.GC
			}
			if !cmd.Flags().Changed("seed") {
				seed = rand.Uint64()
			}
			a.log.Debug("generate", "count", count, "length", length, "gc", frac, "seed", seed)
			return a.generate(cmd.Context(), count, length, frac, seed, prefix)
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&length, "length", "l", 500, "bases per sequence")
	fs.IntVarP(&count, "count", "c", 1, "number of sequences")
	fs.StringVar(&organism, "organism", "human", "GC preset")
	fs.Float64Var(&gc, "gc", 0.5, "GC fraction (overrides --organism)")
	fs.Uint64Var(&seed, "seed", 0, "random seed (default: random)")
	fs.StringVar(&prefix, "prefix", "random", "record ID prefix")
	return cmd
}

func (a *app) generate(ctx context.Context, count, length int, gc float64, seed uint64, prefix string) error {
	if count < 0 {
		return appcore.Usage(fmt.Errorf("count must be ≥ 0, got %d", count))
	}
	src := rand.NewPCG(seed, seed)
	w := bufio.NewWriter(a.stdout)
	for i := range count {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := sequence.Generate(length, gc, src)
		if err != nil {
			return appcore.Usage(err)
		}
		rec := fasta.Record{
			ID:          fmt.Sprintf("%s_%d", prefix, i+1),
			Description: fmt.Sprintf("length=%d gc=%.2f seed=%d", length, gc, seed),
			Seq:         s,
		}
		if err := fasta.Write(w, rec, fasta.LineWidth); err != nil {
			return a.flushed(w, err)
		}
	}
	return a.flushed(w, nil)
}

func presetNames() string {
	names := make([]string, len(sequence.GCPresets))
	for i, p := range sequence.GCPresets {
		names[i] = fmt.Sprintf("%s (%.0f%%)", p.Name, 100*p.GC)
	}
	return strings.Join(names, ", ")
}
