package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grna/core/guide"
	"grna/core/offtarget"
	"grna/core/sequence"
	"grna/internal/appcore"
	"grna/internal/jsonlutil"
	"grna/internal/jsonutil"
	"grna/internal/logging"
	"grna/internal/pretty"
	"grna/internal/writers"
	"grna/pkg/api"
)

// targets may carry any IUPAC code; ambiguous bases always count as mismatches.
const targetAmbiguity = "RYSWKMBDHVN"

func (a *app) offTargetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "offtarget [flags] GUIDE FASTA...",
		Aliases: []string{"offtargets"},
		Short:   "Find near-matches of a guide in target sequences",
		Long: `Offtarget reports every window of the target sequences, on both
strands, within --max-mismatches of GUIDE, with its risk tier, and the
overall risk and aggregate off-target score (0-100).`,
		Example: `  grna offtarget -m 2 GAGTCCGAGCAGAAGAAGAA chr22.fa.gz
  grna offtarget --require-pam --pretty GAGTCCGAGCAGAAGAAGAA targets.fa`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOffTarget(cmd.Context(), args[0], args[1:])
		},
	}
	fs := cmd.Flags()
	addSystemFlags(fs)
	d := offtarget.Options{MaxMismatches: 3, SeedLength: 12}
	fs.IntP("max-mismatches", "m", d.MaxMismatches, "mismatch budget (0-8)")
	fs.Int("seed-length", d.SeedLength, "PAM-proximal seed length for risk tiers")
	fs.Bool("require-pam", false, "only count sites followed by a valid PAM")
	fs.StringP("output", "o", "text", "output format: text | tsv | json | jsonl")
	fs.Bool("header", true, "print a header line (text/tsv)")
	fs.Bool("pretty", false, "draw the alignment of each site (text)")
	fs.Int("no-match-exit-code", 1, "exit code when no site is found")
	return cmd
}

func (a *app) runOffTarget(ctx context.Context, rawGuide string, paths []string) error {
	d, err := a.cfg.Designer()
	if err != nil {
		return appcore.Usage(err)
	}
	sys := d.System()
	g, err := sequence.Normalize(rawGuide, sequence.Options{})
	if err != nil {
		return appcore.Usage(fmt.Errorf("guide: %w", err))
	}
	if len(g.Seq) != sys.GuideLen {
		return appcore.Usage(fmt.Errorf("guide has %d nt, %s expects %d", len(g.Seq), sys.Name, sys.GuideLen))
	}

	var pool []sequence.Sequence
	err = eachInput(ctx, nil, paths, func(id, raw string) error {
		s, err := sequence.Normalize(raw, sequence.Options{AllowAmbiguous: targetAmbiguity})
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		s.ID = id
		pool = append(pool, s)
		return nil
	})
	if err != nil {
		return err
	}

	opt := offtarget.DefaultOptions(sys)
	opt.MaxMismatches = a.cfg.OffTarget.MaxMismatches
	opt.SeedLength = a.cfg.OffTarget.SeedLength
	if a.cfg.OffTarget.RequirePAM {
		opt.RequirePAM = &sys
	}
	if err := opt.Validate(); err != nil {
		return appcore.Usage(err)
	}
	hits := offtarget.Search(g.Seq, offtarget.NoOrigin, pool, opt)
	q := guide.Candidate{
		ID:             "query",
		System:         sys.Name,
		Guide:          g.Seq,
		OffTargets:     hits,
		Risk:           offtarget.Summarize(hits),
		OffTargetScore: offtarget.AggregateScore(hits),
	}
	logging.Component(a.log, "offtarget").Info("searched",
		"targets", len(pool), "max_mismatches", opt.MaxMismatches, "hits", len(hits), "risk", q.Risk.String())

	code, err := a.writeOffTargets(q)
	if err != nil {
		return err
	}
	if code == appcore.ExitOK && len(hits) == 0 {
		code = a.cfg.Output.NoMatchExitCode
	}
	a.code = code
	return nil
}

var hitColumns = []string{"target_id", "start", "strand", "mismatches", "mismatch_idx", "site", "tier"}

func (a *app) writeOffTargets(q guide.Candidate) (int, error) {
	w := bufio.NewWriter(a.stdout)
	var err error
	switch a.cfg.Output.Format {
	case "json":
		resp := api.OffTargetResponseV1{
			Guide:          q.Guide,
			Hits:           writers.ToAPIHits(q.OffTargets),
			Risk:           q.Risk.String(),
			OffTargetScore: q.OffTargetScore,
		}
		if resp.Hits == nil {
			resp.Hits = []api.OffTargetHitV1{}
		}
		err = jsonutil.EncodePretty(w, resp)
	case "jsonl":
		in, errCh := jsonlutil.Start[api.OffTargetHitV1](w, 64, nil, writers.IsBrokenPipe)
		for _, h := range writers.ToAPIHits(q.OffTargets) {
			in <- h
		}
		close(in)
		err = <-errCh
	case "text", "tsv":
		err = writeHitTSV(w, q, a.cfg.Output.Header)
		if err == nil && a.cfg.Output.Pretty {
			_, err = io.WriteString(w, pretty.RenderCandidate(q, pretty.Options{MaxHits: len(q.OffTargets)}))
		}
	default:
		return appcore.ExitUsage, appcore.Usage(fmt.Errorf("offtarget: unsupported output format %q", a.cfg.Output.Format))
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

func writeHitTSV(w io.Writer, q guide.Candidate, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, strings.Join(hitColumns, "\t")); err != nil {
			return err
		}
	}
	for _, h := range q.OffTargets {
		idx := make([]string, len(h.MismatchIdx))
		for i, j := range h.MismatchIdx {
			idx[i] = strconv.Itoa(j)
		}
		rec := []string{h.TargetID, strconv.Itoa(h.Start), h.Strand.String(), strconv.Itoa(h.Mismatches),
			strings.Join(idx, ","), h.Site, h.Tier.String()}
		if _, err := fmt.Fprintln(w, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "# risk %s  off-target score %.1f\n", q.Risk.Label(), q.OffTargetScore)
	return err
}
