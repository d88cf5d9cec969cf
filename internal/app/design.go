package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"grna/core/sequence"
	"grna/internal/appcore"
	"grna/internal/common"
	"grna/internal/writers"
)

func (a *app) designCommand() *cobra.Command {
	var literals []string
	cmd := &cobra.Command{
		Use:   "design [flags] [FASTA...]",
		Short: "Design ranked guides for each input sequence",
		Long: `Design scans every sequence for PAM sites on both strands, scores each
guide and searches the same sequence for off-targets. Sequences are
designed independently; use 'batch' to search a set against each other.`,
		Example: `  grna design -s AAGCGGTACCTGGAAGGTAGGCCTGGAACCTGGA
  grna design -S Cas12a --min-score 0.6 -o json target.fa
  zcat genes.fa.gz | grna design --pretty -`,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if err := needInput(literals, paths); err != nil {
				return err
			}
			return a.runDesign(cmd.Context(), literals, paths)
		},
	}
	fs := cmd.Flags()
	fs.StringArrayVarP(&literals, "sequence", "s", nil, "sequence text (repeatable)")
	addEngineFlags(fs)
	addOutputFlags(fs)
	return cmd
}

func (a *app) runDesign(ctx context.Context, literals, paths []string) error {
	d, err := a.cfg.Designer()
	if err != nil {
		return appcore.Usage(err)
	}
	runID := common.NewRunID()
	log := a.log.With("run", runID)
	log.Info("design", "system", d.System().Name, "guide_length", d.System().GuideLen)

	return a.stream(ctx, func(ctx context.Context, send func(writers.Row) error) error {
		return eachInput(ctx, literals, paths, func(id, raw string) error {
			seq, err := d.Normalize(raw, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			cands, err := d.Design(seq, []sequence.Sequence{seq})
			if err != nil {
				return err
			}
			log.Debug("designed", "sequence", id, "length", seq.Len(), "candidates", len(cands))
			for _, r := range writers.RowsFor(runID, cands) {
				if err := send(r); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
