package app

import (
	"context"

	"github.com/spf13/cobra"

	"grna/core/design"
	"grna/internal/appcore"
	"grna/internal/batchio"
	"grna/internal/common"
	"grna/internal/logging"
	"grna/internal/summary"
	"grna/internal/writers"
)

func (a *app) batchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [flags] FILE",
		Short: "Design guides for a batch of sequences",
		Long: `Batch reads up to --max-batch sequences from FASTA, CSV or plain text
(one sequence per line, or name,sequence with an optional header) and
designs guides for each. Off-targets are searched in the other sequences
of the batch (--pool others), the whole batch (all) or each sequence
alone (self). A bad sequence is reported and skipped; the rest still run.`,
		Example: `  grna batch targets.csv
  grna batch --pool all --summary -o xlsx -O guides.xlsx targets.fa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd.Context(), args[0])
		},
	}
	fs := cmd.Flags()
	addEngineFlags(fs)
	addOutputFlags(fs)
	fs.String("pool", string(design.PoolOthers), "off-target pool: others | all | self")
	fs.IntP("threads", "t", 0, "sequences designed in parallel (0 = all CPUs)")
	fs.Int("max-batch", design.DefaultMaxBatch, "largest accepted batch (0 = unlimited)")
	fs.Bool("summary", false, "print score statistics to stderr when done")
	return cmd
}

func (a *app) runBatch(ctx context.Context, path string) error {
	d, err := a.cfg.Designer()
	if err != nil {
		return appcore.Usage(err)
	}
	entries, err := batchio.Read(ctx, path)
	if err != nil {
		return appcore.Usage(err)
	}
	runID := common.NewRunID()
	log := logging.Component(a.log, "batch").With("run", runID)
	log.Info("batch", "sequences", len(entries), "system", d.System().Name, "pool", d.Options().PoolMode)

	var results []design.Result
	err = a.stream(ctx, func(ctx context.Context, send func(writers.Row) error) error {
		var perr error
		results, perr = d.ProcessBatch(ctx, entries, func(done, total int) {
			log.Debug("progress", "done", done, "total", total)
		})
		if results == nil {
			return perr
		}
		for _, r := range results {
			switch r.Status {
			case design.StatusFailed:
				log.Warn("sequence failed", "index", r.Index, "name", r.Name, "err", r.Err)
			case design.StatusSucceeded:
				for _, row := range writers.RowsFor(runID, r.Candidates) {
					if err := send(row); err != nil {
						return err
					}
				}
			}
		}
		return perr
	})
	if err != nil || !a.cfg.Output.Summary || results == nil {
		return err
	}
	sum, err := summary.Build(runID, results)
	if err != nil {
		return err
	}
	return summary.Write(a.stderr, sum)
}
