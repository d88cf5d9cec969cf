package app

import (
	"strings"

	"github.com/spf13/pflag"

	"grna/core/design"
	"grna/core/offtarget"
	"grna/internal/writers"
)

// flagKeys maps flag names to config keys. Only flags of the running
// command are bound, so commands may share names.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",

	"system":          "system",
	"guide-length":    "guide-length",
	"allow-ambiguous": "allow-ambiguous",

	"min-score": "filters.min-score",
	"gc-min":    "filters.gc-min",
	"gc-max":    "filters.gc-max",
	"max-risk":  "filters.max-risk",
	"limit":     "filters.limit",

	"max-mismatches": "offtarget.max-mismatches",
	"seed-length":    "offtarget.seed-length",
	"require-pam":    "offtarget.require-pam",
	"pool":           "offtarget.pool",
	"index":          "offtarget.index",

	"gc-falloff": "scoring.gc.falloff",

	"threads":   "batch.threads",
	"max-batch": "batch.max-size",

	"output":             "output.format",
	"out":                "output.file",
	"header":             "output.header",
	"pretty":             "output.pretty",
	"off-targets":        "output.off-targets",
	"summary":            "output.summary",
	"no-match-exit-code": "output.no-match-exit-code",

	"addr": "server.addr",
}

func addSystemFlags(fs *pflag.FlagSet) {
	d := design.DefaultOptions()
	fs.StringP("system", "S", d.System, "nuclease system: SpCas9 | SaCas9 | Cas12a")
	fs.Int("guide-length", 0, "guide length override (0 = system default)")
}

func addEngineFlags(fs *pflag.FlagSet) {
	d := design.DefaultOptions()
	addSystemFlags(fs)
	fs.String("allow-ambiguous", "", "IUPAC codes to accept in input (e.g. N)")

	fs.Float64("min-score", d.Filters.MinScore, "minimum efficiency score (0-1)")
	fs.Float64("gc-min", d.Filters.GCMin, "minimum guide GC fraction")
	fs.Float64("gc-max", d.Filters.GCMax, "maximum guide GC fraction")
	fs.String("max-risk", offtarget.Exact.String(), "worst off-target risk kept: low | moderate | high | exact")
	fs.IntP("limit", "n", 0, "keep the top N candidates per sequence (0 = all)")

	fs.IntP("max-mismatches", "m", d.OffTarget.MaxMismatches, "off-target mismatch budget (0-8)")
	fs.Int("seed-length", d.OffTarget.SeedLength, "PAM-proximal seed length for risk tiers")
	fs.Bool("require-pam", false, "only count off-targets followed by a valid PAM")
	fs.Bool("index", d.UseIndex, "use the seed index for off-target search")
	fs.String("gc-falloff", "linear", "GC score falloff outside the optimal band: linear | gaussian")
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "text", "output format: "+strings.Join(writers.Formats(), " | "))
	fs.StringP("out", "O", "", "write output to this file instead of stdout")
	fs.Bool("header", true, "print a header line (text/tsv/csv)")
	fs.Bool("pretty", false, "draw off-target alignments under each row (text)")
	fs.Bool("off-targets", false, "include off-target hits (json/jsonl/xlsx)")
	fs.Int("no-match-exit-code", 1, "exit code when nothing is found")
}
