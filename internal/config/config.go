// Package config is for app wide settings that are unmarshalled from Viper:
// defaults, then an optional grna.yaml, then GRNA_* environment variables
// (a local .env is loaded first), then command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"grna/core/design"
	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. GRNA_FILTERS_MIN_SCORE.
const EnvPrefix = "GRNA"

// FiltersConfig are the candidate thresholds.
type FiltersConfig struct {
	MinScore float64 `mapstructure:"min-score"`
	GCMin    float64 `mapstructure:"gc-min"`
	GCMax    float64 `mapstructure:"gc-max"`
	// MaxRisk is a tier name: low|moderate|high|exact
	MaxRisk string `mapstructure:"max-risk"`
	Limit   int    `mapstructure:"limit"`
}

// OffTargetConfig settings for the off-target search
type OffTargetConfig struct {
	MaxMismatches int    `mapstructure:"max-mismatches"`
	SeedLength    int    `mapstructure:"seed-length"`
	RequirePAM    bool   `mapstructure:"require-pam"`
	Pool          string `mapstructure:"pool"`
	Index         bool   `mapstructure:"index"`
}

// ScoringConfig exposes the curve parameters; the weights are fixed.
type ScoringConfig struct {
	GC                  score.GCParams                  `mapstructure:"gc"`
	SelfComplementarity score.SelfComplementarityParams `mapstructure:"self-complementarity"`
	Homopolymer         score.HomopolymerParams         `mapstructure:"homopolymer"`
}

// BatchConfig controls batch fan-out.
type BatchConfig struct {
	Threads int `mapstructure:"threads"`
	MaxSize int `mapstructure:"max-size"`
}

// OutputConfig picks the writer.
type OutputConfig struct {
	Format          string `mapstructure:"format"`
	File            string `mapstructure:"file"`
	Header          bool   `mapstructure:"header"`
	Pretty          bool   `mapstructure:"pretty"`
	OffTargets      bool   `mapstructure:"off-targets"`
	Summary         bool   `mapstructure:"summary"`
	NoMatchExitCode int    `mapstructure:"no-match-exit-code"`
}

// ServerConfig for `grna serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the root-level settings struct.
type Config struct {
	System         string          `mapstructure:"system"`
	GuideLength    int             `mapstructure:"guide-length"`
	AllowAmbiguous string          `mapstructure:"allow-ambiguous"`
	Filters        FiltersConfig   `mapstructure:"filters"`
	OffTarget      OffTargetConfig `mapstructure:"offtarget"`
	Scoring        ScoringConfig   `mapstructure:"scoring"`
	Batch          BatchConfig     `mapstructure:"batch"`
	Output         OutputConfig    `mapstructure:"output"`
	Log            logging.Options `mapstructure:"log"`
	Server         ServerConfig    `mapstructure:"server"`
}

// New returns a Viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so environment overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := design.DefaultOptions()
	sc := score.DefaultConfig()

	v.SetDefault("system", d.System)
	v.SetDefault("guide-length", 0)
	v.SetDefault("allow-ambiguous", "")

	v.SetDefault("filters.min-score", d.Filters.MinScore)
	v.SetDefault("filters.gc-min", d.Filters.GCMin)
	v.SetDefault("filters.gc-max", d.Filters.GCMax)
	v.SetDefault("filters.max-risk", d.Filters.MaxRisk.String())
	v.SetDefault("filters.limit", 0)

	v.SetDefault("offtarget.max-mismatches", d.OffTarget.MaxMismatches)
	v.SetDefault("offtarget.seed-length", d.OffTarget.SeedLength)
	v.SetDefault("offtarget.require-pam", false)
	v.SetDefault("offtarget.pool", string(design.PoolOthers))
	v.SetDefault("offtarget.index", true)

	v.SetDefault("scoring.gc.low", sc.GC.Low)
	v.SetDefault("scoring.gc.high", sc.GC.High)
	v.SetDefault("scoring.gc.falloff", string(sc.GC.Falloff))
	v.SetDefault("scoring.gc.sigma", sc.GC.Sigma)
	v.SetDefault("scoring.self-complementarity.tolerated", sc.SelfComplementarity.Tolerated)
	v.SetDefault("scoring.self-complementarity.max", sc.SelfComplementarity.Max)
	v.SetDefault("scoring.homopolymer.tolerated", sc.Homopolymer.Tolerated)
	v.SetDefault("scoring.homopolymer.max", sc.Homopolymer.Max)
	v.SetDefault("scoring.homopolymer.t-tolerated", sc.Homopolymer.TTolerated)
	v.SetDefault("scoring.homopolymer.t-max", sc.Homopolymer.TMax)

	v.SetDefault("batch.threads", 0)
	v.SetDefault("batch.max-size", design.DefaultMaxBatch)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.file", "")
	v.SetDefault("output.header", true)
	v.SetDefault("output.pretty", false)
	v.SetDefault("output.off-targets", false)
	v.SetDefault("output.summary", false)
	v.SetDefault("output.no-match-exit-code", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")
}

// Load reads .env (if present) and the config file, then decodes v.
// An empty file looks for an optional grna.yaml in the working directory.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("grna")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks settings that do not need a Designer to verify.
func (c Config) Validate() error {
	var errs []error
	if _, err := nuclease.Lookup(c.System); err != nil {
		errs = append(errs, err)
	}
	if _, err := offtarget.ParseTier(c.Filters.MaxRisk); err != nil {
		errs = append(errs, err)
	}
	switch design.PoolMode(c.OffTarget.Pool) {
	case design.PoolOthers, design.PoolAll, design.PoolSelf:
	default:
		errs = append(errs, fmt.Errorf("unknown off-target pool %q (want others|all|self)", c.OffTarget.Pool))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Batch.MaxSize < 0 {
		errs = append(errs, errors.New("batch.max-size must be ≥ 0"))
	}
	return errors.Join(errs...)
}

// DesignOptions maps the settings onto the engine's options.
func (c Config) DesignOptions() (design.Options, error) {
	risk, err := offtarget.ParseTier(c.Filters.MaxRisk)
	if err != nil {
		return design.Options{}, err
	}
	sc := score.DefaultConfig()
	sc.GC = c.Scoring.GC
	sc.SelfComplementarity = c.Scoring.SelfComplementarity
	sc.Homopolymer = c.Scoring.Homopolymer
	return design.Options{
		System:      c.System,
		GuideLength: c.GuideLength,
		Filters: design.Filters{
			MinScore: c.Filters.MinScore,
			GCMin:    c.Filters.GCMin,
			GCMax:    c.Filters.GCMax,
			MaxRisk:  risk,
			Limit:    c.Filters.Limit,
		},
		OffTarget: offtarget.Options{
			MaxMismatches: c.OffTarget.MaxMismatches,
			SeedLength:    c.OffTarget.SeedLength,
		},
		RequirePAM:     c.OffTarget.RequirePAM,
		Score:          sc,
		AllowAmbiguous: c.AllowAmbiguous,
		PoolMode:       design.PoolMode(c.OffTarget.Pool),
		Threads:        c.Batch.Threads,
		MaxBatch:       c.Batch.MaxSize,
		UseIndex:       c.OffTarget.Index,
	}, nil
}

// Designer builds a design.Designer from the settings.
func (c Config) Designer() (*design.Designer, error) {
	opts, err := c.DesignOptions()
	if err != nil {
		return nil, err
	}
	return design.New(opts)
}
