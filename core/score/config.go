// Package score rates guide sequences on four independent factors and
// combines them into a composite efficiency score.
package score

import (
	"errors"
	"fmt"
	"math"
)

// Weights of the composite. They are a fixed calibration and must sum to 1.
type Weights struct {
	GC                  float64
	SelfComplementarity float64
	Homopolymer         float64
	Position            float64
}

// DefaultWeights is the published calibration: 25% GC, 25% hairpin, 20% homopolymer, 30% position.
var DefaultWeights = Weights{GC: 0.25, SelfComplementarity: 0.25, Homopolymer: 0.20, Position: 0.30}

func (w Weights) Sum() float64 { return w.GC + w.SelfComplementarity + w.Homopolymer + w.Position }

// Falloff shapes the GC curve outside the optimal band.
type Falloff string

const (
	Linear   Falloff = "linear"
	Gaussian Falloff = "gaussian"
)

// GCParams: 1.0 inside [Low, High], decaying toward 0% and 100%.
type GCParams struct {
	Low     float64 `mapstructure:"low"`
	High    float64 `mapstructure:"high"`
	Falloff Falloff `mapstructure:"falloff"`
	Sigma   float64 `mapstructure:"sigma"` // gaussian only
}

// SelfComplementarityParams bound the longest self-complementary run.
type SelfComplementarityParams struct {
	Tolerated int `mapstructure:"tolerated"`
	Max       int `mapstructure:"max"`
}

// HomopolymerParams bound single-base runs; T has its own, stricter limits.
type HomopolymerParams struct {
	Tolerated  int `mapstructure:"tolerated"`
	Max        int `mapstructure:"max"`
	TTolerated int `mapstructure:"t-tolerated"`
	TMax       int `mapstructure:"t-max"`
}

// Config is the full scoring calibration.
type Config struct {
	Weights             Weights
	GC                  GCParams
	SelfComplementarity SelfComplementarityParams
	Homopolymer         HomopolymerParams
	Position            PositionTable
}

// DefaultConfig returns the documented calibration.
func DefaultConfig() Config {
	return Config{
		Weights:             DefaultWeights,
		GC:                  GCParams{Low: 0.45, High: 0.65, Falloff: Linear, Sigma: 0.15},
		SelfComplementarity: SelfComplementarityParams{Tolerated: 5, Max: 12},
		Homopolymer:         HomopolymerParams{Tolerated: 3, Max: 5, TTolerated: 3, TMax: 4},
		Position:            DefaultPositionTable(),
	}
}

const weightTolerance = 1e-9

// Validate checks internal consistency of the calibration.
func (c Config) Validate() error {
	var errs []error
	if s := c.Weights.Sum(); math.Abs(s-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("weights must sum to 1, got %g", s))
	}
	if c.Weights.GC < 0 || c.Weights.SelfComplementarity < 0 || c.Weights.Homopolymer < 0 || c.Weights.Position < 0 {
		errs = append(errs, errors.New("weights must be ≥ 0"))
	}
	if c.GC.Low <= 0 || c.GC.High >= 1 || c.GC.Low > c.GC.High {
		errs = append(errs, fmt.Errorf("gc band must satisfy 0 < low ≤ high < 1, got [%g, %g]", c.GC.Low, c.GC.High))
	}
	switch c.GC.Falloff {
	case Linear:
	case Gaussian:
		if c.GC.Sigma <= 0 {
			errs = append(errs, errors.New("gc sigma must be > 0 for gaussian falloff"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown gc falloff %q", c.GC.Falloff))
	}
	if c.SelfComplementarity.Tolerated < 0 || c.SelfComplementarity.Max <= c.SelfComplementarity.Tolerated {
		errs = append(errs, errors.New("self-complementarity max must exceed tolerated"))
	}
	h := c.Homopolymer
	if h.Tolerated < 1 || h.Max <= h.Tolerated || h.TTolerated < 1 || h.TMax <= h.TTolerated {
		errs = append(errs, errors.New("homopolymer max must exceed tolerated (for T as well)"))
	}
	if h.TMax > h.Max || h.TTolerated > h.Tolerated {
		errs = append(errs, errors.New("homopolymer limits for T must not be looser than for other bases"))
	}
	if err := c.Position.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
