// Package confluence implements the central gatekeeper pipeline that
// turns strategy candidates into a single trade-or-wait decision per
// bar. State that spans bars (the per-strategy cooldown) is threaded
// explicitly through State rather
// than held on the scorer itself ("shared mutable scorer
// state" redesign flag) — no process-wide singleton ever exists.
package confluence

import (
	"fmt"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/regime"
	"github.com/sawpanic/ictcore/internal/domain/strategy"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// FundingScoringMode is how a futures funding rate contributes to (or
// gates) a candidate.
type FundingScoringMode string

const (
	FundingContrarian FundingScoringMode = "contrarian"
	FundingAligned    FundingScoringMode = "aligned"
)

// MTFBias is the optional higher-timeframe bias filter: a candidate is
// discarded unless its direction agrees with the trend classified on
// the resampled higher timeframe. BarsPerHigherBar is the ratio
// between the base timeframe (the candle series EvaluateBar is called
// with) and HigherTimeframe, resolved at config-load time via
// domain.TimeframeMinutes so the scorer itself stays a pure function
// of candles and never parses timeframe strings.
type MTFBias struct {
	Enabled          bool
	HigherTimeframe  string
	BarsPerHigherBar int
}

// RegimeFilter gates candidates on regime confidence/efficiency
// before any factor scoring runs.
type RegimeFilter struct {
	Enabled          bool
	MinEfficiency    float64
	MinTrendStrength float64
}

// ScorerConfig is enumerated configuration — every field
// explicit, no dynamic option injection ("configuration
// with many optional knobs" redesign flag). Unknown YAML fields are a
// ConfigError at load time (see internal/config).
type ScorerConfig struct {
	Weights                  regime.FactorWeights
	RegimeWeightOverrides    map[regime.Label]regime.FactorWeights
	MinThreshold             float64
	RegimeThresholdOverrides map[regime.Label]float64
	ActiveStrategies         map[domain.StrategyName]bool
	SuppressedRegimes        map[regime.Label]bool
	RegimeThresholds         regime.Thresholds
	RegimeFilter             RegimeFilter
	ObFreshnessHalfLife      float64
	AtrExtensionBands        float64
	CooldownBars             int
	RequireKillZone          bool
	MTFBias                  MTFBias
	FundingMaxForLong        float64
	FundingMinForShort       float64
	FundingScoringMode       FundingScoringMode
	RegimeConfidenceGate     float64
	MaxStructureAge          int
	StrategyConfig           strategy.Config
	StructureConfig          structure.Config
}

// DefaultScorerConfig returns the built-in defaults: all five
// strategies active, no regime suppression, a moderate global
// threshold, and a 2.5x ATR extension band. RegimeWeightOverrides is
// pre-populated with the built-in weight set for every compound
// trend+volatility label so weighting adapts to regime out of the box;
// a caller that wants a single static weight set regardless of regime
// can replace the map with an empty one.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Weights:               regime.NeutralWeights(),
		RegimeWeightOverrides: defaultRegimeWeightOverrides(),
		MinThreshold:          0.55,
		RegimeThresholdOverrides: map[regime.Label]float64{
			regime.Label("ranging+high"):   0.65,
			regime.Label("uptrend+high"):   0.65,
			regime.Label("downtrend+high"): 0.65,
		},
		ActiveStrategies: map[domain.StrategyName]bool{
			domain.StrategyOrderBlock:      true,
			domain.StrategyFVG:             true,
			domain.StrategyBOSContinuation: true,
			domain.StrategyCHoCHReversal:   true,
			domain.StrategyAsianRangeGold:  true,
		},
		SuppressedRegimes: map[regime.Label]bool{},
		RegimeThresholds:  regime.DefaultThresholds(),
		RegimeFilter: RegimeFilter{
			Enabled:          true,
			MinEfficiency:    0.0,
			MinTrendStrength: 0.0,
		},
		ObFreshnessHalfLife:  20,
		AtrExtensionBands:    2.5,
		CooldownBars:         8,
		MTFBias:              MTFBias{Enabled: false},
		FundingMaxForLong:    0.0006,
		FundingMinForShort:   -0.0006,
		FundingScoringMode:   FundingContrarian,
		RegimeConfidenceGate: 0.0,
		MaxStructureAge:      20,
		StrategyConfig:       strategy.DefaultConfig(),
		StructureConfig:      structure.DefaultConfig(),
	}
}

// Validate rejects a ScorerConfig at construction time rather than
// letting bad weights/thresholds surface mid-run: negative weights,
// a NaN threshold, or suppressed/threshold-override regime labels
// that don't match a known classification all return a ConfigError.
func Validate(cfg ScorerConfig) error {
	if err := regime.Validate(cfg.Weights); err != nil {
		return domain.NewConfigError("weights", err.Error())
	}
	for label, w := range cfg.RegimeWeightOverrides {
		if err := regime.Validate(w); err != nil {
			return domain.NewConfigError(fmt.Sprintf("regimeWeightOverrides[%s]", label), err.Error())
		}
	}
	if cfg.MinThreshold != cfg.MinThreshold { // NaN
		return domain.NewConfigError("minThreshold", "must not be NaN")
	}
	for label := range cfg.SuppressedRegimes {
		if _, err := regime.ParseLabel(string(label)); err != nil {
			return domain.NewConfigError("suppressedRegimes", err.Error())
		}
	}
	for label := range cfg.RegimeThresholdOverrides {
		if _, err := regime.ParseLabel(string(label)); err != nil {
			return domain.NewConfigError("regimeThresholdOverrides", err.Error())
		}
	}
	if len(cfg.ActiveStrategies) == 0 {
		return domain.NewConfigError("activeStrategies", "must not be empty")
	}
	if cfg.CooldownBars < 0 {
		return domain.NewConfigError("cooldownBars", "must not be negative")
	}
	if cfg.AtrExtensionBands <= 0 {
		return domain.NewConfigError("atrExtensionBands", "must be positive")
	}
	if cfg.MTFBias.Enabled && cfg.MTFBias.BarsPerHigherBar <= 1 {
		return domain.NewConfigError("mtfBias", "enabled but higherTimeframe did not resolve to a multiple of the base timeframe")
	}
	return nil
}

func defaultRegimeWeightOverrides() map[regime.Label]regime.FactorWeights {
	trends := []regime.TrendLabel{regime.TrendUptrend, regime.TrendDowntrend, regime.TrendRanging}
	vols := []regime.VolatilityLabel{regime.VolatilityLow, regime.VolatilityNormal, regime.VolatilityHigh}
	out := map[regime.Label]regime.FactorWeights{}
	for _, trend := range trends {
		for _, vol := range vols {
			m := regime.MarketRegime{Trend: trend, Volatility: vol}
			out[m.Label()] = regime.DefaultWeightsFor(m)
		}
	}
	return out
}

// weightsFor resolves the effective weight set for a regime: an
// override keyed on its compound label if one is configured, else the
// config's base weights.
func weightsFor(cfg ScorerConfig, reg regime.MarketRegime) regime.FactorWeights {
	if w, ok := cfg.RegimeWeightOverrides[reg.Label()]; ok {
		return w
	}
	return cfg.Weights
}

// thresholdFor resolves the effective pass threshold for a regime: an
// override keyed on its compound label if configured, else the global
// minimum.
func thresholdFor(cfg ScorerConfig, reg regime.MarketRegime) float64 {
	if t, ok := cfg.RegimeThresholdOverrides[reg.Label()]; ok {
		return t
	}
	return cfg.MinThreshold
}
