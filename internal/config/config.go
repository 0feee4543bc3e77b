// Package config loads the top-level Config that aggregates the
// scorer, simulator, and walk-forward sub-configs: a
// single YAML document, strictly parsed so unknown fields are a
// ConfigError rather than silently ignored.
package config

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/sawpanic/ictcore/internal/backtest/walkforward"
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/regime"
	"github.com/sawpanic/ictcore/internal/domain/strategy"
	"github.com/sawpanic/ictcore/internal/domain/structure"
	"github.com/sawpanic/ictcore/internal/exits"
	"github.com/sawpanic/ictcore/internal/score/confluence"
)

// Config is the single structure every scorer weight/threshold, every
// simulator knob, and the walk-forward window geometry is loaded
// from, with documented defaults and no dynamic field injection —
// unknown YAML keys fail to parse.
type Config struct {
	Scorer     ScorerConfig     `yaml:"scorer"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
	WalkForward WindowConfig    `yaml:"walk_forward"`
	Friction   FrictionConfig   `yaml:"friction"`
}

type WeightsConfig struct {
	StructureAlignment   float64 `yaml:"structure_alignment"`
	KillZoneActive       float64 `yaml:"kill_zone_active"`
	LiquiditySweep       float64 `yaml:"liquidity_sweep"`
	ObProximity          float64 `yaml:"ob_proximity"`
	FvgAtCE              float64 `yaml:"fvg_at_ce"`
	RecentBOS            float64 `yaml:"recent_bos"`
	RrRatio              float64 `yaml:"rr_ratio"`
	OteZone              float64 `yaml:"ote_zone"`
	ObFvgConfluence      float64 `yaml:"ob_fvg_confluence"`
	MomentumConfirmation float64 `yaml:"momentum_confirmation"`
	ObVolumeQuality      float64 `yaml:"ob_volume_quality"`
}

type RegimeFilterConfig struct {
	Enabled          bool    `yaml:"enabled"`
	MinEfficiency    float64 `yaml:"min_efficiency"`
	MinTrendStrength float64 `yaml:"min_trend_strength"`
}

type MTFBiasConfig struct {
	Enabled         bool   `yaml:"enabled"`
	BaseTimeframe   string `yaml:"base_timeframe"`
	HigherTimeframe string `yaml:"higher_timeframe"`
}

// RegimeThresholdsConfig overrides the classifier's cascade cutoffs,
// YAML-shaped. A zero-value document falls back to
// regime.DefaultThresholds().
type RegimeThresholdsConfig struct {
	RangingThreshold       float64 `yaml:"ranging_threshold"`
	TrendingThreshold      float64 `yaml:"trending_threshold"`
	LowVolatilePercentile  float64 `yaml:"low_volatile_percentile"`
	HighVolatilePercentile float64 `yaml:"high_volatile_percentile"`
}

// ScorerConfig is the confluence scorer's enumerated configuration, YAML-shaped.
type ScorerConfig struct {
	Weights                  WeightsConfig            `yaml:"weights"`
	RegimeWeightOverrides    map[string]WeightsConfig `yaml:"regime_weight_overrides"`
	MinThreshold             float64                  `yaml:"min_threshold"`
	RegimeThresholdOverrides map[string]float64       `yaml:"regime_threshold_overrides"`
	ActiveStrategies         []string                 `yaml:"active_strategies"`
	SuppressedRegimes        []string                 `yaml:"suppressed_regimes"`
	RegimeFilter             RegimeFilterConfig       `yaml:"regime_filter"`
	ObFreshnessHalfLife      float64                  `yaml:"ob_freshness_half_life"`
	AtrExtensionBands        float64                  `yaml:"atr_extension_bands"`
	CooldownBars             int                      `yaml:"cooldown_bars"`
	RequireKillZone          bool                     `yaml:"require_kill_zone"`
	MTFBias                  MTFBiasConfig            `yaml:"mtf_bias"`
	FundingMaxForLong        float64                  `yaml:"funding_max_for_long"`
	FundingMinForShort       float64                  `yaml:"funding_min_for_short"`
	FundingScoringMode       string                   `yaml:"funding_scoring_mode"`
	RegimeConfidenceGate     float64                  `yaml:"regime_confidence_gate"`
	MaxStructureAge          int                      `yaml:"max_structure_age"`
	RegimeThresholds         RegimeThresholdsConfig   `yaml:"regime_thresholds"`
	Strategies               StrategyConfig           `yaml:"strategies"`
	Structure                StructureConfig          `yaml:"structure"`
}

type StrategyConfig struct {
	SLMode                  string  `yaml:"sl_mode"`
	MinSignalRR             float64 `yaml:"min_signal_rr"`
	DefaultRR               float64 `yaml:"default_rr"`
	ObBufferATR             float64 `yaml:"ob_buffer_atr"`
	EntrySLPercent          float64 `yaml:"entry_sl_percent"`
	DynamicRRATRMul         float64 `yaml:"dynamic_rr_atr_mul"`
	DisplacementMinPercent  float64 `yaml:"displacement_min_percent"`
	MaxStructureAge         int     `yaml:"max_structure_age"`
	AsianRangeStartHourUTC  int     `yaml:"asian_range_start_hour_utc"`
	AsianRangeEndHourUTC    int     `yaml:"asian_range_end_hour_utc"`
	AsianLongBiasMultiplier float64 `yaml:"asian_long_bias_multiplier"`
}

type StructureConfig struct {
	SwingLookback       int     `yaml:"swing_lookback"`
	SwingMinStrength    int     `yaml:"swing_min_strength"`
	DisplacementPercent float64 `yaml:"displacement_percent"`
	EqualTolerance      float64 `yaml:"equal_tolerance"`
	MinTouches          int     `yaml:"min_touches"`
	RollingLookback     int     `yaml:"rolling_lookback"`
	MinSweepExceedance  float64 `yaml:"min_sweep_exceedance"`
	PrimitiveWindow     int     `yaml:"primitive_window"`
}

// SimulatorConfig is the position simulator's knobs, YAML-shaped.
type SimulatorConfig struct {
	ExitMode                    string             `yaml:"exit_mode"`
	MaxBars                     int                `yaml:"max_bars"`
	BreakevenTriggerR           float64            `yaml:"breakeven_trigger_r"`
	BreakevenBuffer             float64            `yaml:"breakeven_buffer"`
	Partial                     *PartialTPConfig   `yaml:"partial,omitempty"`
	MultiTP                     []MultiTPLevelConfig `yaml:"multi_tp,omitempty"`
	TrailingTriggerR            float64            `yaml:"trailing_trigger_r"`
	TrailingDistanceR           float64            `yaml:"trailing_distance_r"`
	EnhancedConfidenceThreshold float64            `yaml:"enhanced_confidence_threshold"`
}

type PartialTPConfig struct {
	Fraction float64 `yaml:"fraction"`
	TriggerR float64 `yaml:"trigger_r"`
	BeBuffer float64 `yaml:"be_buffer"`
}

type MultiTPLevelConfig struct {
	TriggerR float64 `yaml:"trigger_r"`
	Fraction float64 `yaml:"fraction"`
	SlMoveR  float64 `yaml:"sl_move_r"`
}

// FrictionConfig is the commission/slippage model, YAML-shaped.
type FrictionConfig struct {
	CommissionPercent float64 `yaml:"commission_percent"`
	SlippagePercent   float64 `yaml:"slippage_percent"`
}

// WindowConfig is the walk-forward window-generation geometry, YAML-shaped.
type WindowConfig struct {
	TrainWindowBars int `yaml:"train_window_bars"`
	ValWindowBars   int `yaml:"val_window_bars"`
	SlideStepBars   int `yaml:"slide_step_bars"`
	LookbackBuffer  int `yaml:"lookback_buffer"`
}

// Load reads and strictly parses a YAML config file: unrecognized
// keys are rejected instead of silently dropped.
func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, domain.NewConfigError("yaml", err.Error())
	}
	return cfg, nil
}

func toWeights(w WeightsConfig) regime.FactorWeights {
	return regime.FactorWeights{
		StructureAlignment:   w.StructureAlignment,
		KillZoneActive:       w.KillZoneActive,
		LiquiditySweep:       w.LiquiditySweep,
		ObProximity:          w.ObProximity,
		FvgAtCE:              w.FvgAtCE,
		RecentBOS:            w.RecentBOS,
		RrRatio:              w.RrRatio,
		OteZone:              w.OteZone,
		ObFvgConfluence:      w.ObFvgConfluence,
		MomentumConfirmation: w.MomentumConfirmation,
		ObVolumeQuality:      w.ObVolumeQuality,
	}
}

func toActiveStrategies(names []string) map[domain.StrategyName]bool {
	out := map[domain.StrategyName]bool{}
	for _, n := range names {
		out[domain.StrategyName(n)] = true
	}
	return out
}

func toRegimeSet(labels []string) map[regime.Label]bool {
	out := map[regime.Label]bool{}
	for _, l := range labels {
		out[regime.Label(l)] = true
	}
	return out
}

func toRegimeThresholds(t RegimeThresholdsConfig, fallback regime.Thresholds) regime.Thresholds {
	if t == (RegimeThresholdsConfig{}) {
		return fallback
	}
	return regime.Thresholds{
		RangingThreshold:       t.RangingThreshold,
		TrendingThreshold:      t.TrendingThreshold,
		LowVolatilePercentile:  t.LowVolatilePercentile,
		HighVolatilePercentile: t.HighVolatilePercentile,
	}
}

// ToScorerConfig translates the YAML-shaped ScorerConfig into the
// confluence package's internal ScorerConfig, falling back to
// confluence.DefaultScorerConfig()'s strategy/structure sub-configs
// when the YAML document doesn't override them (all-zero struct).
func (c Config) ToScorerConfig() confluence.ScorerConfig {
	defaults := confluence.DefaultScorerConfig()
	sc := c.Scorer

	regimeOverrides := map[regime.Label]regime.FactorWeights{}
	for label, w := range sc.RegimeWeightOverrides {
		regimeOverrides[regime.Label(label)] = toWeights(w)
	}
	thresholdOverrides := map[regime.Label]float64{}
	for label, v := range sc.RegimeThresholdOverrides {
		thresholdOverrides[regime.Label(label)] = v
	}

	active := defaults.ActiveStrategies
	if len(sc.ActiveStrategies) > 0 {
		active = toActiveStrategies(sc.ActiveStrategies)
	}

	fundingMode := confluence.FundingContrarian
	if sc.FundingScoringMode == string(confluence.FundingAligned) {
		fundingMode = confluence.FundingAligned
	}

	return confluence.ScorerConfig{
		Weights:                  toWeights(sc.Weights),
		RegimeWeightOverrides:    regimeOverrides,
		MinThreshold:             sc.MinThreshold,
		RegimeThresholdOverrides: thresholdOverrides,
		ActiveStrategies:         active,
		SuppressedRegimes:        toRegimeSet(sc.SuppressedRegimes),
		RegimeThresholds:         toRegimeThresholds(sc.RegimeThresholds, defaults.RegimeThresholds),
		RegimeFilter: confluence.RegimeFilter{
			Enabled:          sc.RegimeFilter.Enabled,
			MinEfficiency:    sc.RegimeFilter.MinEfficiency,
			MinTrendStrength: sc.RegimeFilter.MinTrendStrength,
		},
		ObFreshnessHalfLife: sc.ObFreshnessHalfLife,
		AtrExtensionBands:   sc.AtrExtensionBands,
		CooldownBars:        sc.CooldownBars,
		RequireKillZone:     sc.RequireKillZone,
		MTFBias: confluence.MTFBias{
			Enabled:          sc.MTFBias.Enabled,
			HigherTimeframe:  sc.MTFBias.HigherTimeframe,
			BarsPerHigherBar: barsPerHigherBar(sc.MTFBias.BaseTimeframe, sc.MTFBias.HigherTimeframe),
		},
		FundingMaxForLong:    sc.FundingMaxForLong,
		FundingMinForShort:   sc.FundingMinForShort,
		FundingScoringMode:   fundingMode,
		RegimeConfidenceGate: sc.RegimeConfidenceGate,
		MaxStructureAge:      sc.MaxStructureAge,
		StrategyConfig:       toStrategyConfig(sc.Strategies, defaults.StrategyConfig),
		StructureConfig:      toStructureConfig(sc.Structure, defaults.StructureConfig),
	}
}

// barsPerHigherBar resolves the MTF bias ratio from two timeframe
// labels. Returns 0 (no gating, see confluence.higherTimeframeTrend)
// when either label is unset, unparseable, or the higher timeframe
// isn't an exact multiple of the base.
func barsPerHigherBar(base, higher string) int {
	if base == "" || higher == "" {
		return 0
	}
	baseMin, err := domain.TimeframeMinutes(base)
	if err != nil {
		return 0
	}
	higherMin, err := domain.TimeframeMinutes(higher)
	if err != nil {
		return 0
	}
	if baseMin <= 0 || higherMin%baseMin != 0 {
		return 0
	}
	return higherMin / baseMin
}

func toStrategyConfig(s StrategyConfig, fallback strategy.Config) strategy.Config {
	if s == (StrategyConfig{}) {
		return fallback
	}
	mode := strategy.SLModeOBBased
	switch s.SLMode {
	case string(strategy.SLModeEntryBased):
		mode = strategy.SLModeEntryBased
	case string(strategy.SLModeDynamicRR):
		mode = strategy.SLModeDynamicRR
	}
	return strategy.Config{
		SLMode:                  mode,
		MinSignalRR:             s.MinSignalRR,
		DefaultRR:               s.DefaultRR,
		ObBufferATR:             s.ObBufferATR,
		EntrySLPercent:          s.EntrySLPercent,
		DynamicRRATRMul:         s.DynamicRRATRMul,
		DisplacementMinPercent:  s.DisplacementMinPercent,
		MaxStructureAge:         s.MaxStructureAge,
		AsianRangeStartHourUTC:  s.AsianRangeStartHourUTC,
		AsianRangeEndHourUTC:    s.AsianRangeEndHourUTC,
		AsianLongBiasMultiplier: s.AsianLongBiasMultiplier,
	}
}

func toStructureConfig(s StructureConfig, fallback structure.Config) structure.Config {
	if s == (StructureConfig{}) {
		return fallback
	}
	return structure.Config{
		SwingLookback:       s.SwingLookback,
		SwingMinStrength:    s.SwingMinStrength,
		DisplacementPercent: s.DisplacementPercent,
		EqualTolerance:      s.EqualTolerance,
		MinTouches:          s.MinTouches,
		RollingLookback:     s.RollingLookback,
		MinSweepExceedance:  s.MinSweepExceedance,
		PrimitiveWindow:     s.PrimitiveWindow,
	}
}

// ToExitConfig translates the YAML-shaped SimulatorConfig into the
// exits package's Config.
func (c Config) ToExitConfig() exits.Config {
	defaults := exits.DefaultConfig()
	s := c.Simulator

	var mode domain.ExitMode
	switch s.ExitMode {
	case string(domain.ExitModeBreakeven):
		mode = domain.ExitModeBreakeven
	case string(domain.ExitModeTrailing):
		mode = domain.ExitModeTrailing
	case string(domain.ExitModeEnhanced):
		mode = domain.ExitModeEnhanced
	case string(domain.ExitModeSimple):
		mode = domain.ExitModeSimple
	default:
		mode = defaults.ExitMode
	}

	cfg := exits.Config{
		ExitMode:                    mode,
		MaxBars:                     s.MaxBars,
		BreakevenTriggerR:           s.BreakevenTriggerR,
		BreakevenBuffer:             s.BreakevenBuffer,
		TrailingTriggerR:            s.TrailingTriggerR,
		TrailingDistanceR:           s.TrailingDistanceR,
		StructureConfig:             defaults.StructureConfig,
		EnhancedConfidenceThreshold: s.EnhancedConfidenceThreshold,
	}
	if s.Partial != nil {
		cfg.Partial = &domain.PartialTP{
			Fraction: s.Partial.Fraction,
			TriggerR: s.Partial.TriggerR,
			BeBuffer: s.Partial.BeBuffer,
		}
	}
	for _, lvl := range s.MultiTP {
		cfg.MultiTP = append(cfg.MultiTP, domain.MultiTPLevel{
			TriggerR: lvl.TriggerR,
			Fraction: lvl.Fraction,
			SlMoveR:  lvl.SlMoveR,
		})
	}
	if cfg.MaxBars == 0 {
		cfg.MaxBars = defaults.MaxBars
	}
	return cfg
}

// ToFrictionConfig translates the YAML-shaped FrictionConfig.
func (c Config) ToFrictionConfig() exits.FrictionConfig {
	return exits.FrictionConfig{
		CommissionPercent: c.Friction.CommissionPercent,
		SlippagePercent:   c.Friction.SlippagePercent,
	}
}

// ToWindowConfig translates the YAML-shaped WindowConfig into the
// walkforward package's WindowConfig.
func (c Config) ToWindowConfig() walkforward.WindowConfig {
	return walkforward.WindowConfig{
		TrainWindowBars: c.WalkForward.TrainWindowBars,
		ValWindowBars:   c.WalkForward.ValWindowBars,
		SlideStepBars:   c.WalkForward.SlideStepBars,
		LookbackBuffer:  c.WalkForward.LookbackBuffer,
	}
}

// ToRunConfig assembles the walkforward.RunConfig this Config
// describes, in one call.
func (c Config) ToRunConfig() walkforward.RunConfig {
	return walkforward.RunConfig{
		Windows:  c.ToWindowConfig(),
		Scorer:   c.ToScorerConfig(),
		Exit:     c.ToExitConfig(),
		Friction: c.ToFrictionConfig(),
	}
}
