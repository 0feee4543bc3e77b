// Package regime classifies the prevailing market regime from a
// continuous set of diagnostics: trend efficiency, volatility
// percentile, and directional strength. It reads no
// wall-clock time and no venue data — every input is a candle prefix.
package regime

import (
	"fmt"
	"math"
	"strings"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/indicators"
)

// TrendLabel is the directional axis of a classified regime.
type TrendLabel string

const (
	TrendUptrend   TrendLabel = "uptrend"
	TrendDowntrend TrendLabel = "downtrend"
	TrendRanging   TrendLabel = "ranging"
)

// VolatilityLabel is the dispersion axis of a classified regime,
// orthogonal to TrendLabel.
type VolatilityLabel string

const (
	VolatilityLow    VolatilityLabel = "low"
	VolatilityNormal VolatilityLabel = "normal"
	VolatilityHigh   VolatilityLabel = "high"
)

// Label is the compound "trend+volatility" key (e.g. "ranging+high")
// used wherever regime-conditioned configuration needs to address both
// axes together, such as a scorer's suppressed-regime set.
type Label string

func makeLabel(t TrendLabel, v VolatilityLabel) Label {
	return Label(string(t) + "+" + string(v))
}

// ParseLabel parses a compound "trend+volatility" string (as found in
// a YAML-configured suppressed-regime list) back into its two axes,
// rejecting anything that doesn't name a known trend and a known
// volatility label.
func ParseLabel(s string) (Label, error) {
	parts := strings.SplitN(s, "+", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("regime label %q must be of the form trend+volatility", s)
	}
	trend := TrendLabel(parts[0])
	vol := VolatilityLabel(parts[1])
	switch trend {
	case TrendUptrend, TrendDowntrend, TrendRanging:
	default:
		return "", fmt.Errorf("regime label %q has unknown trend %q", s, parts[0])
	}
	switch vol {
	case VolatilityLow, VolatilityNormal, VolatilityHigh:
	default:
		return "", fmt.Errorf("regime label %q has unknown volatility %q", s, parts[1])
	}
	return makeLabel(trend, vol), nil
}

// Diagnostics are the continuous indicators the classifier reduces to
// a trend/volatility label pair. They are exposed on MarketRegime so
// downstream components (the confluence scorer's regime-aware
// weighting) can read the raw numbers instead of just the labels.
type Diagnostics struct {
	EfficiencyRatio  float64
	ATRPercent       float64
	ATRPercentile    float64
	DirectionalIndex float64
	NormalizedSlope  float64
	TrendStrength    float64 // |DirectionalIndex| * EfficiencyRatio, in [0,1]
}

// MarketRegime is the classifier's output for a single bar: an
// independent trend classification and volatility classification,
// never collapsed into one enum.
type MarketRegime struct {
	Trend       TrendLabel
	Volatility  VolatilityLabel
	Confidence  float64 // in [0,1]
	Diagnostics Diagnostics
}

// Label returns the compound "trend+volatility" key for this regime.
func (m MarketRegime) Label() Label {
	return makeLabel(m.Trend, m.Volatility)
}

// Thresholds are the configurable cutoffs the classification cascade
// compares diagnostics against.
type Thresholds struct {
	RangingThreshold       float64 // efficiency below this, with low trend strength, is ranging
	TrendingThreshold      float64 // efficiency at or above this is trending regardless of slope
	LowVolatilePercentile  float64 // ATR percentile at or below this is low volatility
	HighVolatilePercentile float64 // ATR percentile at or above this is high volatility
}

// DefaultThresholds returns the built-in cascade cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RangingThreshold:       0.3,
		TrendingThreshold:      0.6,
		LowVolatilePercentile:  0.20,
		HighVolatilePercentile: 0.80,
	}
}

const (
	minBarsForClassification = 20
	lookback                 = 14
	atrPeriod                = 14
	slopeScale               = 0.02
)

// Classify computes the market regime at the last bar of candles. The
// caller is responsible for passing only the prefix up to and
// including the bar being evaluated — Classify never looks ahead.
//
// Trend and volatility are classified independently. Trend follows a
// four-branch cascade: ranging if efficiency is below
// thresholds.RangingThreshold and trend strength is below 0.3;
// otherwise trending if efficiency is at or above
// thresholds.TrendingThreshold or trend strength is at or above 0.4;
// otherwise trending if the normalized slope magnitude exceeds 0.3;
// otherwise ranging. Confidence is the geometric mean of the trend's
// distance from its decision boundary and the volatility's distance
// from its decision boundary.
func Classify(candles []domain.Candle, thresholds Thresholds) MarketRegime {
	n := len(candles)
	if n < minBarsForClassification {
		return MarketRegime{Trend: TrendRanging, Volatility: VolatilityNormal, Confidence: 0}
	}

	er := indicators.EfficiencyRatio(candles, lookback)
	atrPct := indicators.ATRPercent(candles, atrPeriod)
	atrPctile := indicators.ATRPercentile(candles, atrPeriod)
	di := indicators.DirectionalIndex(candles, atrPeriod)
	slope := indicators.NormalizedSlope(candles, lookback, slopeScale)

	trendStrength := clamp01(di.Value * er)

	diag := Diagnostics{
		EfficiencyRatio:  er,
		ATRPercent:       atrPct,
		ATRPercentile:    atrPctile,
		DirectionalIndex: di.Value,
		NormalizedSlope:  slope,
		TrendStrength:    trendStrength,
	}

	trend := classifyTrend(er, trendStrength, slope, thresholds)
	vol := classifyVolatility(atrPctile, thresholds)

	return MarketRegime{
		Trend:       trend,
		Volatility:  vol,
		Confidence:  clamp01(confidence(er, atrPctile, thresholds)),
		Diagnostics: diag,
	}
}

func classifyTrend(er, trendStrength, slope float64, t Thresholds) TrendLabel {
	isTrending := false
	switch {
	case er < t.RangingThreshold && trendStrength < 0.3:
		isTrending = false
	case er >= t.TrendingThreshold || trendStrength >= 0.4:
		isTrending = true
	case math.Abs(slope) > 0.3:
		isTrending = true
	default:
		isTrending = false
	}
	if !isTrending {
		return TrendRanging
	}
	if slope >= 0 {
		return TrendUptrend
	}
	return TrendDowntrend
}

func classifyVolatility(atrPctile float64, t Thresholds) VolatilityLabel {
	if atrPctile >= t.HighVolatilePercentile {
		return VolatilityHigh
	}
	if atrPctile <= t.LowVolatilePercentile {
		return VolatilityLow
	}
	return VolatilityNormal
}

// confidence is the geometric mean of how far efficiency sits from the
// trend cascade's decision boundary and how far the ATR percentile
// sits from the volatility bands' decision boundary.
func confidence(er, atrPctile float64, t Thresholds) float64 {
	trendMid := (t.RangingThreshold + t.TrendingThreshold) / 2
	trendHalfSpan := (t.TrendingThreshold - t.RangingThreshold) / 2
	trendDist := 0.0
	if trendHalfSpan > 0 {
		trendDist = clamp01(math.Abs(er-trendMid) / trendHalfSpan)
	}

	volMid := (t.LowVolatilePercentile + t.HighVolatilePercentile) / 2
	volHalfSpan := (t.HighVolatilePercentile - t.LowVolatilePercentile) / 2
	volDist := 0.0
	if volHalfSpan > 0 {
		volDist = clamp01(math.Abs(atrPctile-volMid) / volHalfSpan)
	}

	return math.Sqrt(trendDist * volDist)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
