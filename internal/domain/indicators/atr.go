// Package indicators implements the pure numeric building blocks the
// regime detector and strategy generators are layered on: ATR,
// efficiency ratio, and a simplified directional index. Wilder
// smoothing and explicit Result structs, re-expressed over
// domain.Candle.
package indicators

import (
	"math"

	"github.com/sawpanic/ictcore/internal/domain"
)

// ATRResult is the outcome of an Average True Range calculation.
type ATRResult struct {
	Value   float64
	Period  int
	IsValid bool
}

// trueRange computes max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(c, prev domain.Candle) float64 {
	hl := c.High - c.Low
	hc := math.Abs(c.High - prev.Close)
	lc := math.Abs(c.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// CalculateATR computes Wilder's average true range over the whole
// slice: the mean of the first period true ranges, Wilder-smoothed
// through every later bar (so the prefix must contain at least
// period+1 bars). Returns IsValid=false with Value=0 when there is
// insufficient data — the caller, never this function, decides what
// a degenerate ATR means for its own computation.
func CalculateATR(candles []domain.Candle, period int) ATRResult {
	if period <= 0 || len(candles) < period+1 {
		return ATRResult{Period: period}
	}

	trueRanges := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		trueRanges = append(trueRanges, trueRange(candles[i], candles[i-1]))
	}
	if len(trueRanges) < period {
		return ATRResult{Period: period}
	}

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trueRanges[i]
	}
	atr /= float64(period)

	alpha := 1.0 / float64(period)
	for i := period; i < len(trueRanges); i++ {
		atr = atr*(1-alpha) + trueRanges[i]*alpha
	}

	return ATRResult{Value: atr, Period: period, IsValid: true}
}

// ATRPercent returns atr / close[last], 0 if close is non-positive.
func ATRPercent(candles []domain.Candle, period int) float64 {
	if len(candles) == 0 {
		return 0
	}
	atr := CalculateATR(candles, period)
	last := candles[len(candles)-1].Close
	if !atr.IsValid || last <= 0 {
		return 0
	}
	return atr.Value / last
}

// ATRPercentile samples historical ATR% across the rolling window at
// a stride of max(1, (len-period)/50) and returns the fraction of samples at
// or below the current ATR%.
func ATRPercentile(candles []domain.Candle, period int) float64 {
	n := len(candles)
	if n < period+2 {
		return 0
	}
	current := ATRPercent(candles, period)

	stride := (n - period) / 50
	if stride < 1 {
		stride = 1
	}

	samples := 0
	leCount := 0
	for end := period + 1; end <= n; end += stride {
		sampleATRPercent := ATRPercent(candles[:end], period)
		samples++
		if sampleATRPercent <= current {
			leCount++
		}
	}
	if samples == 0 {
		return 0
	}
	return float64(leCount) / float64(samples)
}
