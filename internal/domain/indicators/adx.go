package indicators

import (
	"math"

	"github.com/sawpanic/ictcore/internal/domain"
)

// DirectionalIndexResult is a simplified ADX: +DM/-DM aggregated over
// diPeriod bars, reduced to a single [0,1] directional strength value
// rather than the full smoothed ADX line — the regime classifier only
// needs the scalar, not a display-ready ADX series.
type DirectionalIndexResult struct {
	Value   float64
	IsValid bool
}

// DirectionalIndex aggregates +DM and -DM over the last diPeriod bars
// and returns |+DM - -DM| / (+DM + -DM).
func DirectionalIndex(candles []domain.Candle, diPeriod int) DirectionalIndexResult {
	n := len(candles)
	if diPeriod <= 0 || n < diPeriod+1 {
		return DirectionalIndexResult{}
	}
	window := candles[n-diPeriod-1:]

	var plusDM, minusDM float64
	for i := 1; i < len(window); i++ {
		upMove := window[i].High - window[i-1].High
		downMove := window[i-1].Low - window[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM += upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM += downMove
		}
	}

	total := plusDM + minusDM
	if total == 0 {
		return DirectionalIndexResult{IsValid: true}
	}
	return DirectionalIndexResult{
		Value:   math.Abs(plusDM-minusDM) / total,
		IsValid: true,
	}
}
