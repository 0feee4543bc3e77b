package structure

import "github.com/sawpanic/ictcore/internal/domain"

// FVGType is the direction of the imbalance.
type FVGType string

const (
	FVGBullish FVGType = "bullish"
	FVGBearish FVGType = "bearish"
)

// FairValueGap is a three-bar price imbalance.
type FairValueGap struct {
	Type      FVGType
	High      float64
	Low       float64
	Timestamp int64
	Index     int // the third (last) bar of the triplet
	Filled    bool
}

// CE returns the consequent encroachment: the midpoint of the gap.
func (f FairValueGap) CE() float64 { return (f.High + f.Low) / 2 }

// DetectFVGs scans every (i-2,i-1,i) triplet in candles for an
// imbalance: bullish when low[i] > high[i-2], bearish when
// high[i] < low[i-2]. filled is computed against the full candles
// slice passed in — callers evaluating bar-by-bar should pass the
// prefix ending at the bar they are evaluating.
func DetectFVGs(candles []domain.Candle) []FairValueGap {
	var gaps []FairValueGap
	n := len(candles)
	for i := 2; i < n; i++ {
		if candles[i].Low > candles[i-2].High {
			gap := FairValueGap{
				Type:      FVGBullish,
				High:      candles[i].Low,
				Low:       candles[i-2].High,
				Timestamp: candles[i].Timestamp,
				Index:     i,
			}
			gap.Filled = isFVGFilled(candles, gap, i+1)
			gaps = append(gaps, gap)
		}
		if candles[i].High < candles[i-2].Low {
			gap := FairValueGap{
				Type:      FVGBearish,
				High:      candles[i-2].Low,
				Low:       candles[i].High,
				Timestamp: candles[i].Timestamp,
				Index:     i,
			}
			gap.Filled = isFVGFilled(candles, gap, i+1)
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// RefreshFill recomputes Filled for an FVG against a newer prefix. A
// gap can only transition unfilled -> filled, never the reverse.
func RefreshFill(gap FairValueGap, candles []domain.Candle) FairValueGap {
	if gap.Filled {
		return gap
	}
	gap.Filled = isFVGFilled(candles, gap, gap.Index+1)
	return gap
}

func isFVGFilled(candles []domain.Candle, gap FairValueGap, from int) bool {
	ce := gap.CE()
	for k := from; k < len(candles); k++ {
		if candles[k].Low <= ce && candles[k].High >= ce {
			return true
		}
	}
	return false
}

// AtCE reports whether the current bar's range crosses the gap's CE
// and the gap is not already filled — used by the fvgAtCE confluence
// factor and the fvg strategy's trigger.
func AtCE(gap FairValueGap, bar domain.Candle) bool {
	if gap.Filled {
		return false
	}
	ce := gap.CE()
	return bar.Low <= ce && bar.High >= ce
}
