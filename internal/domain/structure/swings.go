// Package structure implements the pure market-structure primitives:
// swing points, BOS/CHoCH, order blocks, fair value gaps, and
// liquidity levels/sweeps. Every function here depends only on the
// candle prefix passed to it — no primitive ever looks at a bar past
// the one it is evaluating.
package structure

import "github.com/sawpanic/ictcore/internal/domain"

// SwingKind distinguishes a swing-high from a swing-low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a confirmed local extreme.
type SwingPoint struct {
	Price     float64
	Index     int
	Timestamp int64
	Kind      SwingKind
	Strength  int // bars it dominates on both sides
}

// DetectSwings finds every swing high/low in candles using a
// symmetric lookback window: a swing at i requires
// i in [lookback, len-lookback) and high[i] >= high[j] for every
// j in [i-lookback, i+lookback] \ {i} (symmetric for lows, with <=).
// Against the immediate neighbors (i-1, i+1) the inequality is strict,
// so two adjacent bars with equal highs (or lows) both fail and yield
// no swing; an equal bar further away in the window disqualifies
// neither. minStrength filters out swings whose dominated-neighbor count is
// below the threshold.
func DetectSwings(candles []domain.Candle, lookback, minStrength int) []SwingPoint {
	if lookback < 2 {
		return nil
	}
	n := len(candles)
	var swings []SwingPoint

	for i := lookback; i < n-lookback; i++ {
		if isSwingHigh(candles, i, lookback) {
			strength := dominanceStrength(candles, i, lookback, true)
			if strength >= minStrength {
				swings = append(swings, SwingPoint{
					Price:     candles[i].High,
					Index:     i,
					Timestamp: candles[i].Timestamp,
					Kind:      SwingHigh,
					Strength:  strength,
				})
			}
		}
		if isSwingLow(candles, i, lookback) {
			strength := dominanceStrength(candles, i, lookback, false)
			if strength >= minStrength {
				swings = append(swings, SwingPoint{
					Price:     candles[i].Low,
					Index:     i,
					Timestamp: candles[i].Timestamp,
					Kind:      SwingLow,
					Strength:  strength,
				})
			}
		}
	}
	return swings
}

// DetectSwingsStreaming is DetectSwings restricted to swings that are
// final with respect to currentIndex: a swing at i is only emitted
// once i+lookback < currentIndex, so a later confirmation window
// cannot still be open. Used by online/incremental callers; offline
// batch callers should use DetectSwings directly since the full
// series is already final.
func DetectSwingsStreaming(candles []domain.Candle, lookback, minStrength, currentIndex int) []SwingPoint {
	all := DetectSwings(candles, lookback, minStrength)
	out := all[:0:0]
	for _, s := range all {
		if s.Index+lookback < currentIndex {
			out = append(out, s)
		}
	}
	return out
}

func isSwingHigh(candles []domain.Candle, i, lookback int) bool {
	h := candles[i].High
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i {
			continue
		}
		if candles[j].High > h {
			return false
		}
		// Strict inequality against immediate neighbors: an equal
		// adjacent high disqualifies this bar.
		if (j == i-1 || j == i+1) && candles[j].High == h {
			return false
		}
	}
	return true
}

func isSwingLow(candles []domain.Candle, i, lookback int) bool {
	l := candles[i].Low
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i {
			continue
		}
		if candles[j].Low < l {
			return false
		}
		if (j == i-1 || j == i+1) && candles[j].Low == l {
			return false
		}
	}
	return true
}

// dominanceStrength counts how many bars on both sides the swing
// dominates or equals (>= for highs, <= for lows), up to the lookback
// window.
func dominanceStrength(candles []domain.Candle, i, lookback int, high bool) int {
	count := 0
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i || j < 0 || j >= len(candles) {
			continue
		}
		if high {
			if candles[i].High >= candles[j].High {
				count++
			}
		} else {
			if candles[i].Low <= candles[j].Low {
				count++
			}
		}
	}
	return count
}
