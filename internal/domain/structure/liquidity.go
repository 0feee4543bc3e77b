package structure

import "github.com/sawpanic/ictcore/internal/domain"

// LiquidityType distinguishes buy-side from sell-side liquidity.
type LiquidityType string

const (
	BSL LiquidityType = "BSL" // buy-side: equal-highs / recent-high cluster
	SSL LiquidityType = "SSL" // sell-side: equal-lows / recent-low cluster
)

// LiquidityStatus tracks whether a level has been swept.
type LiquidityStatus string

const (
	LiquidityActive LiquidityStatus = "active"
	LiquiditySwept  LiquidityStatus = "swept"
)

// LiquidityLevel is a clustered or rolling-extreme liquidity pool.
type LiquidityLevel struct {
	Type       LiquidityType
	Price      float64
	Strength   int // number of clustered touches, 1 for rolling extremes
	Status     LiquidityStatus
	SweepIndex int // -1 if not swept
}

// DetectLiquidityLevels clusters swing highs (BSL) and swing lows
// (SSL) whose prices lie within equalTolerance (fractional distance)
// of each other, requiring at least minTouches members per cluster;
// the level price is the cluster mean. It also adds a single
// rolling-lookback extreme (highest-high / lowest-low over the last
// rollingLookback bars, excluding the current index) as a
// strength-1 level. minSweepExceedance and candles are used to mark
// sweeps with wick-rejection detection.
func DetectLiquidityLevels(candles []domain.Candle, swings []SwingPoint, equalTolerance float64, minTouches int, rollingLookback int, minSweepExceedance float64) []LiquidityLevel {
	var levels []LiquidityLevel

	levels = append(levels, clusterLevels(swings, SwingHigh, BSL, equalTolerance, minTouches)...)
	levels = append(levels, clusterLevels(swings, SwingLow, SSL, equalTolerance, minTouches)...)

	if rollingExtreme, ok := rollingHigh(candles, rollingLookback); ok {
		levels = append(levels, LiquidityLevel{Type: BSL, Price: rollingExtreme, Strength: 1, SweepIndex: -1})
	}
	if rollingExtreme, ok := rollingLow(candles, rollingLookback); ok {
		levels = append(levels, LiquidityLevel{Type: SSL, Price: rollingExtreme, Strength: 1, SweepIndex: -1})
	}

	for i := range levels {
		levels[i].Status = LiquidityActive
		levels[i].SweepIndex = -1
		markSweep(&levels[i], candles, minSweepExceedance)
	}
	return levels
}

func clusterLevels(swings []SwingPoint, kind SwingKind, lt LiquidityType, tolerance float64, minTouches int) []LiquidityLevel {
	var prices []float64
	for _, s := range swings {
		if s.Kind == kind {
			prices = append(prices, s.Price)
		}
	}
	used := make([]bool, len(prices))
	var levels []LiquidityLevel

	for i, p := range prices {
		if used[i] {
			continue
		}
		cluster := []float64{p}
		used[i] = true
		for j := i + 1; j < len(prices); j++ {
			if used[j] {
				continue
			}
			if withinTolerance(p, prices[j], tolerance) {
				cluster = append(cluster, prices[j])
				used[j] = true
			}
		}
		if len(cluster) >= minTouches {
			levels = append(levels, LiquidityLevel{
				Type:     lt,
				Price:    mean(cluster),
				Strength: len(cluster),
			})
		}
	}
	return levels
}

func withinTolerance(a, b, tolerance float64) bool {
	if a == 0 {
		return false
	}
	d := (a - b) / a
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func rollingHigh(candles []domain.Candle, lookback int) (float64, bool) {
	n := len(candles)
	if lookback <= 0 || n < 2 {
		return 0, false
	}
	start := n - 1 - lookback
	if start < 0 {
		start = 0
	}
	window := candles[start : n-1]
	if len(window) == 0 {
		return 0, false
	}
	high := window[0].High
	for _, c := range window {
		if c.High > high {
			high = c.High
		}
	}
	return high, true
}

func rollingLow(candles []domain.Candle, lookback int) (float64, bool) {
	n := len(candles)
	if lookback <= 0 || n < 2 {
		return 0, false
	}
	start := n - 1 - lookback
	if start < 0 {
		start = 0
	}
	window := candles[start : n-1]
	if len(window) == 0 {
		return 0, false
	}
	low := window[0].Low
	for _, c := range window {
		if c.Low < low {
			low = c.Low
		}
	}
	return low, true
}

// markSweep finds the first bar whose high (BSL) or low (SSL) exceeds
// the level by at least minSweepExceedance and whose close returns
// inside the level (wick rejection), and marks the level swept.
func markSweep(level *LiquidityLevel, candles []domain.Candle, minSweepExceedance float64) {
	for i, c := range candles {
		if level.Type == BSL {
			exceed := (c.High - level.Price) / level.Price
			if exceed >= minSweepExceedance && c.Close < level.Price {
				level.Status = LiquiditySwept
				level.SweepIndex = i
				return
			}
		} else {
			exceed := (level.Price - c.Low) / level.Price
			if exceed >= minSweepExceedance && c.Close > level.Price {
				level.Status = LiquiditySwept
				level.SweepIndex = i
				return
			}
		}
	}
}
