package structure

import "github.com/sawpanic/ictcore/internal/domain"

// Config bundles the lookback/tolerance knobs every primitive in this
// package needs. It is frozen once built; nothing in the package
// mutates it.
type Config struct {
	SwingLookback       int
	SwingMinStrength    int
	DisplacementPercent float64
	EqualTolerance      float64
	MinTouches          int
	RollingLookback     int
	MinSweepExceedance  float64
	PrimitiveWindow     int // max lookback bars, caps this at 500
}

// DefaultConfig returns the structure-primitive defaults used when a
// caller does not override them.
func DefaultConfig() Config {
	return Config{
		SwingLookback:       3,
		SwingMinStrength:    2,
		DisplacementPercent: 0.01,
		EqualTolerance:      0.001,
		MinTouches:          2,
		RollingLookback:     20,
		MinSweepExceedance:  0.0005,
		PrimitiveWindow:     500,
	}
}

// IctContext is the arena of primitive outputs for a single bar: each
// primitive reads only an immutable snapshot of earlier primitives'
// outputs, never a back pointer into the context that produced them
// (redesign flag).
type IctContext struct {
	Index        int
	Swings       []SwingPoint
	Breaks       []StructureBreak
	OrderBlocks  []OrderBlock
	FVGs         []FairValueGap
	Liquidity    []LiquidityLevel
	KillZone     bool
}

// BuildContext assembles an IctContext for the bar at index i using
// the windowed prefix candles[max(0,i-W):i+1], where W is cfg's
// primitive window: each primitive is called once per validation bar
// with a bounded lookback.
func BuildContext(candles []domain.Candle, i int, cfg Config) IctContext {
	start := i - cfg.PrimitiveWindow
	if start < 0 {
		start = 0
	}
	window := candles[start : i+1]

	swings := DetectSwings(window, cfg.SwingLookback, cfg.SwingMinStrength)
	breaks := DetectStructureBreaks(window, swings)
	obs := DetectOrderBlocks(window, cfg.DisplacementPercent)
	fvgs := DetectFVGs(window)
	liquidity := DetectLiquidityLevels(window, swings, cfg.EqualTolerance, cfg.MinTouches, cfg.RollingLookback, cfg.MinSweepExceedance)

	// Every primitive above was computed over the windowed slice, so
	// its bar indices are local to that window (0 at `start`). Rebase
	// them back to candles' own index space before handing them out —
	// downstream consumers (the scorer's age-decay factors, strategy
	// generators) compare these indices directly against ctx.Index,
	// which is always absolute.
	rebaseSwings(swings, start)
	rebaseBreaks(breaks, start)
	rebaseOrderBlocks(obs, start)
	rebaseFVGs(fvgs, start)
	rebaseLiquidity(liquidity, start)

	return IctContext{
		Index:       i,
		Swings:      swings,
		Breaks:      breaks,
		OrderBlocks: obs,
		FVGs:        fvgs,
		Liquidity:   liquidity,
		KillZone:    IsKillZone(candles[i].Timestamp),
	}
}

func rebaseSwings(swings []SwingPoint, start int) {
	if start == 0 {
		return
	}
	for i := range swings {
		swings[i].Index += start
	}
}

func rebaseBreaks(breaks []StructureBreak, start int) {
	if start == 0 {
		return
	}
	for i := range breaks {
		breaks[i].BreakIndex += start
		breaks[i].BrokenSwing.Index += start
	}
}

func rebaseOrderBlocks(obs []OrderBlock, start int) {
	if start == 0 {
		return
	}
	for i := range obs {
		obs[i].FormationIndex += start
	}
}

func rebaseFVGs(fvgs []FairValueGap, start int) {
	if start == 0 {
		return
	}
	for i := range fvgs {
		fvgs[i].Index += start
	}
}

func rebaseLiquidity(levels []LiquidityLevel, start int) {
	if start == 0 {
		return
	}
	for i := range levels {
		if levels[i].SweepIndex >= 0 {
			levels[i].SweepIndex += start
		}
	}
}

// IsKillZone reports whether the UTC hour of the given millisecond
// timestamp falls in the London (07-10 UTC) or New York (12-15 UTC)
// session window.
func IsKillZone(timestampMs int64) bool {
	hour := UTCHour(timestampMs)
	return (hour >= 7 && hour < 10) || (hour >= 12 && hour < 15)
}

// UTCHour returns the UTC hour-of-day (0-23) for a millisecond
// timestamp, used by session-window logic throughout the domain
// packages (kill zones, Asian range, session-overlap scoring).
func UTCHour(timestampMs int64) int {
	secondsOfDay := (timestampMs / 1000) % 86400
	if secondsOfDay < 0 {
		secondsOfDay += 86400
	}
	return int(secondsOfDay / 3600)
}
