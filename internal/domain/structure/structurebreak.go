package structure

import "github.com/sawpanic/ictcore/internal/domain"

// BreakDirection is the direction of a structure break.
type BreakDirection string

const (
	BreakBullish BreakDirection = "bullish"
	BreakBearish BreakDirection = "bearish"
)

// BreakKind distinguishes a continuation (BOS) from the first
// counter-trend break (CHoCH).
type BreakKind string

const (
	KindBOS   BreakKind = "BOS"
	KindCHoCH BreakKind = "CHoCH"
)

// TrendState is the running trend the BOS/CHoCH state machine tracks.
type TrendState string

const (
	TrendUnknown TrendState = "unknown"
	TrendBullish TrendState = "bullish"
	TrendBearish TrendState = "bearish"
)

// StructureBreak is an emitted BOS or CHoCH event.
type StructureBreak struct {
	Kind        BreakKind
	Direction   BreakDirection
	BreakIndex  int // bar whose close breached the level
	BrokenSwing SwingPoint
	BreakPrice  float64
}

// DetectStructureBreaks walks swings in index order and, for the most
// recent swing high and swing low at each step, records the first
// later close that breaks it. The breaks are then classified in
// BreakIndex order against a running trend state (initially unknown):
// a BOS when the break is in the trend direction, a CHoCH when it is
// against the trend (and flips the state). If both directions break on
// the same bar, CHoCH wins (tie-break).
func DetectStructureBreaks(candles []domain.Candle, swings []SwingPoint) []StructureBreak {
	trend := TrendUnknown
	var breaks []StructureBreak

	var lastHigh, lastLow *SwingPoint
	brokenHigh := map[int]bool{}
	brokenLow := map[int]bool{}

	for _, sw := range swings {
		if sw.Kind == SwingHigh {
			lastHigh = swingCopy(sw)
		} else {
			lastLow = swingCopy(sw)
		}

		if lastHigh != nil && !brokenHigh[lastHigh.Index] {
			if k := closeBreaksAfter(candles, *lastHigh, true); k >= 0 {
				brokenHigh[lastHigh.Index] = true
				breaks = append(breaks, StructureBreak{
					Direction:   BreakBullish,
					BreakIndex:  k,
					BrokenSwing: *lastHigh,
					BreakPrice:  candles[k].Close,
				})
			}
		}
		if lastLow != nil && !brokenLow[lastLow.Index] {
			if k := closeBreaksAfter(candles, *lastLow, false); k >= 0 {
				brokenLow[lastLow.Index] = true
				breaks = append(breaks, StructureBreak{
					Direction:   BreakBearish,
					BreakIndex:  k,
					BrokenSwing: *lastLow,
					BreakPrice:  candles[k].Close,
				})
			}
		}
	}

	// Stable insertion sort by BreakIndex, then classify chronologically.
	for a := 1; a < len(breaks); a++ {
		for b := a; b > 0 && breaks[b].BreakIndex < breaks[b-1].BreakIndex; b-- {
			breaks[b], breaks[b-1] = breaks[b-1], breaks[b]
		}
	}
	for i := range breaks {
		breaks[i].Kind, trend = classifyBreak(trend, breaks[i].Direction)
	}

	return resolveSameBarTies(breaks)
}

func swingCopy(s SwingPoint) *SwingPoint { c := s; return &c }

// closeBreaksAfter returns the first bar index after the swing whose
// close breaches it (above for a swing high, below for a swing low),
// or -1 if none does.
func closeBreaksAfter(candles []domain.Candle, swing SwingPoint, high bool) int {
	for k := swing.Index + 1; k < len(candles); k++ {
		if high && candles[k].Close > swing.Price {
			return k
		}
		if !high && candles[k].Close < swing.Price {
			return k
		}
	}
	return -1
}

// classifyBreak determines whether a break in the given direction is
// a BOS (continues trend) or CHoCH (first break against it, flips
// state), and returns the resulting trend.
func classifyBreak(trend TrendState, dir BreakDirection) (BreakKind, TrendState) {
	wantTrend := TrendBullish
	if dir == BreakBearish {
		wantTrend = TrendBearish
	}
	if trend == TrendUnknown || trend == wantTrend {
		return KindBOS, wantTrend
	}
	return KindCHoCH, wantTrend
}

// resolveSameBarTies enforces "CHoCH wins" when a bullish and bearish
// break land on the same BreakIndex: drop the BOS, keep the CHoCH.
func resolveSameBarTies(breaks []StructureBreak) []StructureBreak {
	byBar := map[int][]int{} // breakIndex -> positions in breaks
	for i, b := range breaks {
		byBar[b.BreakIndex] = append(byBar[b.BreakIndex], i)
	}
	drop := map[int]bool{}
	for _, positions := range byBar {
		if len(positions) < 2 {
			continue
		}
		hasCHoCH := false
		for _, p := range positions {
			if breaks[p].Kind == KindCHoCH {
				hasCHoCH = true
			}
		}
		if hasCHoCH {
			for _, p := range positions {
				if breaks[p].Kind == KindBOS {
					drop[p] = true
				}
			}
		}
	}
	out := breaks[:0:0]
	for i, b := range breaks {
		if !drop[i] {
			out = append(out, b)
		}
	}
	return out
}
