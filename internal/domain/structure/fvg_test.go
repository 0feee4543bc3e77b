package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
)

func TestDetectFVGs_BullishGap(t *testing.T) {
	candles := []domain.Candle{
		{Timestamp: 0, Open: 100, High: 101, Low: 99, Close: 100},
		{Timestamp: 3600000, Open: 100, High: 103, Low: 100, Close: 103}, // displacement
		{Timestamp: 7200000, Open: 104, High: 106, Low: 104, Close: 105},
	}
	gaps := DetectFVGs(candles)
	require.Len(t, gaps, 1)
	assert.Equal(t, FVGBullish, gaps[0].Type)
	assert.Equal(t, 101.0, gaps[0].Low)  // candles[0].High
	assert.Equal(t, 104.0, gaps[0].High) // candles[2].Low
}

func TestDetectFVGs_BearishGap(t *testing.T) {
	candles := []domain.Candle{
		{Timestamp: 0, Open: 100, High: 101, Low: 99, Close: 100},
		{Timestamp: 3600000, Open: 100, High: 99, Low: 96, Close: 97},
		{Timestamp: 7200000, Open: 95, High: 96, Low: 94, Close: 95},
	}
	gaps := DetectFVGs(candles)
	require.Len(t, gaps, 1)
	assert.Equal(t, FVGBearish, gaps[0].Type)
}

func TestFVG_CEIsMidpoint(t *testing.T) {
	gap := FairValueGap{High: 110, Low: 100}
	assert.Equal(t, 105.0, gap.CE())
}

func TestFVG_AtCE_FalseWhenFilled(t *testing.T) {
	gap := FairValueGap{High: 110, Low: 100, Filled: true}
	bar := domain.Candle{Low: 104, High: 106}
	assert.False(t, AtCE(gap, bar))
}

func TestFVG_AtCE_TrueWhenBarCrossesMidpoint(t *testing.T) {
	gap := FairValueGap{High: 110, Low: 100}
	bar := domain.Candle{Low: 104, High: 106}
	assert.True(t, AtCE(gap, bar))
}

func TestRefreshFill_NeverUnfills(t *testing.T) {
	gap := FairValueGap{High: 110, Low: 100, Index: 0, Filled: true}
	refreshed := RefreshFill(gap, []domain.Candle{
		{Low: 200, High: 201}, // far away, would not fill if starting fresh
	})
	assert.True(t, refreshed.Filled, "an already-filled gap must never transition back to unfilled")
}

func TestDetectStructureBreaks_ContinuationIsBOS(t *testing.T) {
	// Swings: low at 2 (100), high at 5 (110); a later close above 110
	// in the established uptrend should be a BOS, not a CHoCH.
	swings := []SwingPoint{
		{Kind: SwingLow, Index: 2, Price: 100},
		{Kind: SwingHigh, Index: 5, Price: 110},
	}
	candles := make([]domain.Candle, 10)
	for i := range candles {
		candles[i] = domain.Candle{Timestamp: int64(i) * 3600000, Open: 105, High: 106, Low: 104, Close: 105}
	}
	candles[7].Close = 111 // breaks the swing high

	breaks := DetectStructureBreaks(candles, swings)
	require.NotEmpty(t, breaks)
	assert.Equal(t, KindBOS, breaks[len(breaks)-1].Kind)
	assert.Equal(t, BreakBullish, breaks[len(breaks)-1].Direction)
}

func TestDetectStructureBreaks_EstablishesTrendThenFlipsOnCHoCH(t *testing.T) {
	swings := []SwingPoint{
		{Kind: SwingLow, Index: 1, Price: 95},
		{Kind: SwingHigh, Index: 2, Price: 105},
	}
	candles := make([]domain.Candle, 6)
	for i := range candles {
		candles[i] = domain.Candle{Timestamp: int64(i) * 3600000, Open: 100, High: 101, Low: 99, Close: 100}
	}
	candles[3].Close = 106 // breaks the high: BOS, trend -> bullish
	candles[5].Close = 90  // breaks the low against the established trend: CHoCH

	breaks := DetectStructureBreaks(candles, swings)
	require.Len(t, breaks, 2)
	assert.Equal(t, KindBOS, breaks[0].Kind)
	assert.Equal(t, BreakBullish, breaks[0].Direction)
	assert.Equal(t, KindCHoCH, breaks[1].Kind)
	assert.Equal(t, BreakBearish, breaks[1].Direction)
}

// TestResolveSameBarTies_CHoCHWins exercises the tie-break rule
// directly: when a bullish and a bearish break land on the same bar,
// the BOS must be dropped and the CHoCH kept.
func TestResolveSameBarTies_CHoCHWins(t *testing.T) {
	breaks := []StructureBreak{
		{Kind: KindBOS, Direction: BreakBullish, BreakIndex: 7},
		{Kind: KindCHoCH, Direction: BreakBearish, BreakIndex: 7},
	}
	resolved := resolveSameBarTies(breaks)
	require.Len(t, resolved, 1)
	assert.Equal(t, KindCHoCH, resolved[0].Kind)
}
