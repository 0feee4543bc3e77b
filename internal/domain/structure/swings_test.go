package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
)

func zigzagCandles() []domain.Candle {
	// A clean zigzag: alternating up/down legs of 5 bars each so swing
	// highs/lows are unambiguous at lookback=2.
	highs := []float64{101, 102, 103, 104, 105, 104, 103, 102, 101, 100, 101, 102, 103, 104, 105}
	out := make([]domain.Candle, 0, len(highs))
	for i, h := range highs {
		out = append(out, domain.Candle{
			Timestamp: int64(i) * 3600000,
			Open:      h - 0.5,
			High:      h,
			Low:       h - 1,
			Close:     h - 0.3,
			Volume:    100,
		})
	}
	return out
}

func TestDetectSwings_FindsPeakAndTrough(t *testing.T) {
	candles := zigzagCandles()
	swings := DetectSwings(candles, 2, 0)
	require.NotEmpty(t, swings)

	var foundHigh, foundLow bool
	for _, s := range swings {
		if s.Kind == SwingHigh && s.Index == 4 {
			foundHigh = true
		}
		if s.Kind == SwingLow && s.Index == 9 {
			foundLow = true
		}
	}
	assert.True(t, foundHigh, "expected a swing high at the zigzag peak index 4")
	assert.True(t, foundLow, "expected a swing low at the zigzag trough index 9")
}

// TestDetectSwings_Idempotent verifies the swing-detection idempotence
// property: appending more candles to the series never changes a
// previously emitted swing.
func TestDetectSwings_Idempotent(t *testing.T) {
	full := zigzagCandles()
	prefixLen := 10
	prefix := full[:prefixLen]

	before := DetectSwings(prefix, 2, 0)
	after := DetectSwings(full, 2, 0)

	beforeByIndex := map[int]SwingPoint{}
	for _, s := range before {
		beforeByIndex[s.Index] = s
	}
	for _, s := range after {
		if s.Index >= prefixLen-2 {
			// near the prefix boundary, confirmation window may not
			// have been closed yet in the shorter series
			continue
		}
		prior, ok := beforeByIndex[s.Index]
		if !ok {
			continue
		}
		assert.Equal(t, prior, s, "a previously emitted swing must not change once more candles are appended")
	}
}

// TestDetectSwingsStreaming_NoLookAhead verifies a swing is only
// emitted once its confirmation window (index+lookback) has fully
// closed with respect to currentIndex.
func TestDetectSwingsStreaming_NoLookAhead(t *testing.T) {
	candles := zigzagCandles()
	lookback := 2

	// At currentIndex=5, the swing high at index 4 has its window
	// [2,6] not yet fully inside the known series up to bar 5 minus
	// lookback, so it should not be emitted yet.
	early := DetectSwingsStreaming(candles, lookback, 0, 5)
	for _, s := range early {
		assert.Less(t, s.Index+lookback, 5, "streaming detection must not emit a swing whose confirmation window hasn't closed")
	}

	later := DetectSwingsStreaming(candles, lookback, 0, 10)
	var found bool
	for _, s := range later {
		if s.Kind == SwingHigh && s.Index == 4 {
			found = true
		}
	}
	assert.True(t, found, "expected the swing high at index 4 to be confirmed by currentIndex=10")
}

func TestDetectSwings_ShortLookbackRejected(t *testing.T) {
	candles := zigzagCandles()
	assert.Nil(t, DetectSwings(candles, 1, 0))
}

func TestDetectSwings_MinStrengthFilters(t *testing.T) {
	candles := zigzagCandles()
	loose := DetectSwings(candles, 2, 0)
	strict := DetectSwings(candles, 2, 1000)
	assert.Empty(t, strict, "an unreachable minStrength should filter out every swing")
	assert.NotEmpty(t, loose)
}
