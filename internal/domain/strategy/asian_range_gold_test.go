package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

func TestAsianRangeGold_TriggersOnDisplacementSweepAndCE(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 100.5, 99.5, 100),
		candleAt(3600000, 100, 103.5, 99.8, 103), // >=1% displacement up from prev close
	}
	ctx := structure.IctContext{
		Index: 1,
		Liquidity: []structure.LiquidityLevel{
			{Type: structure.SSL, Status: structure.LiquiditySwept, Price: 99.7, SweepIndex: 1},
		},
		FVGs: []structure.FairValueGap{
			{Type: structure.FVGBullish, High: 104, Low: 102, Index: 1, Filled: false},
		},
	}

	sig, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Direction)
	assert.Equal(t, domain.StrategyAsianRangeGold, sig.Strategy)
}

func TestAsianRangeGold_LongBiasMultiplierRaisesTargetRR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AsianLongBiasMultiplier = 2.0
	candles := []domain.Candle{
		candleAt(0, 100, 100.5, 99.5, 100),
		candleAt(3600000, 100, 103.5, 99.8, 103),
	}
	ctx := structure.IctContext{
		Index: 1,
		Liquidity: []structure.LiquidityLevel{
			{Type: structure.SSL, Status: structure.LiquiditySwept, Price: 99.7, SweepIndex: 1},
		},
		FVGs: []structure.FairValueGap{
			{Type: structure.FVGBullish, High: 104, Low: 102, Index: 1, Filled: false},
		},
	}

	sig, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	require.True(t, ok)
	assert.InDelta(t, cfg.DefaultRR*cfg.AsianLongBiasMultiplier, sig.RiskReward, 1e-9)
}

func TestAsianRangeGold_BelowDisplacementThresholdNoSignal(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 100.5, 99.5, 100),
		candleAt(3600000, 100, 100.1, 99.9, 100.05), // well under 1% move
	}
	ctx := structure.IctContext{Index: 1}

	_, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	assert.False(t, ok)
}

func TestAsianRangeGold_OutsideSessionWindowNoSignal(t *testing.T) {
	cfg := DefaultConfig() // asian_range_start/end default to [0,6) UTC
	// hour 14 (14*3600000ms), well outside the default Asian window
	candles := []domain.Candle{
		candleAt(14*3600000, 100, 100.5, 99.5, 100),
		candleAt(15*3600000, 100, 103.5, 99.8, 103),
	}
	ctx := structure.IctContext{
		Index: 1,
		Liquidity: []structure.LiquidityLevel{
			{Type: structure.SSL, Status: structure.LiquiditySwept, Price: 99.7, SweepIndex: 1},
		},
		FVGs: []structure.FairValueGap{
			{Type: structure.FVGBullish, High: 104, Low: 102, Index: 1, Filled: false},
		},
	}

	_, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	assert.False(t, ok, "a qualifying displacement+sweep+CE pattern outside the Asian session must not fire")
}

func TestAsianRangeGold_WrappingSessionWindowHandlesMidnightCrossing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AsianRangeStartHourUTC = 22
	cfg.AsianRangeEndHourUTC = 4
	// the evaluated bar falls at hour 0 (24*3600000ms), inside a
	// 22-04 wrapping window
	candles := []domain.Candle{
		candleAt(23*3600000, 100, 100.5, 99.5, 100),
		candleAt(24*3600000, 100, 103.5, 99.8, 103),
	}
	ctx := structure.IctContext{
		Index: 1,
		Liquidity: []structure.LiquidityLevel{
			{Type: structure.SSL, Status: structure.LiquiditySwept, Price: 99.7, SweepIndex: 1},
		},
		FVGs: []structure.FairValueGap{
			{Type: structure.FVGBullish, High: 104, Low: 102, Index: 1, Filled: false},
		},
	}

	sig, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	require.True(t, ok, "hour 0 must be treated as inside a 22-04 wrapping session window")
	assert.Equal(t, domain.Long, sig.Direction)
}

func TestAsianRangeGold_NoSignalWithoutCEGap(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 100.5, 99.5, 100),
		candleAt(3600000, 100, 103.5, 99.8, 103),
	}
	ctx := structure.IctContext{
		Index: 1,
		Liquidity: []structure.LiquidityLevel{
			{Type: structure.SSL, Status: structure.LiquiditySwept, Price: 99.7, SweepIndex: 1},
		},
	}

	_, ok := AsianRangeGold(ctx, candles, cfg, 1.0)
	assert.False(t, ok, "no FVG at CE means no entry trigger")
}
