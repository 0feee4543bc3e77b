package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

func candleAt(ts int64, o, h, l, c float64) domain.Candle {
	return domain.Candle{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: 100}
}

// TestOrderBlock_TriggersOnReentryWithAlignedBOS covers the end-to-end
// scenario setup: a bullish BOS exists, an unmitigated
// bullish order block sits below, and price re-enters the OB body on
// the current bar — the generator must emit a long signal with
// riskReward >= cfg.MinSignalRR.
func TestOrderBlock_TriggersOnReentryWithAlignedBOS(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 100.5, 100.7, 100.3, 100.5), // current bar, closes inside the OB
	}
	ctx := structure.IctContext{
		Index: 1,
		Breaks: []structure.StructureBreak{
			{Kind: structure.KindBOS, Direction: structure.BreakBullish, BreakIndex: 0},
		},
		OrderBlocks: []structure.OrderBlock{
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, FormationIndex: 0, Mitigated: false},
		},
	}

	sig, ok := OrderBlock(ctx, candles, cfg, 1.0)
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Direction)
	assert.Equal(t, domain.StrategyOrderBlock, sig.Strategy)
	assert.GreaterOrEqual(t, sig.RiskReward, cfg.MinSignalRR)
}

func TestOrderBlock_NoSignalWithoutRecentBOS(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 100.5, 100.7, 100.3, 100.5),
	}
	ctx := structure.IctContext{
		Index: 1,
		OrderBlocks: []structure.OrderBlock{
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, FormationIndex: 0, Mitigated: false},
		},
	}

	_, ok := OrderBlock(ctx, candles, cfg, 1.0)
	assert.False(t, ok, "no BOS in context means no eligible order block signal")
}

func TestOrderBlock_MitigatedOBIgnored(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 100.5, 100.7, 100.3, 100.5),
	}
	ctx := structure.IctContext{
		Index: 1,
		Breaks: []structure.StructureBreak{
			{Kind: structure.KindBOS, Direction: structure.BreakBullish, BreakIndex: 0},
		},
		OrderBlocks: []structure.OrderBlock{
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, FormationIndex: 0, Mitigated: true},
		},
	}

	_, ok := OrderBlock(ctx, candles, cfg, 1.0)
	assert.False(t, ok, "a mitigated order block must never trigger a signal")
}

func TestOrderBlock_NoSignalWhenPriceNotReentering(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 110, 111, 109.5, 110.5), // well above the OB zone
	}
	ctx := structure.IctContext{
		Index: 1,
		Breaks: []structure.StructureBreak{
			{Kind: structure.KindBOS, Direction: structure.BreakBullish, BreakIndex: 0},
		},
		OrderBlocks: []structure.OrderBlock{
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, FormationIndex: 0, Mitigated: false},
		},
	}

	_, ok := OrderBlock(ctx, candles, cfg, 1.0)
	assert.False(t, ok)
}

func TestPlaceSL_OBBasedUsesStructuralReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SLMode = SLModeOBBased
	cfg.ObBufferATR = 0.5
	sl := placeSL(cfg, domain.Long, 100, 2.0, 98) // structuralRef=98, buffer=1.0
	assert.Equal(t, 97.0, sl)
}

func TestPlaceSL_EntryBased(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SLMode = SLModeEntryBased
	cfg.EntrySLPercent = 0.02
	sl := placeSL(cfg, domain.Long, 100, 2.0, 0)
	assert.InDelta(t, 98.0, sl, 1e-9)
}

func TestPlaceTP_ReflectsThroughEntryForShort(t *testing.T) {
	tp := placeTP(domain.Short, 100, 105, 2.0) // risk=5, rr=2 -> tp = 100 - 10 = 90
	assert.Equal(t, 90.0, tp)
}
