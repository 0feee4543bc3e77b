package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

func TestBOSContinuation_TriggersOnPullbackIntoOB(t *testing.T) {
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
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, FormationIndex: 0, Mitigated: false},
		},
	}

	sig, ok := BOSContinuation(ctx, candles, cfg, 1.0)
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Direction)
	assert.Equal(t, domain.StrategyBOSContinuation, sig.Strategy)
}

func TestBOSContinuation_FallsBackToFVGWhenNoOBTouched(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 105, 105.5, 104.8, 105.2),
	}
	ctx := structure.IctContext{
		Index: 1,
		Breaks: []structure.StructureBreak{
			{Kind: structure.KindBOS, Direction: structure.BreakBullish, BreakIndex: 0},
		},
		FVGs: []structure.FairValueGap{
			{Type: structure.FVGBullish, High: 110, Low: 100, Index: 0, Filled: false},
		},
	}

	sig, ok := BOSContinuation(ctx, candles, cfg, 1.0)
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Direction)
}

func TestBOSContinuation_NoSignalWithoutPullback(t *testing.T) {
	cfg := DefaultConfig()
	candles := []domain.Candle{
		candleAt(0, 100, 101, 99, 100),
		candleAt(3600000, 150, 151, 149, 150),
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

	_, ok := BOSContinuation(ctx, candles, cfg, 1.0)
	assert.False(t, ok)
}

func TestPullbackReference_MitigatedOBSkipped(t *testing.T) {
	ctx := structure.IctContext{
		OrderBlocks: []structure.OrderBlock{
			{Type: structure.OBBullish, High: 100.8, Low: 100.2, Mitigated: true},
		},
	}
	bar := domain.Candle{Low: 100.3, High: 100.5}
	_, ok := pullbackReference(ctx, bar, domain.Long)
	assert.False(t, ok)
}
