package exits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/ictcore/internal/domain"
)

func candle(ts int64, o, h, l, c float64) domain.Candle {
	return domain.Candle{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: 100}
}

func noFrictionConfig() FrictionConfig {
	return FrictionConfig{}
}

func longSignal(entryIndex int) domain.StrategySignal {
	return domain.StrategySignal{
		Strategy:       domain.StrategyOrderBlock,
		Direction:      domain.Long,
		EntryIndex:     entryIndex,
		EntryTimestamp: int64(entryIndex) * 3600000,
		EntryPrice:     100,
		StopLoss:       95,
		TakeProfit:     115,
		RiskReward:     3,
	}
}

func TestSimulate_TakeProfitHit(t *testing.T) {
	sig := longSignal(0)
	candles := []domain.Candle{
		candle(0, 100, 101, 99, 100),
		candle(3600000, 101, 102, 100, 101),
		candle(7200000, 102, 116, 101, 115), // TP crossed
	}
	cfg := DefaultConfig()
	cfg.ExitMode = domain.ExitModeSimple

	result, opened := Simulate(candles, sig, cfg, noFrictionConfig())
	require.True(t, opened, "expected position to open")
	assert.Equal(t, domain.ExitTakeProfit, result.ExitReason)
	assert.Greater(t, result.PnlPercent, 0.0)
}

func TestSimulate_StopLossWinsSameBarTie(t *testing.T) {
	sig := longSignal(0)
	candles := []domain.Candle{
		candle(0, 100, 101, 99, 100),
		// both SL (95) and TP (115) are inside this bar's range
		candle(3600000, 100, 120, 90, 105),
	}
	cfg := DefaultConfig()

	result, opened := Simulate(candles, sig, cfg, noFrictionConfig())
	require.True(t, opened, "expected position to open")
	assert.Equal(t, domain.ExitStopLoss, result.ExitReason, "stop_loss should win the same-bar tie")
	assert.Less(t, result.PnlPercent, 0.0)
}

func TestSimulate_DegeneratePositionRejected(t *testing.T) {
	sig := longSignal(0)
	sig.StopLoss = sig.EntryPrice // zero risk distance

	_, opened := Simulate([]domain.Candle{candle(0, 100, 100, 100, 100)}, sig, DefaultConfig(), noFrictionConfig())
	assert.False(t, opened, "expected degenerate position (riskDistance <= 0) to be rejected")
}

func TestSimulate_MaxBarsExit(t *testing.T) {
	sig := longSignal(0)
	candles := make([]domain.Candle, 0, 10)
	candles = append(candles, candle(0, 100, 101, 99, 100))
	for i := 1; i <= 5; i++ {
		candles = append(candles, candle(int64(i)*3600000, 101, 102, 100.5, 101))
	}
	cfg := DefaultConfig()
	cfg.MaxBars = 3

	result, opened := Simulate(candles, sig, cfg, noFrictionConfig())
	require.True(t, opened, "expected position to open")
	assert.Equal(t, domain.ExitMaxBars, result.ExitReason)
	assert.Equal(t, 3, result.BarsHeld)
}

func TestSimulate_ShutdownExitAtEndOfData(t *testing.T) {
	sig := longSignal(0)
	candles := []domain.Candle{
		candle(0, 100, 101, 99, 100),
		candle(3600000, 101, 103, 100.5, 102),
	}
	cfg := DefaultConfig()
	cfg.MaxBars = 0

	result, opened := Simulate(candles, sig, cfg, noFrictionConfig())
	require.True(t, opened, "expected position to open")
	assert.Equal(t, domain.ExitShutdown, result.ExitReason)
}

func TestSimulate_PartialTakeProfitBooksAndMovesStop(t *testing.T) {
	sig := longSignal(0)
	cfg := DefaultConfig()
	cfg.Partial = &domain.PartialTP{Fraction: 0.5, TriggerR: 1.0, BeBuffer: 0.0}

	candles := []domain.Candle{
		candle(0, 100, 101, 99, 100),
		candle(3600000, 101, 105, 100.5, 104), // unrealizedR = (105-100)/5 = 1.0, triggers partial
		candle(7200000, 104, 104, 94, 100),    // falls back to the (now breakeven) stop
	}

	result, opened := Simulate(candles, sig, cfg, noFrictionConfig())
	require.True(t, opened, "expected position to open")
	assert.Equal(t, domain.ExitStopLoss, result.ExitReason, "expected stop_loss exit after partial")
	// Half the position was booked at +1R; the remainder closed flat
	// at breakeven, so total pnl should be positive but less than 1R.
	assert.Greater(t, result.PnlPercent, 0.0, "expected positive blended pnl")
}

func TestSimulate_FrictionReducesLongPnl(t *testing.T) {
	sig := longSignal(0)
	candles := []domain.Candle{
		candle(0, 100, 101, 99, 100),
		candle(3600000, 101, 102, 100, 101),
		candle(7200000, 102, 116, 101, 115),
	}
	cfg := DefaultConfig()

	noFriction, _ := Simulate(candles, sig, cfg, FrictionConfig{})
	withFriction, _ := Simulate(candles, sig, cfg, DefaultFrictionConfig())

	assert.Less(t, withFriction.PnlPercent, noFriction.PnlPercent, "expected friction to reduce pnl")
}
