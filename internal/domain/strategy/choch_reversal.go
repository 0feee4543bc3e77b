package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// CHoCHReversal triggers on a CHoCH accompanied by a liquidity sweep
// in the new direction, entering at the bar close with the stop placed
// beyond the sweep extreme (table, row 4).
func CHoCHReversal(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool) {
	if len(candles) == 0 {
		return domain.StrategySignal{}, false
	}
	choch, ok := lastBreakOfKind(ctx.Breaks, structure.KindCHoCH, ctx.Index, cfg.MaxStructureAge)
	if !ok {
		return domain.StrategySignal{}, false
	}
	dir := domain.Long
	sweepType := structure.SSL
	if choch.Direction == structure.BreakBearish {
		dir = domain.Short
		sweepType = structure.BSL
	}

	var sweepLevel *structure.LiquidityLevel
	for i := range ctx.Liquidity {
		lvl := ctx.Liquidity[i]
		if lvl.Type != sweepType || lvl.Status != structure.LiquiditySwept {
			continue
		}
		if ctx.Index-lvl.SweepIndex > cfg.MaxStructureAge {
			continue
		}
		if sweepLevel == nil || lvl.SweepIndex > sweepLevel.SweepIndex {
			sweepLevel = &lvl
		}
	}
	if sweepLevel == nil {
		return domain.StrategySignal{}, false
	}

	bar := candles[len(candles)-1]
	entry := bar.Close
	sl := placeSL(cfg, dir, entry, atr, sweepLevel.Price)
	tp := retracementTarget(dir, entry, sweepLevel.Price, cfg.DefaultRR)
	rr := riskReward(entry, sl, tp)

	return domain.StrategySignal{
		Strategy:       domain.StrategyCHoCHReversal,
		Direction:      dir,
		EntryIndex:     ctx.Index,
		EntryTimestamp: bar.Timestamp,
		EntryPrice:     entry,
		StopLoss:       sl,
		TakeProfit:     tp,
		RiskReward:     rr,
	}, true
}

// retracementTarget places TP at RR*riskDistance beyond entry, using
// the sweep extreme to establish risk distance — a retracement-scaled
// target rather than a fixed structural level.
func retracementTarget(dir domain.Direction, entry, sweepPrice, rr float64) float64 {
	riskDistance := entry - sweepPrice
	if riskDistance < 0 {
		riskDistance = -riskDistance
	}
	if dir == domain.Long {
		return entry + rr*riskDistance
	}
	return entry - rr*riskDistance
}
