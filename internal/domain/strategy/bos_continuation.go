package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// BOSContinuation triggers on a close through the last opposite swing
// followed by a pullback into an order block or FVG in the breakout
// direction (table, row 3).
func BOSContinuation(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool) {
	if len(candles) == 0 {
		return domain.StrategySignal{}, false
	}
	bos, ok := lastBreakOfKind(ctx.Breaks, structure.KindBOS, ctx.Index, cfg.MaxStructureAge)
	if !ok {
		return domain.StrategySignal{}, false
	}
	dir := domain.Long
	if bos.Direction == structure.BreakBearish {
		dir = domain.Short
	}

	bar := candles[len(candles)-1]
	structuralRef, ok := pullbackReference(ctx, bar, dir)
	if !ok {
		return domain.StrategySignal{}, false
	}

	entry := bar.Close
	sl := placeSL(cfg, dir, entry, atr, structuralRef)
	tp := placeTP(dir, entry, sl, cfg.DefaultRR)
	rr := riskReward(entry, sl, tp)

	return domain.StrategySignal{
		Strategy:       domain.StrategyBOSContinuation,
		Direction:      dir,
		EntryIndex:     ctx.Index,
		EntryTimestamp: bar.Timestamp,
		EntryPrice:     entry,
		StopLoss:       sl,
		TakeProfit:     tp,
		RiskReward:     rr,
	}, true
}

// pullbackReference returns the far side of the first unmitigated OB
// (in ctx.OrderBlocks order), aligned with dir, whose zone the current
// bar touches; failing that, of the first aligned unfilled FVG that
// qualifies, as the structural SL reference. No distance ordering is
// applied.
func pullbackReference(ctx structure.IctContext, bar domain.Candle, dir domain.Direction) (float64, bool) {
	for i := range ctx.OrderBlocks {
		ob := ctx.OrderBlocks[i]
		if ob.Mitigated {
			continue
		}
		if (dir == domain.Long && ob.Type != structure.OBBullish) ||
			(dir == domain.Short && ob.Type != structure.OBBearish) {
			continue
		}
		if bar.Low > ob.High || bar.High < ob.Low {
			continue
		}
		if dir == domain.Long {
			return ob.Low, true
		}
		return ob.High, true
	}
	for i := range ctx.FVGs {
		gap := ctx.FVGs[i]
		wantType := structure.FVGBullish
		if dir == domain.Short {
			wantType = structure.FVGBearish
		}
		if gap.Type != wantType {
			continue
		}
		if !structure.AtCE(gap, bar) {
			continue
		}
		if dir == domain.Long {
			return gap.Low, true
		}
		return gap.High, true
	}
	return 0, false
}
