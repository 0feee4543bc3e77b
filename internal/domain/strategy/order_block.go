package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// OrderBlock triggers when price re-enters a fresh, unmitigated order
// block whose direction agrees with the most recent BOS within
// cfg.MaxStructureAge bars (table, row 1).
func OrderBlock(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool) {
	if len(candles) == 0 {
		return domain.StrategySignal{}, false
	}
	bar := candles[len(candles)-1]
	lastBOS, ok := lastBreakOfKind(ctx.Breaks, structure.KindBOS, ctx.Index, cfg.MaxStructureAge)
	if !ok {
		return domain.StrategySignal{}, false
	}
	dir := domain.Long
	if lastBOS.Direction == structure.BreakBearish {
		dir = domain.Short
	}

	var best *structure.OrderBlock
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
			continue // not re-entering this bar
		}
		if best == nil || ob.FormationIndex > best.FormationIndex {
			best = &ob
		}
	}
	if best == nil {
		return domain.StrategySignal{}, false
	}

	structuralRef := best.Low
	if dir == domain.Short {
		structuralRef = best.High
	}
	entry := bar.Close
	sl := placeSL(cfg, dir, entry, atr, structuralRef)
	tp := placeTP(dir, entry, sl, cfg.DefaultRR)
	rr := riskReward(entry, sl, tp)

	return domain.StrategySignal{
		Strategy:       domain.StrategyOrderBlock,
		Direction:      dir,
		EntryIndex:     ctx.Index,
		EntryTimestamp: bar.Timestamp,
		EntryPrice:     entry,
		StopLoss:       sl,
		TakeProfit:     tp,
		RiskReward:     rr,
	}, true
}

// lastBreakOfKind finds the most recent break of the given kind whose
// BreakIndex is within maxAge bars of currentIndex.
func lastBreakOfKind(breaks []structure.StructureBreak, kind structure.BreakKind, currentIndex, maxAge int) (structure.StructureBreak, bool) {
	var best *structure.StructureBreak
	for i := range breaks {
		b := breaks[i]
		if b.Kind != kind {
			continue
		}
		if currentIndex-b.BreakIndex > maxAge {
			continue
		}
		if best == nil || b.BreakIndex > best.BreakIndex {
			best = &b
		}
	}
	if best == nil {
		return structure.StructureBreak{}, false
	}
	return *best, true
}
