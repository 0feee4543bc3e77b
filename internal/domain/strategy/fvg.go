package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// FVG triggers when price tags the CE of an unfilled fair value gap
// aligned with the prevailing trend, inferred from the most recent
// structure break (table, row 2).
func FVG(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool) {
	if len(candles) == 0 {
		return domain.StrategySignal{}, false
	}
	bar := candles[len(candles)-1]

	trendDir, ok := recentTrendDirection(ctx.Breaks, ctx.Index, cfg.MaxStructureAge)
	if !ok {
		return domain.StrategySignal{}, false
	}

	var best *structure.FairValueGap
	for i := range ctx.FVGs {
		gap := ctx.FVGs[i]
		wantType := structure.FVGBullish
		if trendDir == domain.Short {
			wantType = structure.FVGBearish
		}
		if gap.Type != wantType {
			continue
		}
		if !structure.AtCE(gap, bar) {
			continue
		}
		if best == nil || gap.Index > best.Index {
			best = &gap
		}
	}
	if best == nil {
		return domain.StrategySignal{}, false
	}

	structuralRef := best.Low
	if trendDir == domain.Short {
		structuralRef = best.High
	}
	entry := bar.Close
	sl := placeSL(cfg, trendDir, entry, atr, structuralRef)
	tp := placeTP(trendDir, entry, sl, cfg.DefaultRR)
	rr := riskReward(entry, sl, tp)

	return domain.StrategySignal{
		Strategy:       domain.StrategyFVG,
		Direction:      trendDir,
		EntryIndex:     ctx.Index,
		EntryTimestamp: bar.Timestamp,
		EntryPrice:     entry,
		StopLoss:       sl,
		TakeProfit:     tp,
		RiskReward:     rr,
	}, true
}

// recentTrendDirection reads the direction of the most recent
// structure break of either kind within maxAge bars of currentIndex.
func recentTrendDirection(breaks []structure.StructureBreak, currentIndex, maxAge int) (domain.Direction, bool) {
	var latest *structure.StructureBreak
	for i := range breaks {
		b := breaks[i]
		if currentIndex-b.BreakIndex > maxAge {
			continue
		}
		if latest == nil || b.BreakIndex > latest.BreakIndex {
			latest = &b
		}
	}
	if latest == nil {
		return "", false
	}
	if latest.Direction == structure.BreakBullish {
		return domain.Long, true
	}
	return domain.Short, true
}
