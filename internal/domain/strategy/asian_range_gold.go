package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// AsianRangeGold triggers on a liquidity sweep followed by a
// displacement move and an FVG at CE, gated to the Asian session
// window (cfg.AsianRangeStartHourUTC/AsianRangeEndHourUTC), with a
// long-bias multiplier applied to the risk-reward target.
func AsianRangeGold(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool) {
	if len(candles) < 2 {
		return domain.StrategySignal{}, false
	}
	bar := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	if !inAsianSession(bar.Timestamp, cfg) {
		return domain.StrategySignal{}, false
	}

	move := (bar.Close - prev.Close) / prev.Close
	if abs(move) < cfg.DisplacementMinPercent {
		return domain.StrategySignal{}, false
	}
	dir := domain.Long
	sweepType := structure.SSL
	if move < 0 {
		dir = domain.Short
		sweepType = structure.BSL
	}

	var sweepLevel *structure.LiquidityLevel
	for i := range ctx.Liquidity {
		lvl := ctx.Liquidity[i]
		if lvl.Type != sweepType || lvl.Status != structure.LiquiditySwept {
			continue
		}
		if lvl.SweepIndex != ctx.Index && ctx.Index-lvl.SweepIndex > 3 {
			continue
		}
		if sweepLevel == nil || lvl.SweepIndex > sweepLevel.SweepIndex {
			sweepLevel = &lvl
		}
	}
	if sweepLevel == nil {
		return domain.StrategySignal{}, false
	}

	var ceGap *structure.FairValueGap
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
		ceGap = &gap
		break
	}
	if ceGap == nil {
		return domain.StrategySignal{}, false
	}

	entry := bar.Close
	sl := placeSL(cfg, dir, entry, atr, sweepLevel.Price)
	rr := cfg.DefaultRR
	if dir == domain.Long {
		rr *= cfg.AsianLongBiasMultiplier
	}
	tp := placeTP(dir, entry, sl, rr)
	actualRR := riskReward(entry, sl, tp)

	return domain.StrategySignal{
		Strategy:       domain.StrategyAsianRangeGold,
		Direction:      dir,
		EntryIndex:     ctx.Index,
		EntryTimestamp: bar.Timestamp,
		EntryPrice:     entry,
		StopLoss:       sl,
		TakeProfit:     tp,
		RiskReward:     actualRR,
	}, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// inAsianSession reports whether bar's UTC hour falls within
// [AsianRangeStartHourUTC, AsianRangeEndHourUTC), wrapping past
// midnight when the start hour is greater than the end hour (e.g. a
// 22-04 window).
func inAsianSession(timestampMs int64, cfg Config) bool {
	start, end := cfg.AsianRangeStartHourUTC, cfg.AsianRangeEndHourUTC
	if start == end {
		return true
	}
	hour := structure.UTCHour(timestampMs)
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
