package confluence

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/regime"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// computeFactors scores a candidate signal against the eleven named
// factors of step 4, each in [0,1], in the declared
// iteration order the determinism contract requires. ageDecay and the
// proximity/confluence checks are pure functions of ctx/candles/atr —
// no wall-clock reads anywhere in this file.
func computeFactors(ctx structure.IctContext, candles []domain.Candle, signal domain.StrategySignal, atr float64, reg regime.MarketRegime, cfg ScorerConfig) domain.FactorBreakdown {
	bar := candles[len(candles)-1]

	return domain.FactorBreakdown{
		StructureAlignment:   structureAlignment(ctx, signal, cfg.MaxStructureAge),
		KillZoneActive:       killZoneActive(ctx),
		LiquiditySweep:       liquiditySweep(ctx, signal, cfg.MaxStructureAge),
		ObProximity:          obProximity(ctx, bar, signal, atr, cfg.AtrExtensionBands),
		FvgAtCE:              fvgAtCE(ctx, bar, signal),
		RecentBOS:            recentBOS(ctx, signal, cfg.MaxStructureAge),
		RrRatio:              rrRatio(signal.RiskReward),
		OteZone:              oteZone(ctx, bar, signal),
		ObFvgConfluence:      obFvgConfluence(ctx, signal),
		MomentumConfirmation: momentumConfirmation(reg, signal),
		ObVolumeQuality:      obVolumeQuality(ctx, signal),
	}
}

// weightedTotal applies the effective weight set to a FactorBreakdown
// in the same declared order, returning the sum the scorer compares
// against threshold.
func weightedTotal(fb domain.FactorBreakdown, w regime.FactorWeights) float64 {
	return fb.StructureAlignment*w.StructureAlignment +
		fb.KillZoneActive*w.KillZoneActive +
		fb.LiquiditySweep*w.LiquiditySweep +
		fb.ObProximity*w.ObProximity +
		fb.FvgAtCE*w.FvgAtCE +
		fb.RecentBOS*w.RecentBOS +
		fb.RrRatio*w.RrRatio +
		fb.OteZone*w.OteZone +
		fb.ObFvgConfluence*w.ObFvgConfluence +
		fb.MomentumConfirmation*w.MomentumConfirmation +
		fb.ObVolumeQuality*w.ObVolumeQuality
}

func linearDecay(age, maxAge int) float64 {
	if maxAge <= 0 {
		return 0
	}
	if age < 0 {
		age = 0
	}
	v := 1 - float64(age)/float64(maxAge)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// structureAlignment: 1 if a BOS in the candidate's direction exists
// within maxAge bars, decayed linearly by age.
func structureAlignment(ctx structure.IctContext, signal domain.StrategySignal, maxAge int) float64 {
	dir := directionToBreak(signal.Direction)
	best := -1
	for _, b := range ctx.Breaks {
		if b.Kind != structure.KindBOS || b.Direction != dir {
			continue
		}
		if b.BreakIndex > best {
			best = b.BreakIndex
		}
	}
	if best < 0 {
		return 0
	}
	return linearDecay(ctx.Index-best, maxAge)
}

// recentBOS is distinct from structureAlignment in that it scores
// recency of ANY BOS (not just direction-matched), used as a general
// "structure is actively breaking" signal.
func recentBOS(ctx structure.IctContext, signal domain.StrategySignal, maxAge int) float64 {
	best := -1
	for _, b := range ctx.Breaks {
		if b.Kind != structure.KindBOS {
			continue
		}
		if b.BreakIndex > best {
			best = b.BreakIndex
		}
	}
	if best < 0 {
		return 0
	}
	return linearDecay(ctx.Index-best, maxAge)
}

func killZoneActive(ctx structure.IctContext) float64 {
	if ctx.KillZone {
		return 1
	}
	return 0
}

// liquiditySweep: sweep score if a confirming sweep exists within the
// last maxAge bars in the candidate's direction — longs look for a
// swept SSL (stop hunt below support before reversing up), shorts for
// a swept BSL.
func liquiditySweep(ctx structure.IctContext, signal domain.StrategySignal, maxAge int) float64 {
	wantType := structure.SSL
	if signal.Direction == domain.Short {
		wantType = structure.BSL
	}
	best := -1
	for _, lvl := range ctx.Liquidity {
		if lvl.Type != wantType || lvl.Status != structure.LiquiditySwept {
			continue
		}
		if lvl.SweepIndex > best {
			best = lvl.SweepIndex
		}
	}
	if best < 0 {
		return 0
	}
	return linearDecay(ctx.Index-best, maxAge)
}

// obProximity: 1 when price is inside a direction-matched OB body,
// decaying linearly to 0 at atrExtensionBands*atr away.
func obProximity(ctx structure.IctContext, bar domain.Candle, signal domain.StrategySignal, atr, atrExtensionBands float64) float64 {
	wantType := structure.OBBullish
	if signal.Direction == domain.Short {
		wantType = structure.OBBearish
	}
	best := 0.0
	for _, ob := range ctx.OrderBlocks {
		if ob.Type != wantType {
			continue
		}
		if bar.Close >= ob.Low && bar.Close <= ob.High {
			if 1 > best {
				best = 1
			}
			continue
		}
		if atr <= 0 || atrExtensionBands <= 0 {
			continue
		}
		dist := 0.0
		if bar.Close > ob.High {
			dist = bar.Close - ob.High
		} else {
			dist = ob.Low - bar.Close
		}
		maxDist := atrExtensionBands * atr
		v := 1 - dist/maxDist
		if v > best {
			best = clamp01(v)
		}
	}
	return best
}

// fvgAtCE: 1 when current price crosses the CE of an aligned unfilled
// FVG.
func fvgAtCE(ctx structure.IctContext, bar domain.Candle, signal domain.StrategySignal) float64 {
	wantType := structure.FVGBullish
	if signal.Direction == domain.Short {
		wantType = structure.FVGBearish
	}
	for _, gap := range ctx.FVGs {
		if gap.Type != wantType {
			continue
		}
		if structure.AtCE(gap, bar) {
			return 1
		}
	}
	return 0
}

// obFvgConfluence: 1 when the candidate's direction has an
// unmitigated OB overlapping an aligned unfilled FVG zone.
func obFvgConfluence(ctx structure.IctContext, signal domain.StrategySignal) float64 {
	wantOB := structure.OBBullish
	wantGap := structure.FVGBullish
	if signal.Direction == domain.Short {
		wantOB = structure.OBBearish
		wantGap = structure.FVGBearish
	}
	for _, ob := range ctx.OrderBlocks {
		if ob.Type != wantOB || ob.Mitigated {
			continue
		}
		for _, gap := range ctx.FVGs {
			if gap.Type != wantGap || gap.Filled {
				continue
			}
			if ob.Low <= gap.High && ob.High >= gap.Low {
				return 1
			}
		}
	}
	return 0
}

func rrRatio(rr float64) float64 {
	return clamp01((rr - 1) / 2)
}

// oteZone: 1 when entry price sits inside the 62-79% Fibonacci
// retracement of the impulse leg bounded by the two most recent
// opposite-kind swings.
func oteZone(ctx structure.IctContext, bar domain.Candle, signal domain.StrategySignal) float64 {
	var high, low *structure.SwingPoint
	for i := len(ctx.Swings) - 1; i >= 0; i-- {
		s := ctx.Swings[i]
		if s.Kind == structure.SwingHigh && high == nil {
			high = &s
		}
		if s.Kind == structure.SwingLow && low == nil {
			low = &s
		}
		if high != nil && low != nil {
			break
		}
	}
	if high == nil || low == nil || high.Price <= low.Price {
		return 0
	}
	rangeSize := high.Price - low.Price
	var retr float64
	if signal.Direction == domain.Long {
		retr = (high.Price - bar.Close) / rangeSize
	} else {
		retr = (bar.Close - low.Price) / rangeSize
	}
	if retr >= 0.62 && retr <= 0.79 {
		return 1
	}
	return 0
}

// momentumConfirmation: the regime's trend strength when the
// candidate's direction agrees with the regime's trend, else 0.
func momentumConfirmation(reg regime.MarketRegime, signal domain.StrategySignal) float64 {
	switch reg.Trend {
	case regime.TrendUptrend:
		if signal.Direction == domain.Long {
			return reg.Diagnostics.TrendStrength
		}
	case regime.TrendDowntrend:
		if signal.Direction == domain.Short {
			return reg.Diagnostics.TrendStrength
		}
	}
	return 0
}

// obVolumeQuality: the highest VolumeQuality/3, clamped to [0,1],
// among OBs aligned with the signal (the raw metric ranges [0,3]).
func obVolumeQuality(ctx structure.IctContext, signal domain.StrategySignal) float64 {
	wantType := structure.OBBullish
	if signal.Direction == domain.Short {
		wantType = structure.OBBearish
	}
	best := 0.0
	for _, ob := range ctx.OrderBlocks {
		if ob.Type != wantType {
			continue
		}
		q := clamp01(ob.VolumeQuality / 3)
		if q > best {
			best = q
		}
	}
	return best
}

func directionToBreak(d domain.Direction) structure.BreakDirection {
	if d == domain.Long {
		return structure.BreakBullish
	}
	return structure.BreakBearish
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
