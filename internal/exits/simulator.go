// Package exits implements the position simulator: turning one
// selected StrategySignal into a TradeResult by walking candles
// forward bar by bar, applying friction at both fills and, depending
// on ExitMode,
// breakeven/partial/multi-target/trailing rules before falling back
// to a max-bars or end-of-data shutdown exit. The simulator owns no
// state beyond the single SimulatedPosition it is given — no
// wall-clock reads, no package-level position book.
package exits

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// Config is the simulator's full rule set for one run;
// every field is explicit rather than inferred from ExitMode so the
// modes compose (e.g. Enhanced still honors Partial and MultiTP).
type Config struct {
	ExitMode domain.ExitMode
	MaxBars  int

	BreakevenTriggerR float64
	BreakevenBuffer   float64

	Partial *domain.PartialTP
	MultiTP []domain.MultiTPLevel

	TrailingTriggerR   float64
	TrailingDistanceR  float64

	StructureConfig             structure.Config
	EnhancedConfidenceThreshold float64
}

// DefaultConfig is a conservative simple SL/TP simulation: no
// breakeven, no partials, no trailing, a generous max hold.
func DefaultConfig() Config {
	return Config{
		ExitMode:                    domain.ExitModeSimple,
		MaxBars:                     500,
		BreakevenTriggerR:           1.0,
		BreakevenBuffer:             0.0005,
		TrailingTriggerR:            1.5,
		TrailingDistanceR:           0.5,
		StructureConfig:             structure.DefaultConfig(),
		EnhancedConfidenceThreshold: 0.85,
	}
}

// Simulate runs one position to closure against candles and returns
// the resulting trade plus whether a trade was actually opened — a
// degenerate signal (RiskDistance <= 0) opens nothing.
// candles must extend at least to sig.EntryIndex; any bars at or
// before EntryIndex are ignored, since the position is assumed filled
// at EntryIndex's signal price and evaluation begins the bar after.
func Simulate(candles []domain.Candle, sig domain.StrategySignal, cfg Config, friction FrictionConfig) (domain.TradeResult, bool) {
	if sig.RiskDistance() <= 0 {
		return domain.TradeResult{}, false
	}

	pos := domain.NewSimulatedPosition(sig, len(cfg.MultiTP))
	entryAdj := friction.AdjustedEntry(sig.Direction, sig.EntryPrice)

	for i := sig.EntryIndex + 1; i < len(candles); i++ {
		bar := candles[i]
		pos.BarsHeld++
		updateWatermarks(&pos, bar)

		if exitPrice, reason, closed := evaluateBar(&pos, bar, cfg, friction, entryAdj); closed {
			return buildResult(pos, entryAdj, friction.AdjustedExit(pos.Direction, exitPrice), bar.Timestamp, reason), true
		}

		if cfg.ExitMode == domain.ExitModeEnhanced {
			ctx := structure.BuildContext(candles, i, cfg.StructureConfig)
			if confidence := structuralReversalConfidence(ctx, pos); confidence >= cfg.EnhancedConfidenceThreshold {
				exitPrice := friction.AdjustedExit(pos.Direction, bar.Close)
				return buildResult(pos, entryAdj, exitPrice, bar.Timestamp, domain.ExitStructural), true
			}
		}

		if cfg.MaxBars > 0 && pos.BarsHeld >= cfg.MaxBars {
			exitPrice := friction.AdjustedExit(pos.Direction, bar.Close)
			return buildResult(pos, entryAdj, exitPrice, bar.Timestamp, domain.ExitMaxBars), true
		}
	}

	last := candles[len(candles)-1]
	exitPrice := friction.AdjustedExit(pos.Direction, last.Close)
	return buildResult(pos, entryAdj, exitPrice, last.Timestamp, domain.ExitShutdown), true
}

func updateWatermarks(pos *domain.SimulatedPosition, bar domain.Candle) {
	if bar.High > pos.HighWaterMark {
		pos.HighWaterMark = bar.High
	}
	if bar.Low < pos.LowWaterMark || pos.LowWaterMark == 0 {
		pos.LowWaterMark = bar.Low
	}
}

// evaluateBar runs per-bar sequence: SL check, TP check
// (SL wins a same-bar tie since both are only ever reachable when the
// bar's range spans both, and the stop is assumed to fill first),
// then whichever of breakeven/partial/multi-target/trailing the
// configured ExitMode layers on top. It returns closed=true only when
// the position's entire remaining size exits this bar.
func evaluateBar(pos *domain.SimulatedPosition, bar domain.Candle, cfg Config, friction FrictionConfig, entryAdj float64) (float64, domain.ExitReason, bool) {
	hitSL, hitTP := slTpHit(*pos, bar)
	if hitSL {
		return pos.CurrentSL, domain.ExitStopLoss, true
	}
	if hitTP {
		return pos.TakeProfit, domain.ExitTakeProfit, true
	}

	switch cfg.ExitMode {
	case domain.ExitModeBreakeven:
		applyBreakeven(pos, bar, cfg)
	case domain.ExitModeTrailing, domain.ExitModeEnhanced:
		applyBreakeven(pos, bar, cfg)
		applyTrailing(pos, bar, cfg)
	}

	applyPartial(pos, bar, cfg, friction, entryAdj)
	applyMultiTP(pos, bar, cfg, friction, entryAdj)

	return 0, "", false
}

func slTpHit(pos domain.SimulatedPosition, bar domain.Candle) (bool, bool) {
	if pos.Direction == domain.Long {
		return bar.Low <= pos.CurrentSL, bar.High >= pos.TakeProfit
	}
	return bar.High >= pos.CurrentSL, bar.Low <= pos.TakeProfit
}

// applyBreakeven moves the stop to entry + buffer once unrealized
// gain reaches BreakevenTriggerR; it never loosens a stop that
// trailing has already tightened further.
func applyBreakeven(pos *domain.SimulatedPosition, bar domain.Candle, cfg Config) {
	if pos.BreakevenTriggered || cfg.BreakevenTriggerR <= 0 {
		return
	}
	if pos.UnrealizedR(bar.Close) < cfg.BreakevenTriggerR {
		return
	}
	var be float64
	if pos.Direction == domain.Long {
		be = pos.EntryPrice * (1 + cfg.BreakevenBuffer)
		if be > pos.CurrentSL {
			pos.CurrentSL = be
		}
	} else {
		be = pos.EntryPrice * (1 - cfg.BreakevenBuffer)
		if be < pos.CurrentSL {
			pos.CurrentSL = be
		}
	}
	pos.BreakevenTriggered = true
}

// applyTrailing ratchets the stop toward the water mark once
// unrealized gain reaches TrailingTriggerR, trailing at
// waterMark - sign*riskDistance*TrailingDistanceR; the stop only ever
// moves in the position's favor.
func applyTrailing(pos *domain.SimulatedPosition, bar domain.Candle, cfg Config) {
	if cfg.TrailingDistanceR <= 0 {
		return
	}
	if pos.UnrealizedR(bar.Close) < cfg.TrailingTriggerR {
		return
	}
	distance := cfg.TrailingDistanceR * pos.RiskDistance
	if pos.Direction == domain.Long {
		candidate := pos.HighWaterMark - distance
		if candidate > pos.CurrentSL {
			pos.CurrentSL = candidate
			pos.TrailingActivated = true
		}
	} else {
		candidate := pos.LowWaterMark + distance
		if candidate < pos.CurrentSL {
			pos.CurrentSL = candidate
			pos.TrailingActivated = true
		}
	}
}

// applyPartial books the configured fraction (once) when the bar's
// favorable extreme reaches TriggerR, filling at the TriggerR price,
// and moves the stop to breakeven + BeBuffer when BeBuffer >= 0.
func applyPartial(pos *domain.SimulatedPosition, bar domain.Candle, cfg Config, friction FrictionConfig, entryAdj float64) {
	if cfg.Partial == nil || pos.PartialTaken {
		return
	}
	favorable := bar.High
	if pos.Direction == domain.Short {
		favorable = bar.Low
	}
	if pos.UnrealizedR(favorable) < cfg.Partial.TriggerR {
		return
	}
	fillPrice := friction.AdjustedExit(pos.Direction, rAtMultiple(*pos, cfg.Partial.TriggerR))
	pos.PartialPnl += cfg.Partial.Fraction * returnPercent(pos.Direction, entryAdj, fillPrice)
	pos.PartialFraction += cfg.Partial.Fraction
	pos.PartialTaken = true

	if cfg.Partial.BeBuffer >= 0 {
		if pos.Direction == domain.Long {
			be := pos.EntryPrice * (1 + cfg.Partial.BeBuffer)
			if be > pos.CurrentSL {
				pos.CurrentSL = be
			}
		} else {
			be := pos.EntryPrice * (1 - cfg.Partial.BeBuffer)
			if be < pos.CurrentSL {
				pos.CurrentSL = be
			}
		}
	}
}

// applyMultiTP books each un-triggered ladder rung whose TriggerR the
// bar's favorable extreme reaches, in cfg.MultiTP order, and
// moves the stop to entry + SlMoveR*riskDistance.
func applyMultiTP(pos *domain.SimulatedPosition, bar domain.Candle, cfg Config, friction FrictionConfig, entryAdj float64) {
	if len(cfg.MultiTP) == 0 {
		return
	}
	favorable := bar.High
	if pos.Direction == domain.Short {
		favorable = bar.Low
	}
	for idx, lvl := range cfg.MultiTP {
		if pos.MultiTPTriggered[idx] {
			continue
		}
		if pos.UnrealizedR(favorable) < lvl.TriggerR {
			continue
		}
		fillPrice := friction.AdjustedExit(pos.Direction, rAtMultiple(*pos, lvl.TriggerR))
		pos.PartialPnl += lvl.Fraction * returnPercent(pos.Direction, entryAdj, fillPrice)
		pos.PartialFraction += lvl.Fraction
		pos.MultiTPTriggered[idx] = true

		moved := pos.EntryPrice + lvl.SlMoveR*pos.RiskDistance
		if pos.Direction == domain.Short {
			moved = pos.EntryPrice - lvl.SlMoveR*pos.RiskDistance
		}
		if pos.Direction == domain.Long && moved > pos.CurrentSL {
			pos.CurrentSL = moved
		} else if pos.Direction == domain.Short && moved < pos.CurrentSL {
			pos.CurrentSL = moved
		}
	}
}

// rAtMultiple converts an R-multiple back into a price.
func rAtMultiple(pos domain.SimulatedPosition, r float64) float64 {
	if pos.Direction == domain.Long {
		return pos.EntryPrice + r*pos.RiskDistance
	}
	return pos.EntryPrice - r*pos.RiskDistance
}

// clampStrength maps a swing's dominance count (bars it holds on both
// sides) onto [0,1], saturating at 10 bars of dominance.
func clampStrength(barsOfDominance int) float64 {
	v := float64(barsOfDominance) / 10
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func returnPercent(dir domain.Direction, entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	if dir == domain.Long {
		return (exit - entry) / entry
	}
	return (entry - exit) / entry
}

// structuralReversalConfidence is enhanced mode's counter-signal
// detector (step 8): confidence scales with how recent and
// how strong an opposite-direction BOS/CHoCH is, maxing out at a
// fresh full-strength break.
func structuralReversalConfidence(ctx structure.IctContext, pos domain.SimulatedPosition) float64 {
	wantDir := structure.BreakBearish
	if pos.Direction == domain.Short {
		wantDir = structure.BreakBullish
	}
	best := 0.0
	for _, b := range ctx.Breaks {
		if b.Direction != wantDir {
			continue
		}
		age := ctx.Index - b.BreakIndex
		recency := 1.0
		if age > 0 {
			recency = 1.0 / float64(1+age)
		}
		strength := clampStrength(b.BrokenSwing.Strength)
		score := strength * recency
		if b.Kind == structure.KindCHoCH {
			score *= 1.25
			if score > 1 {
				score = 1
			}
		}
		if score > best {
			best = score
		}
	}
	return best
}

// buildResult closes out the position, blending any already-booked
// partial PnL with the remaining fraction's return at exitPrice.
func buildResult(pos domain.SimulatedPosition, entryAdj, exitAdj float64, exitTimestamp int64, reason domain.ExitReason) domain.TradeResult {
	remaining := 1 - pos.PartialFraction
	if remaining < 0 {
		remaining = 0
	}
	finalReturn := returnPercent(pos.Direction, entryAdj, exitAdj)
	total := pos.PartialPnl + remaining*finalReturn

	return domain.TradeResult{
		Strategy:       pos.Strategy,
		Direction:      pos.Direction,
		EntryTimestamp: pos.EntryTimestamp,
		ExitTimestamp:  exitTimestamp,
		EntryPrice:     entryAdj,
		ExitPrice:      exitAdj,
		PnlPercent:     total,
		ExitReason:     reason,
		BarsHeld:       pos.BarsHeld,
	}
}
