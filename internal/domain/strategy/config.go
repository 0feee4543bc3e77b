// Package strategy implements the five ICT signal generators as a
// closed, statically dispatched enum: each StrategyName maps to
// exactly one stateless function in the Registry table, never to a
// runtime-polymorphic interface value.
package strategy

import "github.com/sawpanic/ictcore/internal/domain"

// SLMode is the global stop-loss placement mode.
type SLMode string

const (
	SLModeOBBased    SLMode = "ob_based"
	SLModeEntryBased SLMode = "entry_based"
	SLModeDynamicRR  SLMode = "dynamic_rr"
)

// Config holds every knob a generator needs. It is immutable once
// built and shared read-only across all generator calls in a window.
type Config struct {
	SLMode          SLMode
	MinSignalRR     float64
	DefaultRR       float64
	ObBufferATR     float64 // ob_based: buffer beyond the OB's far side, in ATRs
	EntrySLPercent  float64 // entry_based: fractional distance from entry
	DynamicRRATRMul float64 // dynamic_rr: |entry-SL| = atr * this

	DisplacementMinPercent float64 // asian_range_gold minimum displacement threshold
	MaxStructureAge        int     // bars a BOS/CHoCH stays eligible for continuation/reversal triggers
	AsianRangeStartHourUTC int
	AsianRangeEndHourUTC   int
	AsianLongBiasMultiplier float64
}

// DefaultConfig returns the strategy-generator defaults.
func DefaultConfig() Config {
	return Config{
		SLMode:                  SLModeOBBased,
		MinSignalRR:             1.5,
		DefaultRR:               2.0,
		ObBufferATR:             0.25,
		EntrySLPercent:          0.01,
		DynamicRRATRMul:         1.5,
		DisplacementMinPercent:  0.01,
		MaxStructureAge:         20,
		AsianRangeStartHourUTC:  0,
		AsianRangeEndHourUTC:    6,
		AsianLongBiasMultiplier: 1.2,
	}
}

// placeSL computes the stop-loss for a signal given the structural
// reference price (the OB/sweep far side or structural swing the
// strategy identified) and entry/ATR context, per the three
// configurable SL modes (ob_based, entry_based, dynamic_rr).
func placeSL(cfg Config, dir domain.Direction, entry, atr, structuralRef float64) float64 {
	switch cfg.SLMode {
	case SLModeEntryBased:
		if dir == domain.Long {
			return entry * (1 - cfg.EntrySLPercent)
		}
		return entry * (1 + cfg.EntrySLPercent)
	case SLModeDynamicRR:
		dist := atr * cfg.DynamicRRATRMul
		if dir == domain.Long {
			return entry - dist
		}
		return entry + dist
	default: // ob_based
		buffer := atr * cfg.ObBufferATR
		if dir == domain.Long {
			return structuralRef - buffer
		}
		return structuralRef + buffer
	}
}

// placeTP computes the take-profit as entry + RR*riskDistance
// (reflected through entry for shorts).
func placeTP(dir domain.Direction, entry, sl, rr float64) float64 {
	riskDistance := entry - sl
	if riskDistance < 0 {
		riskDistance = -riskDistance
	}
	if dir == domain.Long {
		return entry + rr*riskDistance
	}
	return entry - rr*riskDistance
}

func riskReward(entry, sl, tp float64) float64 {
	risk := entry - sl
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return 0
	}
	reward := tp - entry
	if reward < 0 {
		reward = -reward
	}
	return reward / risk
}
