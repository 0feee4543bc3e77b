package regime

import "fmt"

// FactorWeights holds the per-factor weight allocation the confluence
// scorer applies for a given regime (eleven named
// factors). All weights are non-negative and sum to 1.0.
type FactorWeights struct {
	StructureAlignment   float64
	KillZoneActive       float64
	LiquiditySweep       float64
	ObProximity          float64
	FvgAtCE              float64
	RecentBOS            float64
	RrRatio              float64
	OteZone              float64
	ObFvgConfluence      float64
	MomentumConfirmation float64
	ObVolumeQuality      float64
}

// Sum returns the total of all eleven weights.
func (w FactorWeights) Sum() float64 {
	return w.StructureAlignment + w.KillZoneActive + w.LiquiditySweep +
		w.ObProximity + w.FvgAtCE + w.RecentBOS + w.RrRatio + w.OteZone +
		w.ObFvgConfluence + w.MomentumConfirmation + w.ObVolumeQuality
}

const weightSumTolerance = 0.01

// Validate checks that the weights sum to 1.0 within tolerance and
// that no weight is negative.
func Validate(w FactorWeights) error {
	fields := map[string]float64{
		"structure_alignment":   w.StructureAlignment,
		"kill_zone_active":      w.KillZoneActive,
		"liquidity_sweep":       w.LiquiditySweep,
		"ob_proximity":          w.ObProximity,
		"fvg_at_ce":             w.FvgAtCE,
		"recent_bos":            w.RecentBOS,
		"rr_ratio":              w.RrRatio,
		"ote_zone":              w.OteZone,
		"ob_fvg_confluence":     w.ObFvgConfluence,
		"momentum_confirmation": w.MomentumConfirmation,
		"ob_volume_quality":     w.ObVolumeQuality,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("weight %s cannot be negative: %f", name, v)
		}
	}
	sum := w.Sum()
	if diff := sum - 1.0; diff < -weightSumTolerance || diff > weightSumTolerance {
		return fmt.Errorf("weights sum to %.4f, expected 1.0 +-%.2f", sum, weightSumTolerance)
	}
	return nil
}

// TrendWeights returns the built-in weight allocation for a trending
// regime (uptrend or downtrend alike — the scorer itself handles
// direction), favoring structure/momentum continuation factors.
// Ranging regimes use NeutralWeights instead.
func TrendWeights(trend TrendLabel) FactorWeights {
	if trend == TrendRanging {
		return NeutralWeights()
	}
	return FactorWeights{
		StructureAlignment:   0.18,
		KillZoneActive:       0.08,
		LiquiditySweep:       0.08,
		ObProximity:          0.10,
		FvgAtCE:              0.08,
		RecentBOS:            0.14,
		RrRatio:              0.10,
		OteZone:              0.08,
		ObFvgConfluence:      0.06,
		MomentumConfirmation: 0.07,
		ObVolumeQuality:      0.03,
	}
}

// NeutralWeights returns the built-in weight allocation for a ranging
// regime, favoring order-block/FVG/liquidity mean-reversion factors
// over trend-continuation ones.
func NeutralWeights() FactorWeights {
	return FactorWeights{
		StructureAlignment:   0.06,
		KillZoneActive:       0.10,
		LiquiditySweep:       0.18,
		ObProximity:          0.18,
		FvgAtCE:              0.14,
		RecentBOS:            0.04,
		RrRatio:              0.08,
		OteZone:              0.12,
		ObFvgConfluence:      0.06,
		MomentumConfirmation: 0.02,
		ObVolumeQuality:      0.02,
	}
}

// HighVolatilityWeights returns the built-in weight allocation for a
// high-volatility regime, leaning on kill-zone timing and OB quality
// to suppress low-conviction signals when ranges are wide.
func HighVolatilityWeights() FactorWeights {
	return FactorWeights{
		StructureAlignment:   0.08,
		KillZoneActive:       0.16,
		LiquiditySweep:       0.14,
		ObProximity:          0.10,
		FvgAtCE:              0.08,
		RecentBOS:            0.06,
		RrRatio:              0.08,
		OteZone:              0.06,
		ObFvgConfluence:      0.06,
		MomentumConfirmation: 0.08,
		ObVolumeQuality:      0.10,
	}
}

// DefaultWeightsFor returns the built-in weight allocation for a full
// regime label: high volatility takes precedence over the trend axis
// (a high-volatility uptrend still wants the volatility-aware set),
// otherwise the trend axis decides between TrendWeights and
// NeutralWeights.
func DefaultWeightsFor(m MarketRegime) FactorWeights {
	if m.Volatility == VolatilityHigh {
		return HighVolatilityWeights()
	}
	return TrendWeights(m.Trend)
}

// Normalize rescales the weights to sum exactly to 1.0, preserving
// their relative ratios.
func Normalize(w FactorWeights) FactorWeights {
	sum := w.Sum()
	if sum == 0 {
		return NeutralWeights()
	}
	factor := 1.0 / sum
	w.StructureAlignment *= factor
	w.KillZoneActive *= factor
	w.LiquiditySweep *= factor
	w.ObProximity *= factor
	w.FvgAtCE *= factor
	w.RecentBOS *= factor
	w.RrRatio *= factor
	w.OteZone *= factor
	w.ObFvgConfluence *= factor
	w.MomentumConfirmation *= factor
	w.ObVolumeQuality *= factor
	return w
}
