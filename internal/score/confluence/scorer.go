package confluence

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/indicators"
	"github.com/sawpanic/ictcore/internal/domain/regime"
	"github.com/sawpanic/ictcore/internal/domain/strategy"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

const atrPeriod = 14

// State is the per-window mutable state the scorer's per-bar loop
// threads explicitly instead of holding it on a long-lived object
// (redesign flag): cooldown timestamps per strategy. A
// caller starts a window with a zero State and carries the returned
// value into the next bar.
type State struct {
	lastTradeIndex map[domain.StrategyName]int
}

// NewState returns a fresh per-window scorer state.
func NewState() State {
	return State{lastTradeIndex: map[domain.StrategyName]int{}}
}

func (s State) withTrade(name domain.StrategyName, index int) State {
	next := map[domain.StrategyName]int{}
	for k, v := range s.lastTradeIndex {
		next[k] = v
	}
	next[name] = index
	return State{lastTradeIndex: next}
}

func (s State) cooldownActive(name domain.StrategyName, index, cooldownBars int) bool {
	last, ok := s.lastTradeIndex[name]
	if !ok {
		return false
	}
	return index-last < cooldownBars
}

// EvaluateBar runs the full pipeline for the bar at index i
// and returns the result plus the State to carry into the next bar.
// candles must be the prefix ending at (and including) i; no look-
// ahead occurs since BuildContext and every strategy generator read
// only that prefix.
func EvaluateBar(candles []domain.Candle, i int, cfg ScorerConfig, st State, futures []domain.FuturesSnapshot) (domain.ConfluenceResult, State) {
	ctx := structure.BuildContext(candles, i, cfg.StructureConfig)
	reg := regime.Classify(candles[:i+1], cfg.RegimeThresholds)

	if cfg.SuppressedRegimes[reg.Label()] || reg.Confidence < cfg.RegimeConfidenceGate {
		return domain.ConfluenceResult{
			Index:            i,
			Action:           domain.ActionWait,
			Regime:           string(reg.Label()),
			SuppressedReason: "regime",
		}, st
	}

	if cfg.RegimeFilter.Enabled &&
		(reg.Diagnostics.EfficiencyRatio < cfg.RegimeFilter.MinEfficiency ||
			reg.Diagnostics.TrendStrength < cfg.RegimeFilter.MinTrendStrength) {
		return domain.ConfluenceResult{
			Index:            i,
			Action:           domain.ActionWait,
			Regime:           string(reg.Label()),
			SuppressedReason: "regime_filter",
		}, st
	}

	if cfg.RequireKillZone && !ctx.KillZone {
		return domain.ConfluenceResult{
			Index:            i,
			Action:           domain.ActionWait,
			Regime:           string(reg.Label()),
			SuppressedReason: "kill_zone",
		}, st
	}

	atr := indicators.CalculateATR(candles, atrPeriod).Value
	candidates := strategy.Generate(cfg.ActiveStrategies, ctx, candles, cfg.StrategyConfig, atr)

	bar := candles[i]
	weights := weightsFor(cfg, reg)
	htfTrend := higherTimeframeTrend(candles[:i+1], cfg.MTFBias, cfg.RegimeThresholds)
	var scored []domain.ScoredSignal

	for _, sig := range candidates {
		if st.cooldownActive(sig.Strategy, i, cfg.CooldownBars) {
			continue
		}
		if cfg.AtrExtensionBands > 0 && atr > 0 {
			dist := sig.EntryPrice - bar.Close
			if dist < 0 {
				dist = -dist
			}
			if dist > cfg.AtrExtensionBands*atr {
				continue
			}
		}
		if !passesFundingFilter(cfg, sig, futures, bar.Timestamp) {
			continue
		}
		if !htfTrend.agrees(sig.Direction) {
			continue
		}

		fb := computeFactors(ctx, candles, sig, atr, reg, cfg)
		total := weightedTotal(fb, weights)
		scored = append(scored, domain.ScoredSignal{Signal: sig, TotalScore: total})
	}

	result := domain.ConfluenceResult{
		Index:     i,
		AllScored: scored,
		Action:    domain.ActionWait,
		Regime:    string(reg.Label()),
	}

	if len(scored) == 0 {
		return result, st
	}

	threshold := thresholdFor(cfg, reg)
	best, ok := selectBest(scored, threshold)
	if !ok {
		return result, st
	}

	selected := best.Signal
	result.SelectedSignal = &selected
	result.Action = domain.ActionTrade
	result.TotalScore = best.TotalScore
	result.FactorBreakdown = computeFactors(ctx, candles, selected, atr, reg, cfg)

	return result, st.withTrade(selected.Strategy, i)
}

// selectBest picks the highest-scored candidate at or above
// threshold; ties break by strategy priority, then by earliest
// timestamp (step 8).
func selectBest(scored []domain.ScoredSignal, threshold float64) (domain.ScoredSignal, bool) {
	var best *domain.ScoredSignal
	for i := range scored {
		s := scored[i]
		if s.TotalScore < threshold {
			continue
		}
		if best == nil || betterCandidate(s, *best) {
			best = &s
		}
	}
	if best == nil {
		return domain.ScoredSignal{}, false
	}
	return *best, true
}

func betterCandidate(a, b domain.ScoredSignal) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	pa, pb := domain.StrategyPriority[a.Signal.Strategy], domain.StrategyPriority[b.Signal.Strategy]
	if pa != pb {
		return pa < pb
	}
	return a.Signal.EntryTimestamp < b.Signal.EntryTimestamp
}

// mtfVerdict is the outcome of resolving the higher-timeframe trend for
// one bar: either no opinion (bias disabled, insufficient resampled
// history, or a ranging/unknown higher-timeframe regime) or a required
// direction a candidate must agree with.
type mtfVerdict struct {
	hasOpinion bool
	direction  domain.Direction
}

func (v mtfVerdict) agrees(d domain.Direction) bool {
	if !v.hasOpinion {
		return true
	}
	return v.direction == d
}

// higherTimeframeTrend resamples the candle prefix to MTFBias's
// configured ratio and classifies its regime, so a candidate can be
// rejected when it fights the higher-timeframe trend. A ranging or
// unclassifiable higher timeframe carries no opinion — it never
// blocks a candidate, only a trending one does.
func higherTimeframeTrend(prefix []domain.Candle, cfg MTFBias, thresholds regime.Thresholds) mtfVerdict {
	if !cfg.Enabled || cfg.BarsPerHigherBar <= 1 {
		return mtfVerdict{}
	}
	resampled := domain.Resample(prefix, cfg.BarsPerHigherBar)
	if resampled == nil {
		return mtfVerdict{}
	}
	htf := regime.Classify(resampled, thresholds)
	switch htf.Trend {
	case regime.TrendUptrend:
		return mtfVerdict{hasOpinion: true, direction: domain.Long}
	case regime.TrendDowntrend:
		return mtfVerdict{hasOpinion: true, direction: domain.Short}
	default:
		return mtfVerdict{}
	}
}

// passesFundingFilter applies step 7: for longs require
// fundingRate <= FundingMaxForLong; for shorts, >= FundingMinForShort.
// Absent a futures snapshot at this timestamp, the filter passes
// (funding is optional input).
func passesFundingFilter(cfg ScorerConfig, sig domain.StrategySignal, futures []domain.FuturesSnapshot, timestamp int64) bool {
	rate, ok := domain.FundingRateAt(futures, timestamp)
	if !ok {
		return true
	}
	if cfg.FundingScoringMode == FundingAligned {
		rate = -rate
	}
	if sig.Direction == domain.Long {
		return rate <= cfg.FundingMaxForLong
	}
	return rate >= cfg.FundingMinForShort
}
