package strategy

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/domain/structure"
)

// Generator is the stateless signature every strategy implements:
// (ctx, candles, cfg, atr) -> (signal, ok). candles is the same
// prefix ctx was built from; atr is the current-bar ATR value shared
// across generators so each doesn't recompute it.
type Generator func(ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) (domain.StrategySignal, bool)

// Registry is the static dispatch table used in place of runtime
// polymorphism: one fixed entry per StrategyName.
var Registry = map[domain.StrategyName]Generator{
	domain.StrategyOrderBlock:      OrderBlock,
	domain.StrategyFVG:             FVG,
	domain.StrategyBOSContinuation: BOSContinuation,
	domain.StrategyCHoCHReversal:   CHoCHReversal,
	domain.StrategyAsianRangeGold:  AsianRangeGold,
}

// orderedNames is StrategyPriority's key set in priority order, used
// so Generate's output order is deterministic without relying on Go's
// randomized map iteration.
var orderedNames = []domain.StrategyName{
	domain.StrategyOrderBlock,
	domain.StrategyFVG,
	domain.StrategyBOSContinuation,
	domain.StrategyCHoCHReversal,
	domain.StrategyAsianRangeGold,
}

// Generate runs every generator named in active (in strategy-priority
// order) and returns the candidates that fired, each already filtered
// by the shared cfg.MinSignalRR gate.
func Generate(active map[domain.StrategyName]bool, ctx structure.IctContext, candles []domain.Candle, cfg Config, atr float64) []domain.StrategySignal {
	var out []domain.StrategySignal
	for _, name := range orderedNames {
		if !active[name] {
			continue
		}
		gen, ok := Registry[name]
		if !ok {
			continue
		}
		signal, fired := gen(ctx, candles, cfg, atr)
		if !fired {
			continue
		}
		if signal.RiskReward < cfg.MinSignalRR {
			continue
		}
		out = append(out, signal)
	}
	return out
}
