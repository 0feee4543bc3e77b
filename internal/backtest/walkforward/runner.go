package walkforward

import (
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/exits"
	"github.com/sawpanic/ictcore/internal/score/confluence"
)

// RunConfig bundles every sub-config a window evaluation needs: the
// window-generation geometry plus the scorer, simulator and friction
// configuration the strategy runner uses on every bar.
type RunConfig struct {
	Windows  WindowConfig
	Scorer   confluence.ScorerConfig
	Exit     exits.Config
	Friction exits.FrictionConfig
}

// EvaluateWindow runs the full strategy pipeline (structure -> regime
// -> strategies -> scorer -> simulator) over one window's combined
// train+val slice, emitting only trades whose entry falls within the
// validation slice. Bars before ValStart serve only as
// no-look-ahead context for the scorer's lookback windows.
func EvaluateWindow(candles []domain.Candle, w WindowSpec, cfg RunConfig, assetClass domain.AssetClass, futures []domain.FuturesSnapshot) WindowResult {
	combined := w.Combined(candles)
	valStartLocal := w.ValStartLocal()

	state := confluence.NewState()
	var trades []domain.TradeResult

	for i := valStartLocal; i < len(combined); i++ {
		prefix := combined[:i+1]
		result, next := confluence.EvaluateBar(prefix, i, cfg.Scorer, state, futures)
		state = next
		if result.Action != domain.ActionTrade || result.SelectedSignal == nil {
			continue
		}
		trade, opened := exits.Simulate(combined, *result.SelectedSignal, cfg.Exit, cfg.Friction)
		if !opened {
			continue
		}
		trades = append(trades, trade)
	}

	wr := WindowResult{
		Offset:     w.Offset,
		TrainStart: w.TrainStart,
		TrainEnd:   w.TrainEnd,
		ValStart:   w.ValStart,
		ValEnd:     w.ValEnd,
		Trades:     trades,
		TradeCount: len(trades),
	}
	if len(trades) == 0 {
		wr.Status = WindowSkip
		return wr
	}
	wr.Status = WindowEvaluated
	wr.CompoundedPnl, wr.Sharpe, wr.MaxDrawdown, wr.WinRate = computeStats(trades, assetClass)
	return wr
}

// RunSymbol generates every window for one symbol's candle series and
// evaluates each, then applies the per-symbol pass rules. assetClass
// is always inferred from symbol via domain.InferAssetClass; RunSymbol
// takes no override.
func RunSymbol(symbol string, candles []domain.Candle, cfg RunConfig, futures []domain.FuturesSnapshot) (SymbolWFResult, error) {
	if err := domain.ValidateCandles(candles); err != nil {
		return SymbolWFResult{}, err
	}
	windows := GenerateWindows(candles, cfg.Windows)
	if len(windows) == 0 {
		return SymbolWFResult{}, domain.NewInputError("insufficient bars for the requested window configuration")
	}

	assetClass := domain.InferAssetClass(symbol)
	results := make([]WindowResult, len(windows))
	for i, w := range windows {
		results[i] = EvaluateWindow(candles, w, cfg, assetClass, futures)
	}

	symResult := EvaluateSymbol(symbol, results)
	symResult.AssetClass = assetClass
	return symResult, nil
}

// SymbolInput is one symbol's candle series (and optional futures
// snapshots) fed into RunWalkForward.
type SymbolInput struct {
	Symbol  string
	Candles []domain.Candle
	Futures []domain.FuturesSnapshot
}

// RunWalkForward evaluates every symbol and aggregates the run-level
// verdict (overall pass = every symbol passes). Symbols
// are evaluated strictly in the order given; the core itself never
// parallelizes across symbols (leaves that to the host).
// A symbol whose candles fail validation or whose window
// configuration yields no windows is recorded as a failed symbol
// rather than aborting the run.
func RunWalkForward(symbols []SymbolInput, cfg RunConfig) WalkForwardResult {
	out := WalkForwardResult{Symbols: make([]SymbolWFResult, len(symbols))}
	for i, sym := range symbols {
		res, err := RunSymbol(sym.Symbol, sym.Candles, cfg, sym.Futures)
		if err != nil {
			res = SymbolWFResult{
				Symbol:      sym.Symbol,
				AssetClass:  domain.InferAssetClass(sym.Symbol),
				Passed:      false,
				FailReasons: []string{err.Error()},
			}
		}
		out.Symbols[i] = res
	}
	out.OverallPass = OverallPass(out.Symbols)
	out.PassRate = OverallPassRate(out.Symbols)
	return out
}
