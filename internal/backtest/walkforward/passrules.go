package walkforward

import "fmt"

// EvaluateSymbol applies per-symbol pass rules to a
// completed set of window results:
//
//   - windows with zero trades are skipped, not failed, and excluded
//     from the pass/fail ratio;
//   - among eligible (trade-bearing) windows, positiveSharpeCount must
//     be >= min(minPositiveWindows, totalEligible) (codified
//     reduction for runs with few eligible windows);
//   - no eligible window may have Sharpe < catastrophicSharpe;
//   - a symbol passes only if neither rule is violated.
//
// The testable invariant positiveWindows + nonPositive +
// skippedZeroTrade == totalWindowsGenerated holds by
// construction: every window in windows contributes to exactly one of
// the three buckets.
func EvaluateSymbol(symbol string, windows []WindowResult) SymbolWFResult {
	result := SymbolWFResult{
		Symbol:       symbol,
		Windows:      windows,
		TotalWindows: len(windows),
	}

	for _, w := range windows {
		if w.Status == WindowSkip || w.TradeCount == 0 {
			result.SkippedZeroTradeWindows++
			continue
		}
		result.EligibleWindows++
		if w.Sharpe > 0 {
			result.PositiveWindows++
		} else {
			result.NonPositiveWindows++
		}
		if w.Sharpe < catastrophicSharpe {
			result.CatastrophicViolation = true
		}
	}

	required := minPositiveWindows
	if result.EligibleWindows < required {
		required = result.EligibleWindows
	}

	result.Passed = true
	if result.CatastrophicViolation {
		result.Passed = false
		result.FailReasons = append(result.FailReasons, "catastrophic Sharpe (< -2.0) in an eligible window")
	}
	if result.PositiveWindows < required {
		result.Passed = false
		result.FailReasons = append(result.FailReasons, fmt.Sprintf(
			"only %d/%d eligible windows positive, required %d", result.PositiveWindows, result.EligibleWindows, required))
	}

	return result
}

// OverallPassRate computes passRate: the eligible-windows
// pass fraction across all symbols (positive windows / eligible
// windows, summed before dividing so symbols with more eligible
// windows weigh proportionally more).
func OverallPassRate(symbols []SymbolWFResult) float64 {
	var eligible, positive int
	for _, s := range symbols {
		eligible += s.EligibleWindows
		positive += s.PositiveWindows
	}
	if eligible == 0 {
		return 0
	}
	return float64(positive) / float64(eligible)
}

// OverallPass is true only when every symbol passes.
func OverallPass(symbols []SymbolWFResult) bool {
	for _, s := range symbols {
		if !s.Passed {
			return false
		}
	}
	return len(symbols) > 0
}
