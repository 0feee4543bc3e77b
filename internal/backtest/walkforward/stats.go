package walkforward

import (
	"math"

	"github.com/sawpanic/ictcore/internal/domain"
)

// computeStats reduces a window's trade list to the four headline
// metrics names. A nil/empty trade list returns a
// zero-valued WindowResult worth of stats — callers are expected to
// mark such windows WindowSkip rather than trust these numbers.
func computeStats(trades []domain.TradeResult, assetClass domain.AssetClass) (compoundedPnl, sharpe, maxDrawdown, winRate float64) {
	n := len(trades)
	if n == 0 {
		return 0, 0, 0, 0
	}

	returns := make([]float64, n)
	wins := 0
	for i, t := range trades {
		returns[i] = t.PnlPercent
		if t.PnlPercent > 0 {
			wins++
		}
	}
	winRate = float64(wins) / float64(n)

	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, r := range returns {
		equity *= 1 + r
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	compoundedPnl = equity - 1
	maxDrawdown = maxDD

	sharpe = Sharpe(returns, assetClass)
	return
}

// Sharpe computes the per-trade annualized Sharpe ratio:
// mean(returns)/std(returns) * sqrt(annualizationFactor), where
// annualizationFactor is itself AssetClass.AnnualizationFactor()
// (= sqrt(periods_per_year)).
//
// NumericEdge: a degenerate series (length < 2, or zero
// variance) never produces NaN/Inf. A lone return is scored 0.01 if
// positive, 0 otherwise; zero variance with a non-empty series scores
// 0.
func Sharpe(returns []float64, assetClass domain.AssetClass) float64 {
	n := len(returns)
	if n == 0 {
		return 0
	}
	if n == 1 {
		if returns[0] > 0 {
			return 0.01
		}
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n - 1)

	if variance <= 0 {
		return 0
	}
	std := math.Sqrt(variance)

	return (mean / std) * math.Sqrt(assetClass.AnnualizationFactor())
}

// WinRate is unused by the evaluator itself but kept as a
// small public helper for reporting layers that want win rate without
// the other stats.
func WinRate(trades []domain.TradeResult) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnlPercent > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// Skewness and Kurtosis are the sample third/fourth standardized
// moments of a return series, used by DSR's standard-error correction
// (Bailey & de Prado). Kurtosis here is the regular
// (non-excess) kurtosis; DSR subtracts 3 where the formula calls for
// excess kurtosis.
func Skewness(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		z := (r - mean) / std
		sum += z * z * z
	}
	return sum / float64(n)
}

func Kurtosis(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		z := (r - mean) / std
		sum += z * z * z * z
	}
	return sum / float64(n)
}

func meanStd(returns []float64) (mean, std float64) {
	n := len(returns)
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n)
	return mean, math.Sqrt(variance)
}
