package walkforward

import (
	"math"
	"testing"

	"github.com/sawpanic/ictcore/internal/domain"
)

func trade(pnl float64) domain.TradeResult {
	return domain.TradeResult{PnlPercent: pnl}
}

func TestSharpe_DegenerateSeries(t *testing.T) {
	if got := Sharpe(nil, domain.AssetClassCrypto); got != 0 {
		t.Fatalf("empty series: expected 0, got %v", got)
	}
	if got := Sharpe([]float64{0.02}, domain.AssetClassCrypto); got != 0.01 {
		t.Fatalf("single positive return: expected 0.01, got %v", got)
	}
	if got := Sharpe([]float64{-0.02}, domain.AssetClassCrypto); got != 0 {
		t.Fatalf("single negative return: expected 0, got %v", got)
	}
	if got := Sharpe([]float64{0.01, 0.01, 0.01}, domain.AssetClassCrypto); got != 0 {
		t.Fatalf("zero-variance series: expected 0, got %v", got)
	}
}

// Sharpe scale-invariance: scaling every return by a
// positive factor k leaves Sharpe unchanged, since both mean and std
// scale by k identically.
func TestSharpe_ScaleInvariance(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, 0.015, -0.01}
	base := Sharpe(returns, domain.AssetClassCrypto)

	scaled := make([]float64, len(returns))
	k := 3.5
	for i, r := range returns {
		scaled[i] = r * k
	}
	got := Sharpe(scaled, domain.AssetClassCrypto)
	if math.Abs(got-base) > 1e-9 {
		t.Fatalf("expected scale invariance: base=%v scaled=%v", base, got)
	}
}

func TestComputeStats_WinRateAndDrawdown(t *testing.T) {
	trades := []domain.TradeResult{trade(0.05), trade(-0.10), trade(0.05)}
	compounded, _, maxDD, winRate := computeStats(trades, domain.AssetClassCrypto)

	if winRate < 0.66 || winRate > 0.67 {
		t.Fatalf("expected win rate ~2/3, got %v", winRate)
	}
	if maxDD <= 0 {
		t.Fatalf("expected positive max drawdown after a losing trade, got %v", maxDD)
	}
	wantEquity := (1.05) * (0.90) * (1.05)
	if math.Abs(compounded-(wantEquity-1)) > 1e-9 {
		t.Fatalf("expected compounded pnl %v, got %v", wantEquity-1, compounded)
	}
}

func TestAssetClassAnnualization_AffectsSharpe(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, 0.015, -0.01}
	crypto := Sharpe(returns, domain.AssetClassCrypto)
	forex := Sharpe(returns, domain.AssetClassForex)
	if crypto == forex {
		t.Fatal("expected different annualization factors to produce different Sharpe values")
	}
}
