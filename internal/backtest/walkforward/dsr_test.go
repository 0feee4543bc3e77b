package walkforward

import (
	"math"
	"testing"
)

func TestComputeDSR_StrongSharpeFewTrialsPasses(t *testing.T) {
	result := ComputeDSR(DSRInput{
		ObservedSharpe: 2.5,
		NumTrades:      500,
		Skewness:       0,
		Kurtosis:       3,
		NumTrials:      5,
	})
	if !result.Passes {
		t.Fatalf("expected a strong, low-multiple-testing Sharpe to pass DSR: %+v", result)
	}
	want := (2.5 - result.ExpectedMaxSharpe) / math.Sqrt(1.0/499)
	if math.Abs(result.DeflatedSharpe-want) > 1e-9 {
		t.Fatalf("deflated Sharpe should be the number of standard errors above the expected max: want %v, got %v", want, result.DeflatedSharpe)
	}
}

func TestComputeDSR_ManyTrialsErodesSignificance(t *testing.T) {
	few := ComputeDSR(DSRInput{ObservedSharpe: 1.0, NumTrades: 200, Kurtosis: 3, NumTrials: 2})
	many := ComputeDSR(DSRInput{ObservedSharpe: 1.0, NumTrades: 200, Kurtosis: 3, NumTrials: 5000})
	if many.DeflatedSharpe >= few.DeflatedSharpe {
		t.Fatalf("expected more trials to erode the deflated Sharpe: few=%v many=%v", few.DeflatedSharpe, many.DeflatedSharpe)
	}
}

func TestComputeDSR_InsufficientTradesRejected(t *testing.T) {
	result := ComputeDSR(DSRInput{ObservedSharpe: 1.0, NumTrades: 1, NumTrials: 1})
	if result.Passes {
		t.Fatal("expected a single-trade series to fail DSR outright")
	}
}

func TestComputeDSR_BelowMinimumBacktestLengthFails(t *testing.T) {
	result := ComputeDSR(DSRInput{
		ObservedSharpe: 0.3,
		NumTrades:      5,
		Kurtosis:       3,
		NumTrials:      1000,
	})
	if result.Passes {
		t.Fatalf("expected a short, weak-edge series under many trials to fail MinBTL: %+v", result)
	}
}
