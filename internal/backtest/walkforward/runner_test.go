package walkforward

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/exits"
	"github.com/sawpanic/ictcore/internal/score/confluence"
)

func defaultRunConfig() RunConfig {
	return RunConfig{
		Windows:  WindowConfig{TrainWindowBars: 60, ValWindowBars: 30, SlideStepBars: 30, LookbackBuffer: 20},
		Scorer:   confluence.DefaultScorerConfig(),
		Exit:     exits.DefaultConfig(),
		Friction: exits.DefaultFrictionConfig(),
	}
}

func TestRunSymbol_FlatMarketProducesZeroTradeWindows(t *testing.T) {
	candles := flatCandles(300)
	result, err := RunSymbol("BTCUSD", candles, defaultRunConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EligibleWindows != 0 {
		t.Fatalf("expected no eligible windows on a flat, signal-free market, got %d", result.EligibleWindows)
	}
	if result.SkippedZeroTradeWindows != result.TotalWindows {
		t.Fatalf("expected every window skipped for zero trades: %+v", result)
	}
	if !result.Passed {
		t.Fatalf("expected a symbol with no eligible windows and no violations to pass: %+v", result)
	}
}

func TestRunSymbol_InsufficientBarsIsInputError(t *testing.T) {
	candles := flatCandles(10)
	_, err := RunSymbol("BTCUSD", candles, defaultRunConfig(), nil)
	if err == nil {
		t.Fatal("expected an error for too few bars to form any window")
	}
	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *domain.InputError, got %T", err)
	}
}

func TestRunSymbol_Deterministic(t *testing.T) {
	candles := wavyCandles(300)
	cfg := defaultRunConfig()

	first, err := RunSymbol("ETHUSD", candles, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := RunSymbol("ETHUSD", candles, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected byte-identical results across two identical runs (determinism contract)")
	}
}

// wavyCandles builds a series with enough directional movement and
// reversals to exercise the structure primitives (swings, BOS/CHoCH,
// OBs, FVGs) rather than sitting perfectly flat.
func wavyCandles(n int) []domain.Candle {
	candles := make([]domain.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		delta := 0.6
		if (i/10)%2 == 0 {
			delta = -0.6
		}
		open := price
		price += delta
		high := open + 1.2
		low := open - 1.2
		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
		candles[i] = domain.Candle{
			Timestamp: int64(i) * 3600_000,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    10 + float64(i%5),
		}
	}
	return candles
}

func TestRunWalkForward_OverallPassRequiresEverySymbol(t *testing.T) {
	cfg := defaultRunConfig()
	symbols := []SymbolInput{
		{Symbol: "BTCUSD", Candles: flatCandles(300)},
		{Symbol: "AAAA", Candles: flatCandles(10)}, // too few bars -> fails
	}
	result := RunWalkForward(symbols, cfg)
	if result.OverallPass {
		t.Fatal("expected overall fail when one symbol can't even form a window")
	}
	if len(result.Symbols) != 2 {
		t.Fatalf("expected 2 symbol results, got %d", len(result.Symbols))
	}
}
