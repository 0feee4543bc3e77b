package walkforward

import (
	"testing"

	"github.com/sawpanic/ictcore/internal/domain"
)

func flatCandles(n int) []domain.Candle {
	candles := make([]domain.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		candles[i] = domain.Candle{
			Timestamp: int64(i) * 3600_000,
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    10,
		}
	}
	return candles
}

func TestGenerateWindows_BoundsAndStride(t *testing.T) {
	candles := flatCandles(100)
	cfg := WindowConfig{TrainWindowBars: 20, ValWindowBars: 10, SlideStepBars: 10, LookbackBuffer: 5}

	windows := GenerateWindows(candles, cfg)
	if len(windows) == 0 {
		t.Fatal("expected at least one window")
	}
	for _, w := range windows {
		if w.ValEnd > len(candles) {
			t.Fatalf("window val end %d exceeds candle length %d", w.ValEnd, len(candles))
		}
		if w.ValStart != w.Offset+cfg.TrainWindowBars {
			t.Fatalf("unexpected val start: %+v", w)
		}
		if w.TrainStart < 0 {
			t.Fatalf("train start must not be negative: %+v", w)
		}
	}
	// First window's train start should be clamped to 0 since offset 0 - buffer < 0.
	if windows[0].TrainStart != 0 {
		t.Fatalf("expected first window's train start clamped to 0, got %d", windows[0].TrainStart)
	}
}

func TestGenerateWindows_InsufficientBars(t *testing.T) {
	candles := flatCandles(10)
	cfg := WindowConfig{TrainWindowBars: 20, ValWindowBars: 10, SlideStepBars: 10}
	windows := GenerateWindows(candles, cfg)
	if len(windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(windows))
	}
}

func TestWindowSpec_CombinedAndValStartLocal(t *testing.T) {
	candles := flatCandles(100)
	w := WindowSpec{Offset: 30, TrainStart: 25, TrainEnd: 50, ValStart: 50, ValEnd: 60}
	combined := w.Combined(candles)
	if len(combined) != 35 {
		t.Fatalf("expected combined length 35, got %d", len(combined))
	}
	if w.ValStartLocal() != 25 {
		t.Fatalf("expected val start local 25, got %d", w.ValStartLocal())
	}
}
