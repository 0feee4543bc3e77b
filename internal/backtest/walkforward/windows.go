package walkforward

import "github.com/sawpanic/ictcore/internal/domain"

// WindowSpec is one generated train/validate window, expressed as
// index bounds into the original candle slice. TrainStart
// already accounts for the lookback buffer; ValEnd is exclusive.
type WindowSpec struct {
	Offset     int
	TrainStart int
	TrainEnd   int // == ValStart
	ValStart   int
	ValEnd     int // exclusive
}

// WindowConfig is the evaluator's window-generation knobs.
type WindowConfig struct {
	TrainWindowBars int
	ValWindowBars   int
	SlideStepBars   int
	LookbackBuffer  int
}

// GenerateWindows produces windows {trainSlice: candles[max(0,o-L)..o+T],
// valSlice: candles[o+T..o+T+V]} for o in {0, S, 2S, ...} while
// o+T+V <= len(candles). Returns nil if the config can't produce even
// one window.
func GenerateWindows(candles []domain.Candle, cfg WindowConfig) []WindowSpec {
	if cfg.TrainWindowBars <= 0 || cfg.ValWindowBars <= 0 || cfg.SlideStepBars <= 0 {
		return nil
	}
	n := len(candles)
	var windows []WindowSpec
	for o := 0; o+cfg.TrainWindowBars+cfg.ValWindowBars <= n; o += cfg.SlideStepBars {
		trainStart := o - cfg.LookbackBuffer
		if trainStart < 0 {
			trainStart = 0
		}
		windows = append(windows, WindowSpec{
			Offset:     o,
			TrainStart: trainStart,
			TrainEnd:   o + cfg.TrainWindowBars,
			ValStart:   o + cfg.TrainWindowBars,
			ValEnd:     o + cfg.TrainWindowBars + cfg.ValWindowBars,
		})
	}
	return windows
}

// Combined returns the contiguous train+val candle slice for this
// window (from TrainStart through ValEnd) — the prefix the scorer and
// simulator are permitted to see while evaluating this window.
func (w WindowSpec) Combined(candles []domain.Candle) []domain.Candle {
	return candles[w.TrainStart:w.ValEnd]
}

// ValStartLocal is ValStart expressed as an index into Combined's
// slice rather than the original candle series.
func (w WindowSpec) ValStartLocal() int {
	return w.ValStart - w.TrainStart
}
