// Package feed loads candle and futures-snapshot JSON files from a
// local data directory. The core evaluator never touches this
// package directly — it is the host-side
// boundary that turns `{symbol}_{timeframe}.json` files into
// `[]domain.Candle` slices, guarded by a circuit breaker against a
// corrupt or partially-written data directory, and rate-limited for
// the live `scan` host loop where the same file may be re-read on a
// poll interval.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/ictcore/internal/domain"
)

// Loader reads candle and funding-snapshot files from Dir, one file
// per symbol/timeframe, tripping a circuit breaker after repeated
// read failures so a long walk-forward sweep fails fast on a broken
// data directory instead of stalling symbol by symbol.
type Loader struct {
	Dir string

	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewLoader returns a Loader rooted at dir. rps/burst configure the
// per-file rate limiter used by ReReadCandles (the live-scan re-read
// path); the deterministic backtest path (LoadCandles) never waits on
// the limiter.
func NewLoader(dir string, rps float64, burst int) *Loader {
	settings := gobreaker.Settings{
		Name:        "feed-loader",
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: tripAfterThreeConsecutiveFailures,
	}
	return &Loader{
		Dir:      dir,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func tripAfterThreeConsecutiveFailures(counts gobreaker.Counts) bool {
	return counts.ConsecutiveFailures >= 3
}

// candlePath returns the path for `{symbol}_{timeframe}.json`.
func (l *Loader) candlePath(symbol, timeframe string) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s_%s.json", symbol, timeframe))
}

// futuresPath returns the path for `{symbol}_futures_1h.json`.
func (l *Loader) futuresPath(symbol string) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s_futures_1h.json", symbol))
}

// LoadCandles reads and validates one symbol/timeframe's candle file,
// through the circuit breaker. Returned candles are expected sorted
// ascending by construction — LoadCandles itself rejects a file that
// violates that, via domain.ValidateCandles.
func (l *Loader) LoadCandles(symbol, timeframe string) ([]domain.Candle, error) {
	result, err := l.breaker.Execute(func() (interface{}, error) {
		return readCandleFile(l.candlePath(symbol, timeframe))
	})
	if err != nil {
		return nil, fmt.Errorf("load candles %s %s: %w", symbol, timeframe, err)
	}
	candles := result.([]domain.Candle)
	if err := domain.ValidateCandles(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

// LoadFutures reads a symbol's optional funding-rate snapshot file.
// A missing file is not an error — futures snapshots are optional —
// LoadFutures returns (nil, nil) in that case.
func (l *Loader) LoadFutures(symbol string) ([]domain.FuturesSnapshot, error) {
	path := l.futuresPath(symbol)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	result, err := l.breaker.Execute(func() (interface{}, error) {
		return readFuturesFile(path)
	})
	if err != nil {
		return nil, fmt.Errorf("load futures %s: %w", symbol, err)
	}
	return result.([]domain.FuturesSnapshot), nil
}

// ReReadCandles rate-limits repeated reads of the same symbol's
// candle file, for a live `scan` host loop polling on an interval;
// the deterministic walk-forward path never calls this.
func (l *Loader) ReReadCandles(symbol, timeframe string) ([]domain.Candle, error) {
	key := symbol + "_" + timeframe
	if err := l.limiterFor(key).Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("rate limit re-read %s: %w", key, err)
	}
	return l.LoadCandles(symbol, timeframe)
}

func (l *Loader) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[key] = lim
	return lim
}

func readCandleFile(path string) ([]domain.Candle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var candles []domain.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return candles, nil
}

func readFuturesFile(path string) ([]domain.FuturesSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snapshots []domain.FuturesSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return snapshots, nil
}
