package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Candle is a single fixed-interval OHLCV bar. Candles are immutable
// once constructed; nothing downstream may mutate a Candle in place.
type Candle struct {
	Timestamp int64   `json:"timestamp"` // ms since epoch
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// ValidateCandles checks the invariants every consumer of a candle
// series may assume: strictly increasing timestamps and internally
// consistent OHLC values. Gaps in the timestamp series are permitted
// (weekend/holiday closure); duplicate or decreasing timestamps are not.
func ValidateCandles(candles []Candle) error {
	for i, c := range candles {
		lo := c.Open
		if c.Close < lo {
			lo = c.Close
		}
		hi := c.Open
		if c.Close > hi {
			hi = c.Close
		}
		if c.Low > lo || hi > c.High {
			return NewInputError(fmt.Sprintf("candle[%d] at ts=%d violates low<=min(open,close)<=max(open,close)<=high", i, c.Timestamp))
		}
		if i > 0 && c.Timestamp <= candles[i-1].Timestamp {
			return NewInputError(fmt.Sprintf("candle[%d] timestamp %d does not strictly increase from candle[%d] timestamp %d", i, c.Timestamp, i-1, candles[i-1].Timestamp))
		}
	}
	return nil
}

// Prefix returns candles[0:upto+1], the only slice shape structure
// primitives and the scorer are permitted to observe at bar upto —
// this is the mechanical expression of the no-look-ahead constraint.
func Prefix(candles []Candle, upto int) []Candle {
	if upto < 0 {
		return nil
	}
	if upto >= len(candles)-1 {
		return candles
	}
	return candles[:upto+1]
}

// Body returns the candle's body span, low to high of open/close.
func (c Candle) Body() (lo, hi float64) {
	if c.Open <= c.Close {
		return c.Open, c.Close
	}
	return c.Close, c.Open
}

// BodySize returns the absolute size of the candle's body.
func (c Candle) BodySize() float64 {
	lo, hi := c.Body()
	return hi - lo
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool { return c.Close < c.Open }

// TimeframeMinutes parses a timeframe label such as "15m", "1h", "4h"
// into its duration in minutes. Used at config/load time to compute
// the bar ratio between a base and a higher timeframe for MTF bias;
// never called from the per-bar hot path.
func TimeframeMinutes(tf string) (int, error) {
	tf = strings.TrimSpace(strings.ToLower(tf))
	if tf == "" {
		return 0, fmt.Errorf("empty timeframe")
	}
	unit := tf[len(tf)-1]
	n, err := strconv.Atoi(tf[:len(tf)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid timeframe %q", tf)
	}
	switch unit {
	case 'm':
		return n, nil
	case 'h':
		return n * 60, nil
	case 'd':
		return n * 60 * 24, nil
	default:
		return 0, fmt.Errorf("invalid timeframe unit in %q", tf)
	}
}

// Resample aggregates a candle series into bars of barsPerGroup base
// candles each, oldest-complete-group first. A trailing partial group
// (fewer than barsPerGroup candles) is dropped: an in-progress higher
// timeframe bar would leak information from candles not yet closed,
// violating the no-look-ahead constraint.
func Resample(candles []Candle, barsPerGroup int) []Candle {
	if barsPerGroup <= 1 || len(candles) < barsPerGroup {
		return nil
	}
	groups := len(candles) / barsPerGroup
	out := make([]Candle, 0, groups)
	for g := 0; g < groups; g++ {
		chunk := candles[g*barsPerGroup : (g+1)*barsPerGroup]
		agg := Candle{
			Timestamp: chunk[0].Timestamp,
			Open:      chunk[0].Open,
			Close:     chunk[len(chunk)-1].Close,
			High:      chunk[0].High,
			Low:       chunk[0].Low,
		}
		for _, c := range chunk {
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
			agg.Volume += c.Volume
		}
		out = append(out, agg)
	}
	return out
}
