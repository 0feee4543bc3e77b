package indicators

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/ictcore/internal/domain"
)

func randomCandles(n int, seed int64) []domain.Candle {
	r := rand.New(rand.NewSource(seed))
	price := 100.0
	out := make([]domain.Candle, 0, n)
	for i := 0; i < n; i++ {
		move := (r.Float64() - 0.5) * 2
		o := price
		c := price + move
		hi := o
		if c > hi {
			hi = c
		}
		lo := o
		if c < lo {
			lo = c
		}
		hi += r.Float64() * 0.5
		lo -= r.Float64() * 0.5
		out = append(out, domain.Candle{
			Timestamp: int64(i) * 3600000,
			Open:      o,
			High:      hi,
			Low:       lo,
			Close:     c,
			Volume:    100 + r.Float64()*50,
		})
		price = c
	}
	return out
}

func TestEfficiencyRatio_Bounds(t *testing.T) {
	candles := randomCandles(200, 1)
	for end := 20; end <= len(candles); end += 7 {
		er := EfficiencyRatio(candles[:end], 14)
		assert.GreaterOrEqual(t, er, 0.0)
		assert.LessOrEqual(t, er, 1.0)
	}
}

func TestEfficiencyRatio_PerfectTrendIsOne(t *testing.T) {
	candles := make([]domain.Candle, 0, 20)
	price := 100.0
	for i := 0; i < 20; i++ {
		candles = append(candles, domain.Candle{
			Timestamp: int64(i) * 3600000,
			Open:      price, High: price + 1, Low: price, Close: price + 1,
		})
		price++
	}
	er := EfficiencyRatio(candles, 14)
	assert.InDelta(t, 1.0, er, 1e-9)
}

func TestATRPercentile_Bounds(t *testing.T) {
	candles := randomCandles(300, 2)
	for end := 60; end <= len(candles); end += 11 {
		p := ATRPercentile(candles[:end], 14)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestDirectionalIndex_Bounds(t *testing.T) {
	candles := randomCandles(100, 3)
	for end := 20; end <= len(candles); end += 5 {
		di := DirectionalIndex(candles[:end], 14)
		assert.GreaterOrEqual(t, di.Value, 0.0)
		assert.LessOrEqual(t, di.Value, 1.0)
	}
}

func TestCalculateATR_InsufficientDataIsInvalid(t *testing.T) {
	candles := randomCandles(5, 4)
	result := CalculateATR(candles, 14)
	assert.False(t, result.IsValid)
	assert.Equal(t, 0.0, result.Value)
}

func TestNormalizedSlope_Clamped(t *testing.T) {
	candles := randomCandles(100, 5)
	for end := 20; end <= len(candles); end += 9 {
		slope := NormalizedSlope(candles[:end], 14, 50)
		assert.GreaterOrEqual(t, slope, -1.0)
		assert.LessOrEqual(t, slope, 1.0)
	}
}
