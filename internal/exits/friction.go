package exits

import "github.com/sawpanic/ictcore/internal/domain"

// FrictionConfig models the one-way trading cost applied on both the
// entry and the exit fill: commission plus expected
// slippage, each expressed as a fraction of price.
type FrictionConfig struct {
	CommissionPercent float64
	SlippagePercent   float64
}

// DefaultFrictionConfig mirrors a typical retail-crypto taker fee plus
// a conservative slippage allowance.
func DefaultFrictionConfig() FrictionConfig {
	return FrictionConfig{
		CommissionPercent: 0.0004,
		SlippagePercent:   0.0003,
	}
}

func (f FrictionConfig) perSide() float64 {
	return f.CommissionPercent + f.SlippagePercent
}

// AdjustedEntry applies the friction model's entry-side cost: longs
// pay more to get in, shorts receive less
// (adjustedEntry = entryPrice*(1±friction)).
func (f FrictionConfig) AdjustedEntry(direction domain.Direction, price float64) float64 {
	friction := f.perSide()
	if direction == domain.Long {
		return price * (1 + friction)
	}
	return price * (1 - friction)
}

// AdjustedExit applies the friction model's exit-side cost: longs
// receive less on the way out, shorts pay more to cover.
func (f FrictionConfig) AdjustedExit(direction domain.Direction, price float64) float64 {
	friction := f.perSide()
	if direction == domain.Long {
		return price * (1 - friction)
	}
	return price * (1 + friction)
}
