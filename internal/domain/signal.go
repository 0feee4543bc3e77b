package domain

// Direction is a trade side.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

// StrategyName is the closed set of signal generators, dispatched
// through a static registry rather than runtime polymorphism.
// Priority order for tie-breaking in the scorer is the declaration
// order below.
type StrategyName string

const (
	StrategyOrderBlock      StrategyName = "order_block"
	StrategyFVG             StrategyName = "fvg"
	StrategyBOSContinuation StrategyName = "bos_continuation"
	StrategyCHoCHReversal   StrategyName = "choch_reversal"
	StrategyAsianRangeGold  StrategyName = "asian_range_gold"
)

// StrategyPriority is the tie-break order the scorer applies when two
// candidates score identically (step 8): lower value wins.
var StrategyPriority = map[StrategyName]int{
	StrategyOrderBlock:      0,
	StrategyFVG:             1,
	StrategyBOSContinuation: 2,
	StrategyCHoCHReversal:   3,
	StrategyAsianRangeGold:  4,
}

// FactorBreakdown is the per-factor raw score (before weighting) for
// the confluence scorer's eleven named factors, in the declared
// iteration order the determinism contract requires.
type FactorBreakdown struct {
	StructureAlignment   float64
	KillZoneActive       float64
	LiquiditySweep       float64
	ObProximity          float64
	FvgAtCE              float64
	RecentBOS            float64
	RrRatio              float64
	OteZone              float64
	ObFvgConfluence      float64
	MomentumConfirmation float64
	ObVolumeQuality      float64
}

// StrategySignal is a candidate trade proposed by a strategy
// generator. It is consumed by the scorer and, if selected,
// becomes a SimulatedPosition.
type StrategySignal struct {
	Strategy        StrategyName
	Direction       Direction
	EntryIndex      int
	EntryTimestamp  int64
	EntryPrice      float64
	StopLoss        float64
	TakeProfit      float64
	RiskReward      float64
	FactorBreakdown FactorBreakdown
}

// RiskDistance returns |entry-stopLoss|.
func (s StrategySignal) RiskDistance() float64 {
	d := s.EntryPrice - s.StopLoss
	if d < 0 {
		d = -d
	}
	return d
}
