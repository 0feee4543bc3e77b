// Package walkforward implements rolling train/validate
// windows over a candle series, per-symbol pass rules, and the
// PBO/DSR overfitting statistics. It is the last stage of the core
// pipeline — everything here is a pure function of the windows and
// trades produced by the confluence scorer and position simulator.
package walkforward

import (
	"github.com/google/uuid"

	"github.com/sawpanic/ictcore/internal/domain"
)

// WindowStatus classifies how a single window's validation slice
// resolved: zero-trade windows are skipped, not failed.
type WindowStatus string

const (
	WindowEvaluated WindowStatus = "evaluated"
	WindowSkip      WindowStatus = "skip" // zero trades in the validation slice
)

// WindowResult is the per-window evaluation output.
type WindowResult struct {
	Offset       int          `json:"offset"`
	TrainStart   int          `json:"train_start"`
	TrainEnd     int          `json:"train_end"`
	ValStart     int          `json:"val_start"`
	ValEnd       int          `json:"val_end"`
	Status       WindowStatus `json:"status"`
	Trades       []domain.TradeResult `json:"trades"`
	TradeCount   int          `json:"trade_count"`
	CompoundedPnl float64     `json:"compounded_pnl"`
	Sharpe       float64      `json:"sharpe"`
	MaxDrawdown  float64      `json:"max_drawdown"`
	WinRate      float64      `json:"win_rate"`
}

// SymbolWFResult aggregates every window generated for one symbol and
// the per-symbol pass verdict (pass rules).
type SymbolWFResult struct {
	Symbol                  string         `json:"symbol"`
	AssetClass              domain.AssetClass `json:"asset_class"`
	Windows                 []WindowResult `json:"windows"`
	TotalWindows            int            `json:"total_windows"`
	EligibleWindows         int            `json:"eligible_windows"`
	PositiveWindows         int            `json:"positive_windows"`
	NonPositiveWindows      int            `json:"non_positive_windows"`
	SkippedZeroTradeWindows int            `json:"skipped_zero_trade_windows"`
	CatastrophicViolation   bool           `json:"catastrophic_violation"`
	Passed                  bool           `json:"passed"`
	FailReasons             []string       `json:"fail_reasons,omitempty"`
}

// WalkForwardResult is the run-level artifact. RunID is left zero by
// RunWalkForward (the evaluator itself is a pure function of its
// inputs); callers that persist a result stamp it with
// uuid.New() first, so artifacts from the same invocation can be
// joined across symbols.
type WalkForwardResult struct {
	RunID       uuid.UUID        `json:"run_id"`
	Symbols     []SymbolWFResult `json:"symbols"`
	OverallPass bool             `json:"overall_pass"`
	PassRate    float64          `json:"pass_rate"`
	PBO         *PBOResult       `json:"pbo,omitempty"`
}

// minPositiveWindows is the nominal target for positiveWindows among
// eligible windows; codifies the reference's implicit
// reduction to min(7, totalEligible) when fewer than 7 windows exist.
const minPositiveWindows = 7

// catastrophicSharpe is the floor no eligible window's Sharpe may
// fall below.
const catastrophicSharpe = -2.0
