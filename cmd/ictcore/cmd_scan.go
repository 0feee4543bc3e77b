package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/ictcore/internal/config"
	"github.com/sawpanic/ictcore/internal/domain"
	"github.com/sawpanic/ictcore/internal/io/feed"
	"github.com/sawpanic/ictcore/internal/score/confluence"
)

func newScanCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		symbol     string
		timeframe  string
	)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Replay the confluence scorer over one symbol's candle file bar by bar",
		Long: `scan is an offline automation shim over the deterministic core: it
feeds every bar of a candle file through the confluence scorer in
order and prints each bar the scorer selects a trade signal on. It
never simulates positions or evaluates a walk-forward window — use
'ictcore backtest walkforward' for that.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			scorerCfg := cfg.ToScorerConfig()

			loader := feed.NewLoader(dataDir, 2.0, 5)
			candles, err := loader.LoadCandles(symbol, timeframe)
			if err != nil {
				return err
			}
			futures, err := loader.LoadFutures(symbol)
			if err != nil {
				return err
			}

			state := confluence.NewState()
			selected := 0
			for i := range candles {
				prefix := domain.Prefix(candles, i)
				var result domain.ConfluenceResult
				result, state = confluence.EvaluateBar(prefix, i, scorerCfg, state, futures)
				if result.Action != domain.ActionTrade || result.SelectedSignal == nil {
					continue
				}
				selected++
				sig := result.SelectedSignal
				fmt.Printf("bar %d ts=%d strategy=%s direction=%s entry=%.4f sl=%.4f tp=%.4f score=%.3f regime=%s\n",
					i, candles[i].Timestamp, sig.Strategy, sig.Direction, sig.EntryPrice, sig.StopLoss, sig.TakeProfit, result.TotalScore, result.Regime)
			}
			fmt.Printf("%d bars scanned, %d signals selected\n", len(candles), selected)
			return nil
		},
	}
	scanCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to YAML config")
	scanCmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory of {symbol}_{timeframe}.json candle files")
	scanCmd.Flags().StringVar(&symbol, "symbol", "", "Symbol to scan")
	scanCmd.Flags().StringVar(&timeframe, "timeframe", "1h", "Candle timeframe (1h|15m)")
	scanCmd.MarkFlagRequired("symbol")

	return scanCmd
}
