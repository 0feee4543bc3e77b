package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/ictcore/internal/artifacts"
	"github.com/sawpanic/ictcore/internal/backtest/walkforward"
	"github.com/sawpanic/ictcore/internal/config"
	"github.com/sawpanic/ictcore/internal/io/feed"
	ictlog "github.com/sawpanic/ictcore/internal/log"
	"github.com/sawpanic/ictcore/internal/telemetry"
)

func newBacktestCmd() *cobra.Command {
	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run the walk-forward evaluator",
	}

	var (
		configPath string
		dataDir    string
		symbols    string
		timeframe  string
		outDir     string
	)

	wfCmd := &cobra.Command{
		Use:   "walkforward",
		Short: "Roll train/validate windows over each symbol's candle series and report the pass/fail verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			runCfg := cfg.ToRunConfig()

			metrics := telemetry.NewMetricsRegistry(prometheus.NewRegistry())
			loader := feed.NewLoader(dataDir, 2.0, 5)

			var inputs []walkforward.SymbolInput
			for _, symbol := range strings.Split(symbols, ",") {
				symbol = strings.TrimSpace(symbol)
				if symbol == "" {
					continue
				}
				candles, err := loader.LoadCandles(symbol, timeframe)
				if err != nil {
					log.Error().Err(err).Str("symbol", symbol).Msg("failed to load candles")
					continue
				}
				futures, err := loader.LoadFutures(symbol)
				if err != nil {
					log.Warn().Err(err).Str("symbol", symbol).Msg("failed to load futures snapshot, continuing without it")
				}
				inputs = append(inputs, walkforward.SymbolInput{Symbol: symbol, Candles: candles, Futures: futures})
			}

			progress := ictlog.NewProgressIndicator("walk-forward", len(inputs), ictlog.DefaultProgressConfig())

			metrics.ActiveRun.Set(1)
			result := walkforward.RunWalkForward(inputs, runCfg)
			metrics.ActiveRun.Set(0)

			result.RunID = uuid.New()
			for i, sym := range result.Symbols {
				progress.UpdateWithMessage(i+1, sym.Symbol)
				metrics.RecordSymbolVerdict(sym.Passed)
				for _, w := range sym.Windows {
					metrics.RecordWindow(sym.Symbol, string(w.Status), 0)
					for _, t := range w.Trades {
						metrics.RecordTrade(sym.Symbol, string(t.Strategy), string(t.ExitReason))
					}
				}
			}
			progress.FinishWithMessage(fmt.Sprintf("%d symbols evaluated", len(result.Symbols)))

			store, err := artifacts.NewFileStore(outDir)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal walk-forward result: %w", err)
			}
			name := fmt.Sprintf("%s.json", result.RunID)
			if err := store.Save(name, data); err != nil {
				return err
			}

			fmt.Printf("run %s: overall_pass=%v pass_rate=%.3f\n", result.RunID, result.OverallPass, result.PassRate)
			for _, sym := range result.Symbols {
				fmt.Printf("  %-12s passed=%-5v eligible=%d positive=%d skipped=%d\n",
					sym.Symbol, sym.Passed, sym.EligibleWindows, sym.PositiveWindows, sym.SkippedZeroTradeWindows)
			}
			if !result.OverallPass {
				os.Exit(1)
			}
			return nil
		},
	}
	wfCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to YAML config")
	wfCmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory of {symbol}_{timeframe}.json candle files")
	wfCmd.Flags().StringVar(&symbols, "symbols", "", "Comma-separated list of symbols to evaluate")
	wfCmd.Flags().StringVar(&timeframe, "timeframe", "1h", "Candle timeframe (1h|15m)")
	wfCmd.Flags().StringVar(&outDir, "out-dir", "experiments", "Directory to write the WalkForwardResult artifact under")

	backtestCmd.AddCommand(wfCmd)
	return backtestCmd
}
