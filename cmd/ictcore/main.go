package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	ictlog "github.com/sawpanic/ictcore/internal/log"
)

const (
	appName = "ictcore"
	version = "v0.1.0"
)

func main() {
	ictlog.Init(!term.IsTerminal(int(os.Stderr.Fd())))

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "ICT rule-based trading research platform — core pipeline",
		Version: version,
		Long: `ictcore turns a contiguous series of OHLCV bars into a
reproducible trade log and walk-forward verdict: market-structure
detection, a confluence scorer, a friction-aware position simulator,
and a walk-forward evaluator with PBO/DSR statistics.

This CLI is the host: the deterministic core it drives imposes no
CLI contract of its own (scan/backtest/spec are automation shims).`,
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		ictlog.SetLevel(level)
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newBacktestCmd())
	rootCmd.AddCommand(newSpecCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ictcore exited with error")
		os.Exit(1)
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
