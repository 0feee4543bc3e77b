package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
scorer:
  weights:
    structure_alignment: 0.2
    kill_zone_active: 0.1
    liquidity_sweep: 0.1
    ob_proximity: 0.1
    fvg_at_ce: 0.1
    recent_bos: 0.1
    rr_ratio: 0.1
    ote_zone: 0.1
    ob_fvg_confluence: 0.05
    momentum_confirmation: 0.03
    ob_volume_quality: 0.02
  min_threshold: 0.6
  active_strategies: ["order_block", "fvg"]
  cooldown_bars: 5
  atr_extension_bands: 2.0
simulator:
  exit_mode: breakeven
  max_bars: 200
  breakeven_trigger_r: 1.0
  breakeven_buffer: 0.001
friction:
  commission_percent: 0.0004
  slippage_percent: 0.0002
walk_forward:
  train_window_bars: 500
  val_window_bars: 200
  slide_step_bars: 200
  lookback_buffer: 50
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_ParsesAndConverts(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scorer := cfg.ToScorerConfig()
	if scorer.MinThreshold != 0.6 {
		t.Fatalf("expected min threshold 0.6, got %v", scorer.MinThreshold)
	}
	if len(scorer.ActiveStrategies) != 2 {
		t.Fatalf("expected 2 active strategies, got %d", len(scorer.ActiveStrategies))
	}
	if scorer.CooldownBars != 5 {
		t.Fatalf("expected cooldown bars 5, got %d", scorer.CooldownBars)
	}

	exit := cfg.ToExitConfig()
	if exit.MaxBars != 200 {
		t.Fatalf("expected max bars 200, got %d", exit.MaxBars)
	}

	window := cfg.ToWindowConfig()
	if window.TrainWindowBars != 500 || window.ValWindowBars != 200 {
		t.Fatalf("unexpected window config: %+v", window)
	}
}

func TestLoad_UnknownFieldIsConfigError(t *testing.T) {
	path := writeTemp(t, sampleYAML+"\nbogus_top_level_field: true\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for an unknown top-level field")
	}
}
