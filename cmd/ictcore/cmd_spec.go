package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/ictcore/internal/config"
	"github.com/sawpanic/ictcore/internal/score/confluence"
)

func newSpecCmd() *cobra.Command {
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Configuration inspection, no pipeline execution",
	}

	var configPath string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a YAML config and report every ConfigError found, without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := confluence.Validate(cfg.ToScorerConfig()); err != nil {
				fmt.Println(err.Error())
				return err
			}
			fmt.Println("config valid")
			return nil
		},
	}
	validateCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to YAML config")
	specCmd.AddCommand(validateCmd)

	return specCmd
}
