package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/newthinker/pricedash/internal/backend"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/logger"
)

var baselineOutput string

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Compare the agent with the baseline as reported by the backend",
	RunE:  runBaseline,
}

func init() {
	baselineCmd.Flags().StringVarP(&baselineOutput, "output", "o", formatJSON, "output format: json, yaml or svg")
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout)
	defer cancel()

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.WithLogger(log))
	bc, err := client.BaselineComparison(ctx)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), baselineOutput, baselineLayout(bc))
}

// baselineLayout charts the backend's comparison. The improvement annotation
// is recomputed from the reward histories.
func baselineLayout(bc core.BaselineComparison) layout.Layout {
	return layout.Cumulative(core.RewardComparison{
		AgentRewards:    bc.AgentRewards,
		BaselineRewards: bc.BaselineRewards,
	})
}
