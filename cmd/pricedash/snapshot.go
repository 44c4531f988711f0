package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newthinker/pricedash/internal/backend"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/logger"
)

var (
	snapshotArchived bool
	snapshotChart    string
	snapshotOutput   string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the backend once and print the composed dashboard",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotArchived, "archived", false, "print the latest archived snapshot instead of fetching")
	snapshotCmd.Flags().StringVar(&snapshotChart, "chart", "", "print only this chart")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", formatJSON, "output format: json, yaml or svg (with --chart)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Backend.Timeout)
	defer cancel()

	var snap *dashboard.Snapshot
	if snapshotArchived {
		if !cfg.Archive.Enabled {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("archive is not enabled"))
		}
		snapshots, err := openArchive(cfg.Archive, log)
		if err != nil {
			return err
		}
		if snap, err = snapshots.Latest(ctx); err != nil {
			return err
		}
	} else {
		client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.WithLogger(log))
		if snap, err = dashboard.New(client, dashboard.WithLogger(log)).Refresh(ctx); err != nil {
			return err
		}
	}

	if snapshotChart == "" {
		return writeOutput(cmd.OutOrStdout(), snapshotOutput, snap)
	}
	l, ok := snap.Chart(snapshotChart)
	if !ok {
		return core.WrapError(core.ErrUnknownChart, fmt.Errorf("chart %q", snapshotChart))
	}
	return writeOutput(cmd.OutOrStdout(), snapshotOutput, l)
}
