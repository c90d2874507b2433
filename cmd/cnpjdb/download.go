package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/downloader"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/listing"
)

func newDownloadCmd(cfg config.Config) *cobra.Command {
	var (
		baseURL     string
		snapshotURL string
		inputDir    string
		workers     int
		noProgress  bool
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the latest snapshot's zip archives",
		Long: `Resolves the most recent dated snapshot directory on the open-data
listing (or takes --snapshot-url verbatim) and downloads every linked zip
archive in parallel. Files already present with the advertised size are
skipped, so an interrupted session resumes by re-running.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			entries, err := resolveEntries(ctx, baseURL, snapshotURL)
			if err != nil {
				return err
			}
			slog.Info("archives found", "count", len(entries))
			d := downloader.New(inputDir, workers, !noProgress)
			if err := d.DownloadAll(ctx, entries); err != nil {
				return fmt.Errorf("downloading archives: %w", err)
			}
			slog.Info("download finished", "dir", inputDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", cfg.BaseURL, "open-data listing base URL")
	cmd.Flags().StringVar(&snapshotURL, "snapshot-url", "", "snapshot directory URL (skips latest-month resolution)")
	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", cfg.InputDir, "directory receiving the zip archives")
	cmd.Flags().IntVarP(&workers, "workers", "w", cfg.DownloadWorkers, "parallel download workers")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable per-file progress bars")
	return cmd
}

func resolveEntries(ctx context.Context, baseURL, snapshotURL string) ([]listing.Entry, error) {
	client := listing.NewClient()
	if snapshotURL == "" {
		u, err := client.LatestSnapshotURL(ctx, baseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("latest snapshot resolved", "url", u)
		snapshotURL = u
	}
	return client.ZipEntries(ctx, snapshotURL)
}
