package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/build"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/email"
)

func newBuildCmd(cfg config.Config) *cobra.Command {
	var (
		inputDir   string
		outputDir  string
		dbName     string
		keepFiles  bool
		expected   int
		noStrict   bool
		noProgress bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the SQLite database from downloaded archives",
		Long: `Unpacks the downloaded zip archives into the output directory and
loads them into a single SQLite database: code tables, the four entity tables
streamed without loading any file in memory, derived columns, indexes and the
headquarters-only socios table. Refuses to touch an existing database file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := &build.Builder{
				InputDir:           inputDir,
				OutputDir:          outputDir,
				DBName:             dbName,
				DeleteSourceFiles:  !keepFiles,
				ExpectedArchives:   expected,
				StrictArchiveCount: !noStrict,
				Progress:           !noProgress,
			}
			start := time.Now()
			if err := b.Run(cmd.Context()); err != nil {
				return err
			}
			notifyDone(cfg, b.DBPath(), time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", cfg.InputDir, "directory holding the zip archives")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", cfg.OutputDir, "directory for raw files and the database")
	cmd.Flags().StringVar(&dbName, "db-name", cfg.DBName, "database filename")
	cmd.Flags().BoolVar(&keepFiles, "keep-files", cfg.KeepSourceFiles, "keep raw files after ingestion instead of reclaiming disk")
	cmd.Flags().IntVar(&expected, "expected-archives", cfg.ExpectedArchives, "archive count of a complete snapshot (0 disables the check)")
	cmd.Flags().BoolVar(&noStrict, "no-strict", !cfg.StrictArchiveCount, "proceed on archive count mismatch instead of failing")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable bulk load progress output")
	return cmd
}

func notifyDone(cfg config.Config, dbPath string, took time.Duration) {
	smtp := email.SMTPConfig{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		User: cfg.SMTPUser, Pass: cfg.SMTPPass, To: cfg.MailTo,
	}
	if !email.Enabled(smtp) {
		return
	}
	body := fmt.Sprintf("Database created at %s\nDuration: %s\n", dbPath, took)
	if err := email.Send(smtp, "cnpjdb build finished", body); err != nil {
		slog.Warn("could not send completion mail", "error", err)
	}
}
