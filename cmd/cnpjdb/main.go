package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/build"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/extract"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/listing"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		if isInputError(err) {
			fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isInputError separates operator-fixable precondition violations from
// everything else. Both terminate; only the message framing differs.
func isInputError(err error) bool {
	var cntErr *extract.ArchiveCountError
	return errors.Is(err, build.ErrDatabaseExists) ||
		errors.Is(err, listing.ErrNoSnapshots) ||
		errors.As(err, &cntErr)
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
