package main

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/build"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/config"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/extract"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/listing"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd(config.Config{})
	want := map[string]bool{"urls": false, "download": false, "build": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("subcommand %s not registered", name)
		}
	}
}

func TestIsInputError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("wrap: %w", build.ErrDatabaseExists), true},
		{listing.ErrNoSnapshots, true},
		{fmt.Errorf("expand: %w", &extract.ArchiveCountError{Got: 3, Expected: 37}), true},
		{errors.New("disk full"), false},
	}
	for _, c := range cases {
		if got := isInputError(c.err); got != c.want {
			t.Fatalf("isInputError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
