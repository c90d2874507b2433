// Package downloader fetches snapshot archives in parallel, skipping files
// already present with the advertised size and stopping cooperatively when
// the context is cancelled.
package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/listing"
)

// copyChunk is the unit of transfer between cancellation checks. A stopped
// transfer leaves a .part file behind, never a truncated final file.
const copyChunk = 32 * 1024

type Downloader struct {
	OutputDir string
	Workers   int
	Progress  bool
	http      *http.Client
}

func New(outputDir string, workers int, progress bool) *Downloader {
	if workers <= 0 {
		workers = 4
	}
	return &Downloader{
		OutputDir: outputDir,
		Workers:   workers,
		Progress:  progress,
		// large archives, no global timeout
		http: &http.Client{},
	}
}

// DownloadAll fetches every entry into the output directory. Entries whose
// local file already matches the advertised remote size are skipped, which
// is what makes a re-run after an interrupt resume where it stopped.
func (d *Downloader) DownloadAll(ctx context.Context, entries []listing.Entry) error {
	if err := os.MkdirAll(d.OutputDir, 0o755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Workers)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			return d.downloadOne(ctx, e)
		})
	}
	return g.Wait()
}

func (d *Downloader) downloadOne(ctx context.Context, e listing.Entry) error {
	dst := filepath.Join(d.OutputDir, e.Name)
	if st, err := os.Stat(dst); err == nil {
		if e.Size > 0 && st.Size() == e.Size {
			slog.Info("file already complete, skipping",
				"file", e.Name, "size", humanize.Bytes(uint64(st.Size())))
			return nil
		}
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("remove incomplete %s: %w", dst, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", e.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("download %s (%d): %s", e.Name, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if d.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, e.Name)
		defer bar.Close()
		w = io.MultiWriter(f, bar)
	}
	if err := copyCancelable(ctx, w, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", e.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return err
	}
	slog.Info("downloaded", "file", e.Name)
	return nil
}

// copyCancelable copies src to dst in fixed-size chunks, checking the
// context between chunks so an interrupt stops all transfers promptly.
func copyCancelable(ctx context.Context, dst io.Writer, src io.Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.CopyN(dst, src, copyChunk)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
