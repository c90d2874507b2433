// Package listing resolves the latest published snapshot of the CNPJ open
// data from the remote directory listing and enumerates the zip archives a
// snapshot page links to.
package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/timeutil"
)

// ErrNoSnapshots is returned when the base listing holds no YYYY-MM links.
var ErrNoSnapshots = errors.New("no dated snapshot directories found in listing")

var (
	reMonthHref = regexp.MustCompile(`href="(\d{4})-(\d{2})/"`)
	reZipHref   = regexp.MustCompile(`(?i)href="([^"]+\.zip)"`)
	reSizeCell  = regexp.MustCompile(`>\s*(\d+(?:\.\d+)?[KMG]?|-)\s*<`)
)

// Entry is one downloadable archive advertised by a snapshot page.
type Entry struct {
	Name string
	URL  string
	Size int64
}

type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// LatestSnapshotURL fetches the base listing page and returns the URL of the
// most recent YYYY-MM subdirectory, selecting by numeric (year, month).
func (c *Client) LatestSnapshotURL(ctx context.Context, baseURL string) (string, error) {
	page, err := c.get(ctx, baseURL)
	if err != nil {
		return "", err
	}
	var latest timeutil.YearMonth
	found := false
	for _, m := range reMonthHref.FindAllStringSubmatch(page, -1) {
		ym, err := timeutil.ParseYearMonth(m[1] + "-" + m[2])
		if err != nil {
			continue
		}
		if !found || ym.After(latest) {
			latest = ym
			found = true
		}
	}
	if !found {
		return "", ErrNoSnapshots
	}
	return joinURL(baseURL, latest.String()+"/")
}

// ZipEntries fetches a snapshot page and returns every linked zip archive
// with its advertised size. The size comes from the listing's human-readable
// size cell and is advisory: an unparseable cell yields 0, never an error.
func (c *Client) ZipEntries(ctx context.Context, snapshotURL string) ([]Entry, error) {
	page, err := c.get(ctx, snapshotURL)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, line := range strings.Split(page, "\n") {
		m := reZipHref.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		href := line[m[2]:m[3]]
		full, err := joinURL(snapshotURL, href)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name: pathBase(href),
			URL:  full,
			Size: ParseSize(sizeCell(line[m[1]:])),
		})
	}
	return entries, nil
}

// ParseSize converts a human-readable listing size such as "22K", "360M" or
// "1.4G" to bytes. A dash, an empty cell or an unrecognized format decodes
// to 0: the value only feeds the skip-if-complete comparison.
func ParseSize(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return 0
	}
	mult := int64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1 << 10
	case 'M':
		mult = 1 << 20
	case 'G':
		mult = 1 << 30
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0
	}
	return int64(f * float64(mult))
}

func (c *Client) get(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch listing %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("fetch listing %s (%d): %s", u, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// sizeCell extracts the size column that follows an archive link on the same
// listing row, e.g. `<td align="right">360M</td>`.
func sizeCell(rest string) string {
	m := reSizeCell.FindStringSubmatch(rest)
	if m == nil {
		return "-"
	}
	return m[1]
}

func joinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

func pathBase(href string) string {
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
