// Package kanjivg fetches canonical stroke data from KanjiVG documents.
//
// Glyphs are located through the jisho.org kanji page, which links the
// KanjiVG SVG for each character. Parsed documents are cached on disk per
// character so a glyph is fetched at most once.
package kanjivg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/verte-zerg/kakitori/internal/glyph"
)

const jishoEndpoint = "https://jisho.org/search/"

// maxBodySize bounds how much of a fetched document is read.
const maxBodySize = 4 << 20

var svgURLPattern = regexp.MustCompile(`d1w6u4xc3l95km\.cloudfront\.net/kanji-2015-03/[^"'\s]*\.svg`)

// Client resolves characters to raw glyph documents.
type Client struct {
	cacheDir   string
	httpClient *http.Client
}

// NewClient returns a provider caching parsed glyphs under cacheDir.
func NewClient(cacheDir string) *Client {
	return &Client{
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GetGlyph returns the stroke paths and labels for a character, consulting
// the disk cache first. Returns glyph.ErrNotFound when no KanjiVG document
// exists for the character.
func (c *Client) GetGlyph(ctx context.Context, char string) (glyph.RawGlyph, error) {
	if cached, ok := c.readCache(char); ok {
		return cached, nil
	}

	svgText, err := c.fetchSVG(ctx, char)
	if err != nil {
		return glyph.RawGlyph{}, err
	}
	raw, err := ExtractGlyph(svgText, char)
	if err != nil {
		return glyph.RawGlyph{}, err
	}
	c.writeCache(char, raw)
	return raw, nil
}

// fetchSVG locates and downloads the KanjiVG document for a character.
func (c *Client) fetchSVG(ctx context.Context, char string) (string, error) {
	query := url.QueryEscape(char + " #kanji")
	page, err := c.get(ctx, jishoEndpoint+query)
	if err != nil {
		return "", fmt.Errorf("fetch kanji page: %w", err)
	}

	svgURL := svgURLPattern.FindString(page)
	if svgURL == "" {
		return "", fmt.Errorf("no stroke diagram for %q: %w", char, glyph.ErrNotFound)
	}

	svgText, err := c.get(ctx, "https://"+svgURL)
	if err != nil {
		return "", fmt.Errorf("fetch stroke diagram: %w", err)
	}
	return svgText, nil
}

func (c *Client) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return "", glyph.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) cachePath(char string) string {
	name := ""
	for _, r := range char {
		name = fmt.Sprintf("%05x", r)
		break
	}
	return filepath.Join(c.cacheDir, name+".json")
}

func (c *Client) readCache(char string) (glyph.RawGlyph, bool) {
	if c.cacheDir == "" {
		return glyph.RawGlyph{}, false
	}
	data, err := os.ReadFile(c.cachePath(char))
	if err != nil {
		return glyph.RawGlyph{}, false
	}
	var raw glyph.RawGlyph
	if err := json.Unmarshal(data, &raw); err != nil {
		return glyph.RawGlyph{}, false
	}
	return raw, true
}

// writeCache is best-effort: a failed write only costs a refetch.
func (c *Client) writeCache(char string, raw glyph.RawGlyph) {
	if c.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.cachePath(char), data, 0o644)
}

// Evict removes a character's cached glyph so the next fetch goes remote.
func Evict(cacheDir, char string) error {
	if cacheDir == "" {
		return nil
	}
	c := &Client{cacheDir: cacheDir}
	if err := os.Remove(c.cachePath(char)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Prefetch warms the cache for each character, skipping ones already
// cached. Returns the characters that could not be resolved.
func (c *Client) Prefetch(ctx context.Context, chars []string) ([]string, error) {
	var missing []string
	for _, char := range chars {
		if _, err := c.GetGlyph(ctx, char); err != nil {
			if errors.Is(err, glyph.ErrNotFound) {
				missing = append(missing, char)
				continue
			}
			return missing, err
		}
	}
	return missing, nil
}
