package kanjivg

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/kakitori/internal/glyph"
)

const sampleSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:kvg="http://kanjivg.tagaini.net" width="109" height="109" viewBox="0 0 109 109">
<g id="kvg:StrokePaths_05341" style="fill:none;stroke:#000000;">
	<g id="kvg:05341" kvg:element="十">
		<path id="kvg:05341-s1" kvg:type="㇐" d="M15.25,52.25c3.17,0.58 6.36,0.81 9.54,0.69"/>
		<path id="kvg:05341-s2" kvg:type="㇑" d="M53.12,21.25c1.12,1.12 1.77,2.88 1.77,4.88"/>
	</g>
</g>
<g id="kvg:StrokeNumbers_05341" style="font-size:8;fill:#808080">
	<text transform="matrix(1 0 0 1 34.50 55.50)">2</text>
	<text transform="matrix(1 0 0 1 45.50 13.50)">1</text>
</g>
</svg>`

func TestExtractGlyph(t *testing.T) {
	raw, err := ExtractGlyph(sampleSVG, "十")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(raw.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(raw.Paths))
	}
	if raw.Paths[0] != "M15.25,52.25c3.17,0.58 6.36,0.81 9.54,0.69" {
		t.Fatalf("unexpected first path: %q", raw.Paths[0])
	}
	if len(raw.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(raw.Labels))
	}
	// Labels stay in document order here; pairing sorts by number later.
	if raw.Labels[0].Number != 2 || raw.Labels[0].X != 34.5 || raw.Labels[0].Y != 55.5 {
		t.Fatalf("unexpected first label: %+v", raw.Labels[0])
	}
}

func TestExtractGlyphWrongCharacter(t *testing.T) {
	if _, err := ExtractGlyph(sampleSVG, "口"); !errors.Is(err, glyph.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractGlyphSkipsMalformedLabels(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:kvg="http://kanjivg.tagaini.net">
<g kvg:element="口"><path d="M10,10L90,10"/></g>
<g id="kvg:StrokeNumbers_053e3">
	<text transform="rotate(45)">1</text>
	<text transform="matrix(1 0 0 1 5.5 6.5)">not a number</text>
	<text transform="matrix(1 0 0 1 7.5 8.5)">1</text>
</g>
</svg>`
	raw, err := ExtractGlyph(svg, "口")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(raw.Labels) != 1 {
		t.Fatalf("expected 1 usable label, got %d", len(raw.Labels))
	}
	if raw.Labels[0].X != 7.5 {
		t.Fatalf("unexpected label: %+v", raw.Labels[0])
	}
}

func TestCacheRoundTrip(t *testing.T) {
	client := NewClient(t.TempDir())
	raw := glyph.RawGlyph{
		Paths:  []string{"M10,10L90,10"},
		Labels: []glyph.Label{{Number: 1, X: 5, Y: 6}},
	}
	client.writeCache("口", raw)

	cached, ok := client.readCache("口")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if len(cached.Paths) != 1 || cached.Paths[0] != raw.Paths[0] {
		t.Fatalf("unexpected cached paths: %+v", cached.Paths)
	}
	if len(cached.Labels) != 1 || cached.Labels[0].Number != 1 {
		t.Fatalf("unexpected cached labels: %+v", cached.Labels)
	}
}

func TestCacheMissOnEmptyDir(t *testing.T) {
	client := NewClient(t.TempDir())
	if _, ok := client.readCache("口"); ok {
		t.Fatalf("expected cache miss")
	}
}

func TestGetGlyphUsesCache(t *testing.T) {
	client := NewClient(t.TempDir())
	client.writeCache("口", glyph.RawGlyph{Paths: []string{"M10,10L90,10"}})

	// No network round trip happens on a cache hit; an unreachable client
	// would fail otherwise.
	client.httpClient = nil
	raw, err := client.GetGlyph(context.Background(), "口")
	if err != nil {
		t.Fatalf("get glyph: %v", err)
	}
	if len(raw.Paths) != 1 {
		t.Fatalf("unexpected paths: %+v", raw.Paths)
	}
}
