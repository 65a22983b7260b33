// Package glyph holds canonical stroke data and its provider-backed cache.
package glyph

import (
	"errors"

	"github.com/verte-zerg/kakitori/internal/model"
)

// ErrNotFound reports that no stroke data exists for a character.
var ErrNotFound = errors.New("glyph: character not found")

// StrokePath is one canonical stroke of a character. Immutable once
// constructed.
type StrokePath struct {
	// Index is the 1-based stroke-order position within the character.
	Index int
	// D is the opaque path descriptor, interpreted only by the rasterizer
	// and the endpoint parser.
	D string
	// Label coordinates for the stroke-order number, display only.
	LabelX *float64
	LabelY *float64
	// Directional endpoints derived from D, used for direction checks.
	Start *model.Point
	End   *model.Point
}

// Character is a glyph identifier plus its ordered strokes. Stroke indices
// are contiguous 1..N.
type Character struct {
	Literal string
	Strokes []StrokePath
}

// Label is a stroke-order number with its display position, as found in the
// source document.
type Label struct {
	Number int
	X      float64
	Y      float64
}

// RawGlyph is the provider's view of a glyph document: path descriptors in
// document order plus whatever stroke-number labels the document carries.
type RawGlyph struct {
	Paths  []string
	Labels []Label
}
