package glyph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/verte-zerg/kakitori/internal/svgpath"
)

// Provider supplies raw glyph documents, e.g. from KanjiVG.
type Provider interface {
	GetGlyph(ctx context.Context, char string) (RawGlyph, error)
}

// Store caches assembled Characters and populates them from a Provider on
// miss.
type Store struct {
	// mu also serializes provider fetches so a miss for a key is resolved
	// exactly once.
	mu       sync.Mutex
	provider Provider
	cache    map[string]Character
}

// NewStore returns a Store backed by the given provider.
func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		cache:    map[string]Character{},
	}
}

// Get returns the character's canonical strokes, fetching and assembling
// them on first access. Returns ErrNotFound when the provider has no data
// for the character.
func (s *Store) Get(ctx context.Context, char string) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[char]; ok {
		return c, nil
	}
	raw, err := s.provider.GetGlyph(ctx, char)
	if err != nil {
		return Character{}, fmt.Errorf("fetch glyph %q: %w", char, err)
	}
	if len(raw.Paths) == 0 {
		return Character{}, fmt.Errorf("glyph %q: %w", char, ErrNotFound)
	}
	c := Assemble(char, raw)
	s.cache[char] = c
	return c, nil
}

// Assemble pairs path descriptors with stroke-number labels and derives the
// directional endpoints. When the document carries exactly one label per
// path, labels are sorted by their number and assigned in that order;
// otherwise raw document order becomes the stroke order and labels are left
// unset.
func Assemble(char string, raw RawGlyph) Character {
	strokes := make([]StrokePath, 0, len(raw.Paths))

	var labels []Label
	if len(raw.Labels) == len(raw.Paths) {
		labels = append([]Label(nil), raw.Labels...)
		sort.Slice(labels, func(i, j int) bool { return labels[i].Number < labels[j].Number })
	}

	for i, d := range raw.Paths {
		start, end := svgpath.EndPoints(d)
		stroke := StrokePath{
			Index: i + 1,
			D:     d,
			Start: start,
			End:   end,
		}
		if labels != nil {
			label := labels[i]
			stroke.Index = label.Number
			x, y := label.X, label.Y
			stroke.LabelX = &x
			stroke.LabelY = &y
		}
		strokes = append(strokes, stroke)
	}
	return Character{Literal: char, Strokes: strokes}
}
