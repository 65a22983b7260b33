package session

import (
	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/order"
)

// View is the renderer-facing display state for one character: which
// canonical strokes and stroke-number labels to reveal. It never affects
// validation.
type View struct {
	mode       int
	isDue      bool
	hintActive bool
	completed  order.Completion
	current    int
	total      int
}

// NewView captures the visibility inputs for the active character. Cards
// that are not due reveal everything, like a learning card.
func NewView(mode int, isDue, hintActive bool, completed order.Completion, current, total int) View {
	return View{
		mode:       mode,
		isDue:      isDue,
		hintActive: hintActive,
		completed:  completed,
		current:    current,
		total:      total,
	}
}

// StrokeVisible reports whether the canonical stroke at idx should be drawn.
func (v View) StrokeVisible(idx int) bool {
	if !v.isDue {
		return true
	}
	switch v.mode {
	case model.DueModeMinimal:
		return v.minimalVisible(idx)
	case model.DueModeFull:
		return true
	case model.DueModeProcedural:
		return v.completed.IsComplete(idx) || idx == v.current
	}
	return true
}

// LabelVisible reports whether the stroke-number label at idx should be
// drawn. Procedural mode never shows numbers.
func (v View) LabelVisible(idx int) bool {
	if !v.isDue {
		return true
	}
	switch v.mode {
	case model.DueModeMinimal:
		return v.minimalVisible(idx)
	case model.DueModeFull:
		return true
	case model.DueModeProcedural:
		return false
	}
	return true
}

// minimalVisible shows completed strokes, the first stroke before anything
// is completed, and the current stroke only while a hint is active.
func (v View) minimalVisible(idx int) bool {
	if v.completed.IsComplete(idx) {
		return true
	}
	if idx == 0 && v.completed.Count() == 0 {
		return true
	}
	return idx == v.current && v.hintActive
}
