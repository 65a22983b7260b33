package order

import (
	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/model"
)

// Validator judges a freehand stroke against one canonical stroke.
type Validator interface {
	ShapeAcceptable(points []model.Point, stroke glyph.StrokePath, cfg model.Config) bool
	DirectionAcceptable(points []model.Point, stroke glyph.StrokePath, cfg model.Config) bool
}

// Outcome classifies one stroke submission.
type Outcome int

const (
	// Rejected means no candidate stroke's shape matched.
	Rejected Outcome = iota
	// RejectedDirection means a shape matched but was drawn the wrong way.
	RejectedDirection
	// Accepted means a candidate stroke was completed.
	Accepted
)

// Result is the outcome of one submission.
type Result struct {
	Outcome Outcome
	// MatchedIndex is the completed stroke's 0-based position, -1 unless
	// Accepted.
	MatchedIndex int
	// DirectionErrors counts candidates whose shape matched but whose
	// direction did not; under the unordered policy one submission can
	// brush several candidates.
	DirectionErrors int
	// Complete reports whether the whole character is now done.
	Complete bool
}

// Machine applies submissions to a character's completion state.
type Machine struct {
	strokes   []glyph.StrokePath
	completed Completion
	validator Validator
	cfg       model.Config
}

// NewMachine returns a state machine over the character's strokes, starting
// from the given completion state. The policy is fixed by cfg.StrictOrder
// and must match the completion state's representation.
func NewMachine(strokes []glyph.StrokePath, completed Completion, validator Validator, cfg model.Config) *Machine {
	return &Machine{
		strokes:   strokes,
		completed: completed,
		validator: validator,
		cfg:       cfg,
	}
}

// Completed exposes the current completion state.
func (m *Machine) Completed() Completion { return m.completed }

// NextExpected returns the lowest incomplete stroke index, or the stroke
// count when the character is done.
func (m *Machine) NextExpected() int {
	return m.completed.NextExpected(len(m.strokes))
}

// Complete reports whether every stroke is done.
func (m *Machine) Complete() bool {
	return len(m.strokes) > 0 && m.completed.Count() >= len(m.strokes)
}

// Submit tests a freehand stroke against the candidate canonical strokes.
// Under the strict policy the only candidate is the next expected stroke;
// under the unordered policy incomplete strokes are scanned in ascending
// index order and the first shape match wins.
func (m *Machine) Submit(points []model.Point) Result {
	result := Result{MatchedIndex: -1}
	if m.cfg.StrictOrder {
		idx := m.completed.Count()
		if idx >= len(m.strokes) {
			return result
		}
		candidate := m.strokes[idx]
		if !m.validator.ShapeAcceptable(points, candidate, m.cfg) {
			return result
		}
		if !m.validator.DirectionAcceptable(points, candidate, m.cfg) {
			result.Outcome = RejectedDirection
			result.DirectionErrors = 1
			return result
		}
		m.completed.Mark(idx)
		result.Outcome = Accepted
		result.MatchedIndex = idx
		result.Complete = m.Complete()
		return result
	}

	for idx := range m.strokes {
		if m.completed.IsComplete(idx) {
			continue
		}
		if !m.validator.ShapeAcceptable(points, m.strokes[idx], m.cfg) {
			continue
		}
		if !m.validator.DirectionAcceptable(points, m.strokes[idx], m.cfg) {
			result.Outcome = RejectedDirection
			result.DirectionErrors++
			continue
		}
		m.completed.Mark(idx)
		result.Outcome = Accepted
		result.MatchedIndex = idx
		result.Complete = m.Complete()
		return result
	}
	return result
}
