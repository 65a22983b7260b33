// Package session orchestrates a multi-character practice run.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/match"
	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/order"
)

// StatsStore persists longitudinal per-character statistics. Failures are
// non-fatal; the session falls back to in-memory state.
type StatsStore interface {
	Load(ctx context.Context) (map[string]model.StatsRecord, error)
	Save(ctx context.Context, records map[string]model.StatsRecord) error
}

// Progress is the per-character transient state of one practice run.
type Progress struct {
	Completed       order.Completion
	Strokes         [][]model.Point
	ShapeErrors     int
	DirectionErrors int
	Redraws         int
	ActivatedAt     time.Time
}

// Status classifies a stroke submission at the session level.
type Status int

const (
	// Ignored means the input was too short to be a candidate; it is
	// discarded without counting as any kind of error.
	Ignored Status = iota
	// RejectedShape means no candidate stroke's shape matched.
	RejectedShape
	// RejectedDirection means a shape matched but was drawn the wrong way.
	RejectedDirection
	// Accepted means a stroke was completed.
	Accepted
)

// Result reports what one submission did.
type Result struct {
	Status       Status
	MatchedIndex int
	// CharComplete is set on the submission that finishes the character.
	CharComplete bool
	// Advanced is set when auto-advance moved to the next character.
	Advanced bool
}

// Session owns the ordered characters of one practice run and their
// progress. It is driven by a single interaction loop and is not safe for
// concurrent use.
type Session struct {
	cfg       model.Config
	chars     []glyph.Character
	active    int
	progress  map[int]*Progress
	stats     map[string]model.StatsRecord
	store     StatsStore
	validator order.Validator

	now   func() time.Time
	warnf func(format string, args ...any)
}

// New builds a session over the given characters. Stored statistics are
// loaded immediately; a store failure degrades to empty in-memory stats.
func New(ctx context.Context, cfg model.Config, chars []glyph.Character, store StatsStore) *Session {
	s := &Session{
		cfg:       cfg,
		chars:     chars,
		progress:  map[int]*Progress{},
		store:     store,
		validator: match.NewMatcher(),
		now:       time.Now,
		warnf:     logErrf,
	}
	s.stats = map[string]model.StatsRecord{}
	if store != nil {
		loaded, err := store.Load(ctx)
		if err != nil {
			s.warnf("failed to load stats, continuing in memory: %v\n", err)
		} else if loaded != nil {
			s.stats = loaded
		}
	}
	return s
}

// Chars returns the session's characters in practice order.
func (s *Session) Chars() []glyph.Character { return s.chars }

// ActiveIndex returns the position of the active character.
func (s *Session) ActiveIndex() int { return s.active }

// Active returns the character currently being practiced.
func (s *Session) Active() glyph.Character {
	if s.active < 0 || s.active >= len(s.chars) {
		return glyph.Character{}
	}
	return s.chars[s.active]
}

// Progress returns the active character's progress, creating the initial
// empty state on first activation.
func (s *Session) Progress() *Progress {
	p, ok := s.progress[s.active]
	if !ok {
		p = &Progress{
			Completed:   order.NewCompletion(s.cfg.StrictOrder),
			ActivatedAt: s.now(),
		}
		s.progress[s.active] = p
	}
	return p
}

// NextExpected returns the lowest incomplete stroke index of the active
// character.
func (s *Session) NextExpected() int {
	return s.Progress().Completed.NextExpected(len(s.Active().Strokes))
}

// Complete reports whether the active character is fully drawn.
func (s *Session) Complete() bool {
	total := len(s.Active().Strokes)
	return total > 0 && s.Progress().Completed.Count() >= total
}

// Stats returns the accumulated record for a character, zero-valued when
// the character has never been completed.
func (s *Session) Stats(char string) model.StatsRecord {
	return s.stats[char]
}

// Submit validates one freehand stroke against the active character and
// applies the outcome: state transition, retained stroke, error counters,
// and on full completion the statistics rollup.
func (s *Session) Submit(ctx context.Context, points []model.Point) Result {
	result := Result{Status: Ignored, MatchedIndex: -1}
	if len(points) < match.MinStrokePoints {
		return result
	}
	char := s.Active()
	if len(char.Strokes) == 0 {
		return result
	}
	p := s.Progress()

	machine := order.NewMachine(char.Strokes, p.Completed, s.validator, s.cfg)
	outcome := machine.Submit(points)
	p.DirectionErrors += outcome.DirectionErrors

	switch outcome.Outcome {
	case order.Accepted:
		result.Status = Accepted
		result.MatchedIndex = outcome.MatchedIndex
		retained := make([]model.Point, len(points))
		copy(retained, points)
		p.Strokes = append(p.Strokes, retained)
		if outcome.Complete {
			result.CharComplete = true
			s.finishCharacter(ctx, char, p)
			if s.cfg.AutoAdvance && s.active < len(s.chars)-1 {
				s.active++
				result.Advanced = true
			}
		}
	case order.RejectedDirection:
		result.Status = RejectedDirection
	case order.Rejected:
		result.Status = RejectedShape
		p.ShapeErrors++
	}
	return result
}

// finishCharacter rolls the attempt's counters into the persisted record
// and resets them for the next attempt.
func (s *Session) finishCharacter(ctx context.Context, char glyph.Character, p *Progress) {
	now := s.now()
	rec := s.stats[char.Literal]
	rec.TotalAttempts++
	rec.TotalErrors += p.ShapeErrors
	rec.TotalDirectionErrors += p.DirectionErrors
	rec.TotalRedraws += p.Redraws
	rec.TotalTimeMs += now.Sub(p.ActivatedAt).Milliseconds()
	attempt := now
	rec.LastAttempt = &attempt
	if p.ShapeErrors == 0 && p.DirectionErrors == 0 {
		rec.ConsecutiveCorrect++
	} else {
		rec.ConsecutiveCorrect = 0
	}
	s.stats[char.Literal] = rec
	s.persist(ctx)

	p.ShapeErrors = 0
	p.DirectionErrors = 0
	p.Redraws = 0
	p.ActivatedAt = now
}

func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.stats); err != nil {
		s.warnf("failed to save stats, continuing in memory: %v\n", err)
	}
}

// Next moves to the following character, preserving the current one's
// progress. Reports whether the active character changed.
func (s *Session) Next() bool {
	if s.active >= len(s.chars)-1 {
		return false
	}
	s.active++
	return true
}

// Prev moves to the preceding character, preserving progress.
func (s *Session) Prev() bool {
	if s.active <= 0 {
		return false
	}
	s.active--
	return true
}

// Clear wipes the active character's drawing: completion state and retained
// strokes reset, and a redraw is counted if anything had been drawn. Error
// counters and the activation time carry over to the redraw attempt.
func (s *Session) Clear() {
	p := s.Progress()
	if len(p.Strokes) > 0 {
		p.Redraws++
	}
	p.Strokes = nil
	p.Completed = order.NewCompletion(s.cfg.StrictOrder)
}

// Restart wipes every character's progress and returns to the first one.
func (s *Session) Restart() {
	s.progress = map[int]*Progress{}
	s.active = 0
}

// ResetStats zeroes the persisted record for a character.
func (s *Session) ResetStats(ctx context.Context, char string) {
	delete(s.stats, char)
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, map[string]model.StatsRecord{char: {}}); err != nil {
		s.warnf("failed to reset stats: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
