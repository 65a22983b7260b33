package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/model"
)

// stubValidator accepts a submission whose first point's X encodes the
// 0-based index of the canonical stroke it imitates; a first point with
// Y=1 marks a wrong-direction stroke.
type stubValidator struct{}

func (stubValidator) ShapeAcceptable(points []model.Point, stroke glyph.StrokePath, _ model.Config) bool {
	return len(points) > 0 && int(points[0].X) == stroke.Index-1
}

func (stubValidator) DirectionAcceptable(points []model.Point, _ glyph.StrokePath, _ model.Config) bool {
	return len(points) == 0 || points[0].Y != 1
}

func testChar(literal string, strokes int) glyph.Character {
	c := glyph.Character{Literal: literal}
	for i := 0; i < strokes; i++ {
		c.Strokes = append(c.Strokes, glyph.StrokePath{Index: i + 1, D: fmt.Sprintf("M%d,0L%d,10", i, i)})
	}
	return c
}

// submission fabricates a 5-point freehand stroke imitating canonical
// stroke idx.
func submission(idx int) []model.Point {
	points := make([]model.Point, 5)
	for i := range points {
		points[i] = model.Point{X: float64(idx)}
	}
	return points
}

func wrongDirection(idx int) []model.Point {
	points := submission(idx)
	points[0].Y = 1
	return points
}

type memStore struct {
	records  map[string]model.StatsRecord
	saves    int
	loadErr  error
	saveErr  error
	lastSave map[string]model.StatsRecord
}

func (m *memStore) Load(context.Context) (map[string]model.StatsRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.records, nil
}

func (m *memStore) Save(_ context.Context, records map[string]model.StatsRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.lastSave = records
	return nil
}

func newTestSession(cfg model.Config, store StatsStore, chars ...glyph.Character) *Session {
	s := New(context.Background(), cfg, chars, store)
	s.validator = stubValidator{}
	s.warnf = func(string, ...any) {}
	return s
}

func TestSubmitTooShortIgnored(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 2))
	result := s.Submit(context.Background(), submission(0)[:4])
	if result.Status != Ignored {
		t.Fatalf("expected Ignored, got %v", result.Status)
	}
	p := s.Progress()
	if p.ShapeErrors != 0 || p.DirectionErrors != 0 || len(p.Strokes) != 0 {
		t.Fatalf("short input must not touch progress: %+v", p)
	}
}

func TestSubmitAcceptAdvances(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 3))
	result := s.Submit(context.Background(), submission(0))
	if result.Status != Accepted || result.MatchedIndex != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if s.NextExpected() != 1 {
		t.Fatalf("expected index 1 after acceptance, got %d", s.NextExpected())
	}
	if len(s.Progress().Strokes) != 1 {
		t.Fatalf("accepted stroke must be retained")
	}
}

func TestSubmitShapeRejection(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 2))
	result := s.Submit(context.Background(), submission(1))
	if result.Status != RejectedShape {
		t.Fatalf("expected shape rejection, got %v", result.Status)
	}
	p := s.Progress()
	if p.ShapeErrors != 1 {
		t.Fatalf("expected 1 shape error, got %d", p.ShapeErrors)
	}
	if len(p.Strokes) != 0 {
		t.Fatalf("rejected stroke must be discarded")
	}
}

func TestSubmitDirectionRejection(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 2))
	result := s.Submit(context.Background(), wrongDirection(0))
	if result.Status != RejectedDirection {
		t.Fatalf("expected direction rejection, got %v", result.Status)
	}
	p := s.Progress()
	if p.DirectionErrors != 1 {
		t.Fatalf("expected 1 direction error, got %d", p.DirectionErrors)
	}
	if p.ShapeErrors != 0 {
		t.Fatalf("direction failure must not count as a shape error")
	}
	if s.NextExpected() != 0 {
		t.Fatalf("direction failure must not advance")
	}
}

func TestNavigationPreservesProgress(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 3), testChar("月", 2))
	s.Submit(context.Background(), submission(0))
	s.Submit(context.Background(), submission(2)) // shape error

	before := s.Progress()
	beforeCount := before.Completed.Count()

	if !s.Next() {
		t.Fatalf("expected to move to second character")
	}
	s.Submit(context.Background(), submission(0))
	if !s.Prev() {
		t.Fatalf("expected to move back")
	}

	after := s.Progress()
	if after != before {
		t.Fatalf("navigation must hand back the same progress")
	}
	if after.Completed.Count() != beforeCount || after.ShapeErrors != 1 || len(after.Strokes) != 1 {
		t.Fatalf("progress changed across navigation: %+v", after)
	}
	if s.NextExpected() != 1 {
		t.Fatalf("expected index preserved, got %d", s.NextExpected())
	}
}

func TestClearResetsActiveOnly(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 2), testChar("月", 2))
	s.Submit(context.Background(), submission(0))
	s.Next()
	s.Submit(context.Background(), submission(0))
	s.Prev()

	s.Clear()
	p := s.Progress()
	if p.Completed.Count() != 0 || len(p.Strokes) != 0 {
		t.Fatalf("clear must reset completion and strokes: %+v", p)
	}
	if p.Redraws != 1 {
		t.Fatalf("clearing a drawn character counts a redraw, got %d", p.Redraws)
	}
	s.Clear()
	if s.Progress().Redraws != 1 {
		t.Fatalf("clearing an empty canvas must not count a redraw")
	}

	s.Next()
	if s.Progress().Completed.Count() != 1 {
		t.Fatalf("clear must not touch other characters")
	}
}

func TestRestartResetsEverything(t *testing.T) {
	s := newTestSession(model.DefaultConfig(), nil, testChar("日", 2), testChar("月", 2))
	s.Submit(context.Background(), submission(0))
	s.Next()
	s.Submit(context.Background(), submission(0))

	s.Restart()
	if s.ActiveIndex() != 0 {
		t.Fatalf("restart must return to the first character")
	}
	if s.Progress().Completed.Count() != 0 {
		t.Fatalf("restart must reset progress")
	}
	s.Next()
	if s.Progress().Completed.Count() != 0 {
		t.Fatalf("restart must reset every character")
	}
}

func TestCompletionRollsUpStats(t *testing.T) {
	store := &memStore{}
	s := newTestSession(model.DefaultConfig(), store, testChar("日", 2))
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	s.Submit(context.Background(), submission(0))
	s.now = func() time.Time { return start.Add(30 * time.Second) }
	result := s.Submit(context.Background(), submission(1))
	if !result.CharComplete {
		t.Fatalf("expected completion on final stroke")
	}

	rec := s.Stats("日")
	if rec.TotalAttempts != 1 || rec.ConsecutiveCorrect != 1 {
		t.Fatalf("clean attempt: %+v", rec)
	}
	if rec.TotalTimeMs != 30000 {
		t.Fatalf("expected 30000ms elapsed, got %d", rec.TotalTimeMs)
	}
	if rec.LastAttempt == nil || !rec.LastAttempt.Equal(start.Add(30*time.Second)) {
		t.Fatalf("unexpected last attempt: %v", rec.LastAttempt)
	}
	if store.saves != 1 {
		t.Fatalf("expected 1 save, got %d", store.saves)
	}

	// Second attempt with an error resets the streak.
	s.Clear()
	s.Submit(context.Background(), submission(1)) // shape error
	s.Submit(context.Background(), submission(0))
	result = s.Submit(context.Background(), submission(1))
	if !result.CharComplete {
		t.Fatalf("expected second completion")
	}
	rec = s.Stats("日")
	if rec.TotalAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", rec.TotalAttempts)
	}
	if rec.ConsecutiveCorrect != 0 {
		t.Fatalf("an attempt with errors must reset the streak, got %d", rec.ConsecutiveCorrect)
	}
	if rec.TotalErrors != 1 {
		t.Fatalf("expected 1 total error, got %d", rec.TotalErrors)
	}
	if rec.TotalRedraws != 1 {
		t.Fatalf("expected 1 redraw, got %d", rec.TotalRedraws)
	}
}

func TestStoreFailuresAreNonFatal(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt"), saveErr: errors.New("disk full")}
	var warnings int
	s := New(context.Background(), model.DefaultConfig(), []glyph.Character{testChar("日", 1)}, store)
	s.validator = stubValidator{}
	s.warnf = func(string, ...any) { warnings++ }

	result := s.Submit(context.Background(), submission(0))
	if !result.CharComplete {
		t.Fatalf("expected completion despite store failure")
	}
	if s.Stats("日").TotalAttempts != 1 {
		t.Fatalf("in-memory stats must survive store failure")
	}
	if warnings == 0 {
		t.Fatalf("expected store failures to be surfaced as warnings")
	}
}

func TestAutoAdvance(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.AutoAdvance = true
	s := newTestSession(cfg, nil, testChar("日", 1), testChar("月", 1))

	result := s.Submit(context.Background(), submission(0))
	if !result.CharComplete || !result.Advanced {
		t.Fatalf("expected completion and auto-advance: %+v", result)
	}
	if s.Active().Literal != "月" {
		t.Fatalf("expected second character active, got %q", s.Active().Literal)
	}
}
