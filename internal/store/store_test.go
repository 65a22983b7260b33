package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/kakitori/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "kakitori.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	last := time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC)
	records := map[string]model.StatsRecord{
		"日": {
			TotalAttempts:        4,
			ConsecutiveCorrect:   2,
			TotalErrors:          3,
			TotalDirectionErrors: 1,
			TotalRedraws:         2,
			TotalTimeMs:          90000,
			LastAttempt:          &last,
		},
		"月": {TotalAttempts: 1},
	}
	if err := st.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	sun := loaded["日"]
	if sun.TotalAttempts != 4 || sun.ConsecutiveCorrect != 2 || sun.TotalErrors != 3 {
		t.Fatalf("unexpected record: %+v", sun)
	}
	if sun.LastAttempt == nil || !sun.LastAttempt.Equal(last) {
		t.Fatalf("unexpected last attempt: %v", sun.LastAttempt)
	}
	moon := loaded["月"]
	if moon.LastAttempt != nil {
		t.Fatalf("expected nil last attempt, got %v", moon.LastAttempt)
	}
}

func TestSaveUpserts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, map[string]model.StatsRecord{"日": {TotalAttempts: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, map[string]model.StatsRecord{"日": {TotalAttempts: 2, ConsecutiveCorrect: 1}}); err != nil {
		t.Fatalf("save again: %v", err)
	}
	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded["日"].TotalAttempts != 2 || loaded["日"].ConsecutiveCorrect != 1 {
		t.Fatalf("expected updated record, got %+v", loaded["日"])
	}
}

func TestReset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, map[string]model.StatsRecord{"日": {TotalAttempts: 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Reset(ctx, "日"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	loaded, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := loaded["日"]; ok {
		t.Fatalf("expected record removed after reset")
	}
}
