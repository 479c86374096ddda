package service

import (
	"testing"
	"time"

	"mentorhub_backend/internal/repository"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newLedger() *ProgressService {
	return NewProgressService(repository.NewMemoryProgressStore())
}

func TestUpsertCreatesAndAdvances(t *testing.T) {
	ledger := newLedger()

	record, err := ledger.Upsert("v1", "l1", 25, t0)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if record.Percentage != 25 || record.Completed {
		t.Fatalf("unexpected record: %+v", record)
	}

	record, err = ledger.Upsert("v1", "l1", 40, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if record.Percentage != 40 {
		t.Fatalf("expected 40%%, got %v", record.Percentage)
	}
	if !record.LastWatchedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("timestamp not advanced: %v", record.LastWatchedAt)
	}
}

func TestUpsertDropsStaleWrites(t *testing.T) {
	ledger := newLedger()

	if _, err := ledger.Upsert("v1", "l1", 50, t0); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Sample stamped a minute earlier: dropped, no error.
	record, err := ledger.Upsert("v1", "l1", 10, t0.Add(-time.Minute))
	if err != nil {
		t.Fatalf("stale upsert should not error: %v", err)
	}
	if record.Percentage != 50 {
		t.Fatalf("stale write applied: got %v", record.Percentage)
	}
	if !record.LastWatchedAt.Equal(t0) {
		t.Fatalf("stale write moved timestamp: %v", record.LastWatchedAt)
	}
}

func TestUpsertAcceptsUnknownLesson(t *testing.T) {
	ledger := newLedger()

	record, err := ledger.Upsert("v1", "no-such-lesson", 12, t0)
	if err != nil {
		t.Fatalf("unknown lesson should be accepted: %v", err)
	}
	if record.LessonID != "no-such-lesson" {
		t.Fatalf("unexpected lesson id %q", record.LessonID)
	}
}

func TestUpsertClampsPercentage(t *testing.T) {
	ledger := newLedger()

	record, _ := ledger.Upsert("v1", "l1", 140, t0)
	if record.Percentage != 100 {
		t.Fatalf("expected clamp to 100, got %v", record.Percentage)
	}
	record, _ = ledger.Upsert("v1", "l2", -5, t0)
	if record.Percentage != 0 {
		t.Fatalf("expected clamp to 0, got %v", record.Percentage)
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	ledger := newLedger()

	first, err := ledger.MarkComplete("v1", "l1", t0)
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !first.Completed || first.Percentage != 100 {
		t.Fatalf("unexpected record: %+v", first)
	}

	second, err := ledger.MarkComplete("v1", "l1", t0.Add(time.Second))
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !second.Completed || second.Percentage != 100 {
		t.Fatalf("second completion changed the record: %+v", second)
	}
}

func TestCompletedNeverReverts(t *testing.T) {
	ledger := newLedger()

	if _, err := ledger.MarkComplete("v1", "l1", t0); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	// A later rewatch sample must not demote the record.
	record, err := ledger.Upsert("v1", "l1", 30, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !record.Completed {
		t.Fatal("completion reverted by a later upsert")
	}
	if record.Percentage != 100 {
		t.Fatalf("completed record not pinned at 100: %v", record.Percentage)
	}
	if !record.LastWatchedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("rewatch timestamp not recorded: %v", record.LastWatchedAt)
	}
}

func TestGetAbsentRecord(t *testing.T) {
	ledger := newLedger()

	record, err := ledger.Get("v1", "never-watched")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for absent record, got %+v", record)
	}
}

func TestListByViewerIsolatesViewers(t *testing.T) {
	ledger := newLedger()

	ledger.Upsert("v1", "l1", 20, t0)
	ledger.Upsert("v1", "l2", 60, t0.Add(time.Minute))
	ledger.Upsert("v2", "l1", 90, t0)

	records, err := ledger.ListByViewer("v1")
	if err != nil {
		t.Fatalf("ListByViewer: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for v1, got %d", len(records))
	}
	for _, r := range records {
		if r.ViewerID != "v1" {
			t.Fatalf("foreign record leaked: %+v", r)
		}
	}
}
