package service

import (
	"sync"
	"time"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/pkg/monitoring"
)

// CompletionThreshold is the progress percentage at which a playback
// session must promote a lesson to completed. The ledger itself never
// infers completion; threshold evaluation is the caller's job.
const CompletionThreshold = 90.0

// ProgressStore is the swappable persistence contract behind the
// ledger. Get returns (nil, nil) for an absent key.
type ProgressStore interface {
	Get(viewerID, lessonID string) (*model.WatchProgress, error)
	Put(record *model.WatchProgress) error
	ListByViewer(viewerID string) ([]model.WatchProgress, error)
}

// ProgressService is the watch progress ledger. Writes are timestamped
// and idempotent under out-of-order delivery: a stale update is
// silently dropped, and Completed never reverts once set. The mutex
// serializes read-modify-write cycles; stale-timestamp dropping is the
// concurrency discipline across sessions.
type ProgressService struct {
	mu    sync.Mutex
	store ProgressStore
}

func NewProgressService(store ProgressStore) *ProgressService {
	return &ProgressService{store: store}
}

// Upsert records a progress sample. Unknown lesson ids are accepted
// without catalog validation. Returns the stored record after the
// write (unchanged when the sample was stale).
func (s *ProgressService) Upsert(viewerID, lessonID string, percentage float64, timestamp time.Time) (*model.WatchProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	percentage = clampPercentage(percentage)

	record, err := s.store.Get(viewerID, lessonID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = &model.WatchProgress{
			ViewerID:      viewerID,
			LessonID:      lessonID,
			Percentage:    percentage,
			LastWatchedAt: timestamp,
		}
		if err := s.store.Put(record); err != nil {
			return nil, err
		}
		monitoring.ProgressUpserts.Inc()
		return record.Clone(), nil
	}

	if timestamp.Before(record.LastWatchedAt) {
		// Stale write: older than what the ledger holds. Dropped, not
		// an error.
		monitoring.StaleWritesDropped.Inc()
		return record.Clone(), nil
	}

	record.LastWatchedAt = timestamp
	if record.Completed {
		// Completed records stay pinned at 100.
		record.Percentage = 100
	} else {
		record.Percentage = percentage
	}

	if err := s.store.Put(record); err != nil {
		return nil, err
	}
	monitoring.ProgressUpserts.Inc()
	return record.Clone(), nil
}

// MarkComplete promotes the record to completed with percentage 100.
// Idempotent: a second call with the same or later timestamp yields an
// identical record.
func (s *ProgressService) MarkComplete(viewerID, lessonID string, timestamp time.Time) (*model.WatchProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.store.Get(viewerID, lessonID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = &model.WatchProgress{
			ViewerID: viewerID,
			LessonID: lessonID,
		}
	}

	firstCompletion := !record.Completed
	record.Completed = true
	record.Percentage = 100
	if timestamp.After(record.LastWatchedAt) {
		record.LastWatchedAt = timestamp
	}

	if err := s.store.Put(record); err != nil {
		return nil, err
	}
	if firstCompletion {
		monitoring.LessonCompletions.Inc()
	}
	return record.Clone(), nil
}

// Get returns the record for (viewer, lesson), or nil when absent.
func (s *ProgressService) Get(viewerID, lessonID string) (*model.WatchProgress, error) {
	return s.store.Get(viewerID, lessonID)
}

// ListByViewer returns all of a viewer's records, most recent first.
// This is the classifier's read path.
func (s *ProgressService) ListByViewer(viewerID string) ([]model.WatchProgress, error) {
	return s.store.ListByViewer(viewerID)
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
