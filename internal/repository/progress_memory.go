package repository

import (
	"sort"
	"sync"

	"mentorhub_backend/internal/model"
)

type progressKey struct {
	viewerID string
	lessonID string
}

// MemoryProgressStore is the in-memory implementation of the ledger
// store contract. It backs headless tests and standalone runs where
// no database is wired.
type MemoryProgressStore struct {
	mu      sync.RWMutex
	records map[progressKey]*model.WatchProgress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{
		records: make(map[progressKey]*model.WatchProgress),
	}
}

func (s *MemoryProgressStore) Get(viewerID, lessonID string) (*model.WatchProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[progressKey{viewerID, lessonID}]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

func (s *MemoryProgressStore) Put(record *model.WatchProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[progressKey{record.ViewerID, record.LessonID}] = record.Clone()
	return nil
}

func (s *MemoryProgressStore) ListByViewer(viewerID string) ([]model.WatchProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []model.WatchProgress
	for key, record := range s.records {
		if key.viewerID == viewerID {
			records = append(records, *record.Clone())
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastWatchedAt.After(records[j].LastWatchedAt)
	})
	return records, nil
}
