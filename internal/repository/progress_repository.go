package repository

import (
	"mentorhub_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository persists watch progress records, one row per
// (viewer, lesson) key under a unique index. Ledger semantics (stale
// drop, completion monotonicity) live in the service; this is a dumb
// keyed store.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Get(viewerID, lessonID string) (*model.WatchProgress, error) {
	var record model.WatchProgress
	err := r.DB.Where("viewer_id = ? AND lesson_id = ?", viewerID, lessonID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *ProgressRepository) Put(record *model.WatchProgress) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.WatchProgress
		err := tx.Where("viewer_id = ? AND lesson_id = ?", record.ViewerID, record.LessonID).
			First(&existing).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return tx.Create(record).Error
			}
			return err
		}

		existing.Percentage = record.Percentage
		existing.Completed = record.Completed
		existing.LastWatchedAt = record.LastWatchedAt
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		record.ID = existing.ID
		return nil
	})
}

func (r *ProgressRepository) ListByViewer(viewerID string) ([]model.WatchProgress, error) {
	var records []model.WatchProgress
	err := r.DB.Where("viewer_id = ?", viewerID).
		Order("last_watched_at DESC").
		Find(&records).Error
	return records, err
}
