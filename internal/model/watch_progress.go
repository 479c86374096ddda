package model

import (
	"time"

	"gorm.io/gorm"
)

// WatchProgress is one ledger record keyed by (viewer, lesson).
// Records are append-only per key: latest write wins, and Completed
// never reverts to false once set.
// swagger:model WatchProgress
type WatchProgress struct {
	gorm.Model    `json:"-"`
	ViewerID      string    `gorm:"size:36;index:idx_viewer_lesson,unique" json:"viewerId"`
	LessonID      string    `gorm:"size:36;index:idx_viewer_lesson,unique" json:"lessonId"`
	Percentage    float64   `gorm:"default:0" json:"progressPercentage"`
	Completed     bool      `gorm:"default:false" json:"completed"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

func (WatchProgress) TableName() string {
	return "watch_progress"
}

// Clone returns a copy safe to hand out of the ledger.
func (p *WatchProgress) Clone() *WatchProgress {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
