package repository

import (
	"mentorhub_backend/internal/model"

	"gorm.io/gorm"
)

// CourseRepository is the read-only catalog store: courses with their
// nested modules, lessons and video assets. The engine only consumes
// snapshots; content rows are written by the media ingest path.
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) preloaded() *gorm.DB {
	return r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.order ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order ASC")
		}).
		Preload("Modules.Lessons.VideoAsset")
}

// Snapshot returns every course in catalog insertion order. Visibility
// filtering is the access evaluator's job, not the store's.
func (r *CourseRepository) Snapshot() ([]model.Course, error) {
	var courses []model.Course
	err := r.preloaded().
		Order("position ASC, created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.preloaded().First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindLessonCourse resolves a lesson and the course that owns it.
func (r *CourseRepository) FindLessonCourse(lessonID string) (*model.Lesson, *model.Course, error) {
	var lesson model.Lesson
	err := r.DB.Preload("VideoAsset").First(&lesson, "id = ?", lessonID).Error
	if err != nil {
		return nil, nil, err
	}

	var module model.CourseModule
	if err := r.DB.First(&module, "id = ?", lesson.ModuleID).Error; err != nil {
		return nil, nil, err
	}

	course, err := r.FindByID(module.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &lesson, course, nil
}

// FindVideoAssetCourse resolves a video asset and the course whose
// lesson references it.
func (r *CourseRepository) FindVideoAssetCourse(assetID string) (*model.VideoAsset, *model.Course, error) {
	var asset model.VideoAsset
	if err := r.DB.First(&asset, "id = ?", assetID).Error; err != nil {
		return nil, nil, err
	}

	var lesson model.Lesson
	if err := r.DB.First(&lesson, "video_asset_id = ?", assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Asset exists but is not attached to any lesson yet.
			return &asset, nil, nil
		}
		return nil, nil, err
	}

	var module model.CourseModule
	if err := r.DB.First(&module, "id = ?", lesson.ModuleID).Error; err != nil {
		return nil, nil, err
	}

	course, err := r.FindByID(module.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &asset, course, nil
}

func (r *CourseRepository) CreateVideoAsset(asset *model.VideoAsset) error {
	return r.DB.Create(asset).Error
}

func (r *CourseRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Where("enabled = ?", true).
		Order("`order` ASC").
		Find(&categories).Error
	return categories, err
}
