package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"mentorhub_backend/internal/model"

	"gorm.io/gorm"
)

// continueWatchingFloor: lessons below this percentage are considered
// barely started and do not surface in the continue-watching rail.
const continueWatchingFloor = 10.0

// CourseCatalog is the read surface the classifier needs from the
// course store.
type CourseCatalog interface {
	Snapshot() ([]model.Course, error)
	FindByID(id string) (*model.Course, error)
	ListCategories() ([]model.Category, error)
}

// CatalogService derives the classified course rails from the catalog
// snapshot, the progress ledger and the access evaluator. Every rail
// is filtered through visibility first: denied courses are omitted,
// never reported as errors.
type CatalogService struct {
	CourseRepo CourseCatalog
	Progress   *ProgressService
	Access     *AccessService
}

func NewCatalogService(courseRepo CourseCatalog, progress *ProgressService, access *AccessService) *CatalogService {
	return &CatalogService{
		CourseRepo: courseRepo,
		Progress:   progress,
		Access:     access,
	}
}

// HomeRails is the aggregate payload for the catalog front page.
type HomeRails struct {
	ContinueWatching []model.Course   `json:"continueWatching"`
	Recommended      []model.Course   `json:"recommended"`
	Completed        []model.Course   `json:"completed"`
	Categories       []model.Category `json:"categories"`
}

func (s *CatalogService) Home(viewer model.Viewer) (*HomeRails, error) {
	visible, progressByLesson, err := s.visibleWithProgress(viewer)
	if err != nil {
		return nil, err
	}

	categories, err := s.CourseRepo.ListCategories()
	if err != nil {
		return nil, err
	}

	return &HomeRails{
		ContinueWatching: continueWatching(visible, progressByLesson),
		Recommended:      visible,
		Completed:        completedCourses(visible, progressByLesson),
		Categories:       categories,
	}, nil
}

// ContinueWatching lists visible courses having at least one lesson in
// flight (past the floor, not completed), most recently watched first.
func (s *CatalogService) ContinueWatching(viewer model.Viewer) ([]model.Course, error) {
	visible, progressByLesson, err := s.visibleWithProgress(viewer)
	if err != nil {
		return nil, err
	}
	return continueWatching(visible, progressByLesson), nil
}

// Completed lists visible courses with at least one completed lesson.
// Partial completion qualifies deliberately.
func (s *CatalogService) Completed(viewer model.Viewer) ([]model.Course, error) {
	visible, progressByLesson, err := s.visibleWithProgress(viewer)
	if err != nil {
		return nil, err
	}
	return completedCourses(visible, progressByLesson), nil
}

// Recommended is the full visible set in stable catalog insertion
// order. No ranking algorithm is applied.
func (s *CatalogService) Recommended(viewer model.Viewer) ([]model.Course, error) {
	snapshot, err := s.CourseRepo.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.Access.VisibleCourses(viewer, snapshot), nil
}

// Search filters visible courses whose title, description or category
// contains query as a case-insensitive substring. An empty query
// short-circuits to the full visible set.
func (s *CatalogService) Search(viewer model.Viewer, query string) ([]model.Course, error) {
	visible, err := s.Recommended(viewer)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return visible, nil
	}

	needle := strings.ToLower(query)
	matched := make([]model.Course, 0, len(visible))
	for _, course := range visible {
		if strings.Contains(strings.ToLower(course.Title), needle) ||
			strings.Contains(strings.ToLower(course.Description), needle) ||
			strings.Contains(strings.ToLower(course.Category), needle) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// ByCategory is the search filter with an equality predicate on the
// category label.
func (s *CatalogService) ByCategory(viewer model.Viewer, category string) ([]model.Course, error) {
	visible, err := s.Recommended(viewer)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Course, 0, len(visible))
	for _, course := range visible {
		if course.Category == category {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (s *CatalogService) ListCategories() ([]model.Category, error) {
	return s.CourseRepo.ListCategories()
}

// CourseDetail is a single visible course plus the viewer's per-lesson
// progress records.
type CourseDetail struct {
	Course           model.Course                    `json:"course"`
	LessonProgress   map[string]*model.WatchProgress `json:"lessonProgress"`
	LessonsTotal     int                             `json:"lessonsTotal"`
	LessonsCompleted int                             `json:"lessonsCompleted"`
}

// CourseDetail returns nil for both a missing course and a hidden one;
// callers must not distinguish the two.
func (s *CatalogService) CourseDetail(viewer model.Viewer, courseID string) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !s.Access.CanAccess(viewer, course).Visible {
		return nil, nil
	}

	detail := &CourseDetail{
		Course:         *course,
		LessonProgress: make(map[string]*model.WatchProgress),
	}
	for _, lesson := range course.Lessons() {
		detail.LessonsTotal++
		record, err := s.Progress.Get(viewer.ID, lesson.ID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			detail.LessonProgress[lesson.ID] = record
			if record.Completed {
				detail.LessonsCompleted++
			}
		}
	}
	return detail, nil
}

func (s *CatalogService) visibleWithProgress(viewer model.Viewer) ([]model.Course, map[string]model.WatchProgress, error) {
	snapshot, err := s.CourseRepo.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	visible := s.Access.VisibleCourses(viewer, snapshot)

	records, err := s.Progress.ListByViewer(viewer.ID)
	if err != nil {
		return nil, nil, err
	}
	progressByLesson := make(map[string]model.WatchProgress, len(records))
	for _, record := range records {
		progressByLesson[record.LessonID] = record
	}
	return visible, progressByLesson, nil
}

func continueWatching(visible []model.Course, progressByLesson map[string]model.WatchProgress) []model.Course {
	type entry struct {
		course      model.Course
		lastWatched time.Time
	}

	var entries []entry
	for _, course := range visible {
		var newest time.Time
		qualifies := false
		for _, lesson := range course.Lessons() {
			record, ok := progressByLesson[lesson.ID]
			if !ok || record.Completed || record.Percentage <= continueWatchingFloor {
				continue
			}
			qualifies = true
			if record.LastWatchedAt.After(newest) {
				newest = record.LastWatchedAt
			}
		}
		if qualifies {
			entries = append(entries, entry{course: course, lastWatched: newest})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].lastWatched.After(entries[j].lastWatched)
	})

	courses := make([]model.Course, 0, len(entries))
	for _, e := range entries {
		courses = append(courses, e.course)
	}
	return courses
}

func completedCourses(visible []model.Course, progressByLesson map[string]model.WatchProgress) []model.Course {
	var courses []model.Course
	for _, course := range visible {
		for _, lesson := range course.Lessons() {
			if record, ok := progressByLesson[lesson.ID]; ok && record.Completed {
				courses = append(courses, course)
				break
			}
		}
	}
	return courses
}
