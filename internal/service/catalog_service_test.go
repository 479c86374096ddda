package service

import (
	"testing"
	"time"

	"mentorhub_backend/internal/model"

	"gorm.io/gorm"
)

type fakeCatalog struct {
	courses []model.Course
}

func (f *fakeCatalog) Snapshot() ([]model.Course, error) {
	return f.courses, nil
}

func (f *fakeCatalog) FindByID(id string) (*model.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			return &f.courses[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) ListCategories() ([]model.Category, error) {
	return nil, nil
}

func courseWithLessons(id, title, category string, lessonIDs ...string) model.Course {
	c := model.Course{
		UUIDBase:    model.UUIDBase{ID: id},
		Title:       title,
		Category:    category,
		IsPublished: true,
	}
	module := model.CourseModule{UUIDBase: model.UUIDBase{ID: id + "-m1"}, CourseID: id}
	for _, lessonID := range lessonIDs {
		module.Lessons = append(module.Lessons, model.Lesson{UUIDBase: model.UUIDBase{ID: lessonID}, ModuleID: module.ID})
	}
	c.Modules = []model.CourseModule{module}
	return c
}

func newHarness(courses ...model.Course) (*CatalogService, *ProgressService) {
	progress := newLedger()
	catalog := NewCatalogService(&fakeCatalog{courses: courses}, progress, NewAccessService())
	return catalog, progress
}

var viewer = model.Viewer{ID: "v1", Role: model.RoleParticipant}

func TestContinueWatchingFloorAndOrdering(t *testing.T) {
	catalog, progress := newHarness(
		courseWithLessons("c1", "Liderança na prática", "Liderança", "l1"),
		courseWithLessons("c2", "Growth loops", "Growth", "l2"),
		courseWithLessons("c3", "Finanças para fundadores", "Finanças", "l3"),
		courseWithLessons("c4", "Estratégia de preço", "Estratégia", "l4"),
	)

	// l1 barely started: below the floor, must not surface.
	progress.Upsert("v1", "l1", 8, t0)
	// l2 and l3 in flight; l3 watched more recently.
	progress.Upsert("v1", "l2", 45, t0.Add(time.Minute))
	progress.Upsert("v1", "l3", 30, t0.Add(2*time.Minute))
	// l4 completed: leaves the rail.
	progress.MarkComplete("v1", "l4", t0.Add(3*time.Minute))

	rail, err := catalog.ContinueWatching(viewer)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if len(rail) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(rail))
	}
	if rail[0].ID != "c3" || rail[1].ID != "c2" {
		t.Fatalf("wrong order: %s, %s", rail[0].ID, rail[1].ID)
	}
}

func TestContinueWatchingExactFloorExcluded(t *testing.T) {
	catalog, progress := newHarness(courseWithLessons("c1", "Inovação", "Inovação", "l1"))

	progress.Upsert("v1", "l1", 10, t0)

	rail, err := catalog.ContinueWatching(viewer)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if len(rail) != 0 {
		t.Fatalf("10%% exactly should not qualify, got %d courses", len(rail))
	}
}

func TestCompletedIncludesPartialCompletion(t *testing.T) {
	catalog, progress := newHarness(
		courseWithLessons("c1", "Marketing B2B", "Marketing", "l1", "l2"),
		courseWithLessons("c2", "Operações enxutas", "Operações", "l3"),
	)

	// Only one of two lessons finished: the course still counts.
	progress.MarkComplete("v1", "l1", t0)
	progress.Upsert("v1", "l3", 55, t0)

	rail, err := catalog.Completed(viewer)
	if err != nil {
		t.Fatalf("Completed: %v", err)
	}
	if len(rail) != 1 || rail[0].ID != "c1" {
		t.Fatalf("expected only c1, got %+v", rail)
	}
}

func TestRecommendedKeepsCatalogOrder(t *testing.T) {
	catalog, _ := newHarness(
		courseWithLessons("c1", "A", "Growth", "l1"),
		courseWithLessons("c2", "B", "Growth", "l2"),
		courseWithLessons("c3", "C", "Growth", "l3"),
	)

	rail, err := catalog.Recommended(viewer)
	if err != nil {
		t.Fatalf("Recommended: %v", err)
	}
	if len(rail) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(rail))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if rail[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, rail[i].ID, want)
		}
	}
}

func TestSearchMatchesSubstringsCaseInsensitive(t *testing.T) {
	c1 := courseWithLessons("c1", "Liderança na prática", "Liderança", "l1")
	c2 := courseWithLessons("c2", "Growth loops", "Growth", "l2")
	c2.Description = "Como escalar liderando squads"
	c3 := courseWithLessons("c3", "Precificação", "Finanças", "l3")
	catalog, _ := newHarness(c1, c2, c3)

	tests := []struct {
		query string
		want  []string
	}{
		{"LIDERANÇA", []string{"c1"}},
		{"liderando", []string{"c2"}},
		{"finanças", []string{"c3"}},
		{"growth", []string{"c2"}},
		{"", []string{"c1", "c2", "c3"}},
		{"  ", []string{"c1", "c2", "c3"}},
		{"nada disso", nil},
	}

	for _, tt := range tests {
		got, err := catalog.Search(viewer, tt.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("Search(%q): got %d courses, want %d", tt.query, len(got), len(tt.want))
		}
		for i := range tt.want {
			if got[i].ID != tt.want[i] {
				t.Fatalf("Search(%q) position %d: got %s, want %s", tt.query, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestByCategoryUsesEquality(t *testing.T) {
	catalog, _ := newHarness(
		courseWithLessons("c1", "A", "Growth", "l1"),
		courseWithLessons("c2", "B", "Growth Marketing", "l2"),
	)

	got, err := catalog.ByCategory(viewer, "Growth")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("category filter must be exact, got %+v", got)
	}
}

func TestRailsHideDeniedCourses(t *testing.T) {
	restricted := courseWithLessons("c1", "Enterprise only", "Estratégia", "l1")
	restricted.Plans = model.StringList{"Enterprise"}
	catalog, progress := newHarness(restricted)

	// Progress on a course the viewer lost access to stays in the
	// ledger but never surfaces in the rails.
	progress.Upsert("v1", "l1", 50, t0)

	rails, err := catalog.Home(viewer)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(rails.ContinueWatching) != 0 || len(rails.Recommended) != 0 || len(rails.Completed) != 0 {
		t.Fatalf("denied course leaked into rails: %+v", rails)
	}
}

func TestCourseDetailHiddenCourse(t *testing.T) {
	hidden := courseWithLessons("c1", "Rascunho", "Growth", "l1")
	hidden.IsPublished = false
	catalog, _ := newHarness(hidden)

	detail, err := catalog.CourseDetail(viewer, "c1")
	if err != nil {
		t.Fatalf("CourseDetail: %v", err)
	}
	if detail != nil {
		t.Fatal("hidden course must be indistinguishable from absent")
	}
}

func TestCourseDetailMissingCourse(t *testing.T) {
	catalog, _ := newHarness()

	detail, err := catalog.CourseDetail(viewer, "ghost")
	if err != nil {
		t.Fatalf("CourseDetail: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil for missing course, got %+v", detail)
	}
}

func TestCourseDetailProgressSummary(t *testing.T) {
	catalog, progress := newHarness(courseWithLessons("c1", "Growth loops", "Growth", "l1", "l2", "l3"))

	progress.MarkComplete("v1", "l1", t0)
	progress.Upsert("v1", "l2", 40, t0)

	detail, err := catalog.CourseDetail(viewer, "c1")
	if err != nil {
		t.Fatalf("CourseDetail: %v", err)
	}
	if detail == nil {
		t.Fatal("expected detail for visible course")
	}
	if detail.LessonsTotal != 3 || detail.LessonsCompleted != 1 {
		t.Fatalf("summary wrong: total=%d completed=%d", detail.LessonsTotal, detail.LessonsCompleted)
	}
	if len(detail.LessonProgress) != 2 {
		t.Fatalf("expected 2 progress records, got %d", len(detail.LessonProgress))
	}
}
