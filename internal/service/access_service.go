package service

import (
	"mentorhub_backend/internal/model"
)

// AccessDecision carries the two verdicts separately: current policy
// never grants one without the other, but admin-preview modes will
// need them decoupled.
type AccessDecision struct {
	Visible  bool `json:"visible"`
	Playable bool `json:"playable"`
}

// AccessService decides which courses a viewer may see and play. It is
// a pure rule evaluator with no I/O: the viewer identity is trusted as
// given and the course comes from the catalog snapshot.
type AccessService struct{}

func NewAccessService() *AccessService {
	return &AccessService{}
}

// CanAccess applies the visibility rules in order; the first failing
// rule denies. Empty cohort or plan allow-lists mean open access on
// that dimension.
func (s *AccessService) CanAccess(viewer model.Viewer, course *model.Course) AccessDecision {
	// Unpublished courses are hidden from everyone except platform
	// admins, who may preview them.
	if !course.IsPublished && !viewer.IsAdmin() {
		return AccessDecision{}
	}

	if len(course.Cohorts) > 0 && !course.Cohorts.Contains(viewer.Cohort) {
		return AccessDecision{}
	}

	if len(course.Plans) > 0 && !course.Plans.Contains(viewer.Plan) {
		return AccessDecision{}
	}

	return AccessDecision{Visible: true, Playable: true}
}

// VisibleCourses filters a snapshot down to the courses the viewer may
// see, preserving order.
func (s *AccessService) VisibleCourses(viewer model.Viewer, courses []model.Course) []model.Course {
	visible := make([]model.Course, 0, len(courses))
	for i := range courses {
		if s.CanAccess(viewer, &courses[i]).Visible {
			visible = append(visible, courses[i])
		}
	}
	return visible
}
