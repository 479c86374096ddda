package service

import (
	"context"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/repository"
	"mentorhub_backend/internal/util"

	"gorm.io/gorm"
)

// FavoriteService toggles and lists a viewer's favorite courses.
// Listing goes back through the access evaluator so a course that
// became restricted after being favorited silently drops out.
type FavoriteService struct {
	FavoriteRepo *repository.FavoriteRepository
	CourseRepo   *repository.CourseRepository
	Access       *AccessService
}

func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, courseRepo *repository.CourseRepository, access *AccessService) *FavoriteService {
	return &FavoriteService{
		FavoriteRepo: favoriteRepo,
		CourseRepo:   courseRepo,
		Access:       access,
	}
}

func (s *FavoriteService) Add(ctx context.Context, viewer model.Viewer, courseID string) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}
	if !s.Access.CanAccess(viewer, course).Visible {
		return util.ErrCourseNotFound
	}
	return s.FavoriteRepo.Add(ctx, viewer.ID, courseID)
}

func (s *FavoriteService) Remove(ctx context.Context, viewer model.Viewer, courseID string) error {
	return s.FavoriteRepo.Remove(ctx, viewer.ID, courseID)
}

func (s *FavoriteService) List(ctx context.Context, viewer model.Viewer) ([]model.Course, error) {
	ids, err := s.FavoriteRepo.List(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	snapshot, err := s.CourseRepo.Snapshot()
	if err != nil {
		return nil, err
	}

	favorites := make([]model.Course, 0, len(ids))
	for i := range snapshot {
		if idSet[snapshot[i].ID] && s.Access.CanAccess(viewer, &snapshot[i]).Visible {
			favorites = append(favorites, snapshot[i])
		}
	}
	return favorites, nil
}
