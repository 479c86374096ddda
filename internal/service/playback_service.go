package service

import (
	"context"
	"sync"
	"time"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/repository"
	"mentorhub_backend/internal/util"
	"mentorhub_backend/pkg/logger"
	"mentorhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlaybackService owns the live playback sessions. One session per
// (viewer, lesson) start; switching lessons constructs a new session.
type PlaybackService struct {
	CourseRepo *repository.CourseRepository
	Progress   *ProgressService
	Access     *AccessService
	Storage    *StorageService

	mu       sync.Mutex
	sessions map[string]*PlaybackSession
}

func NewPlaybackService(courseRepo *repository.CourseRepository, progress *ProgressService, access *AccessService, storage *StorageService) *PlaybackService {
	return &PlaybackService{
		CourseRepo: courseRepo,
		Progress:   progress,
		Access:     access,
		Storage:    storage,
		sessions:   make(map[string]*PlaybackSession),
	}
}

// StartSession creates and loads a session for the viewer and lesson.
// A media resolution failure leaves the session in the terminal
// Errored state rather than failing the call; the caller may retry by
// starting a fresh session.
func (s *PlaybackService) StartSession(ctx context.Context, viewer model.Viewer, lessonID string) (*PlaybackSession, error) {
	lesson, course, err := s.CourseRepo.FindLessonCourse(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if !s.Access.CanAccess(viewer, course).Playable {
		return nil, util.ErrAccessDenied
	}

	session := newPlaybackSession(viewer.ID, lesson, course.ID)
	session.onExit = func() {
		monitoring.ActivePlaybackSessions.Dec()
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	monitoring.ActivePlaybackSessions.Inc()

	playbackURL, urlErr := s.Storage.SignedVideoURL(ctx, lesson.VideoAsset.ObjectKey)

	if err := session.beginLoading(s.Progress, playbackURL); err != nil {
		return nil, err
	}

	if urlErr != nil {
		logger.Log.Error("media resolution failed",
			zap.String("lessonId", lessonID),
			zap.Error(urlErr))
		session.Fail(util.ErrMediaLoad)
		return session, nil
	}

	existing, err := s.Progress.Get(viewer.ID, lesson.ID)
	if err != nil {
		session.Fail(util.ErrMediaLoad)
		return session, nil
	}

	if err := session.onMetadata(lesson.VideoAsset.Duration, existing); err != nil {
		session.Fail(util.ErrMediaLoad)
		return session, nil
	}

	return session, nil
}

// Session returns the viewer's session by id.
func (s *PlaybackService) Session(viewerID, sessionID string) (*PlaybackSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok || session.ViewerID != viewerID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// CloseSession disposes the session and forgets it.
func (s *PlaybackService) CloseSession(viewerID, sessionID string) error {
	session, err := s.Session(viewerID, sessionID)
	if err != nil {
		return err
	}

	session.Close()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// ReapIdleSessions closes sessions untouched for longer than maxIdle.
// Runs from the app's background ticker.
func (s *PlaybackService) ReapIdleSessions(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*PlaybackSession
	for id, session := range s.sessions {
		if session.idleSince(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		session.Close()
	}
	if len(stale) > 0 {
		logger.Log.Info("reaped idle playback sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}
