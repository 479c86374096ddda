package service

import (
	"sync"
	"time"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/util"
)

type PlaybackState string

const (
	StateIdle    PlaybackState = "idle"
	StateLoading PlaybackState = "loading"
	StateReady   PlaybackState = "ready"
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
	StateSeeking PlaybackState = "seeking"
	StateEnded   PlaybackState = "ended"
	StateErrored PlaybackState = "errored"
)

// progressEmitInterval bounds ledger write volume to one upsert per
// five seconds of media time, not one per player callback.
const progressEmitInterval = 5.0

// progressLedger is the slice of the ledger a session writes to.
type progressLedger interface {
	Upsert(viewerID, lessonID string, percentage float64, timestamp time.Time) (*model.WatchProgress, error)
	MarkComplete(viewerID, lessonID string, timestamp time.Time) (*model.WatchProgress, error)
}

// PlaybackSession is the per-lesson state machine driving a media
// element on the client. A load is one-shot: once Ready has been
// reached the session never returns to Loading; switching lessons
// means constructing a new session. The ledger subscription is
// acquired on Loading and released on every exit path.
type PlaybackSession struct {
	ID       string
	ViewerID string
	LessonID string
	CourseID string

	mu             sync.Mutex
	state          PlaybackState
	resumeState    PlaybackState // state held before a seek
	loaded         bool
	closed         bool
	duration       float64
	playhead       float64
	lastEmitPos    float64
	completionSent bool
	playbackURL    string
	failure        error
	lastActivity   time.Time

	ledger  progressLedger
	onExit  func()
	nowFunc func() time.Time
}

func newPlaybackSession(viewerID string, lesson *model.Lesson, courseID string) *PlaybackSession {
	return &PlaybackSession{
		ID:       model.GenerateUUID(),
		ViewerID: viewerID,
		LessonID: lesson.ID,
		CourseID: courseID,
		state:    StateIdle,
		nowFunc:  time.Now,
	}
}

// beginLoading acquires the ledger subscription and moves Idle to
// Loading.
func (s *PlaybackSession) beginLoading(ledger progressLedger, playbackURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StateIdle || s.loaded {
		return util.ErrInvalidTransition
	}

	s.ledger = ledger
	s.playbackURL = playbackURL
	s.state = StateLoading
	s.touch()
	return nil
}

// onMetadata moves Loading to Ready once the duration is known. The
// playhead is seeded from any existing progress record.
func (s *PlaybackSession) onMetadata(duration float64, existing *model.WatchProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StateLoading {
		return util.ErrInvalidTransition
	}
	if duration < 0 {
		return util.ErrMetadataUnavailable
	}

	s.duration = duration
	if existing != nil {
		s.playhead = existing.Percentage / 100 * duration
		s.lastEmitPos = s.playhead
		s.completionSent = existing.Completed
	}
	s.loaded = true
	s.state = StateReady
	s.touch()
	return nil
}

func (s *PlaybackSession) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StateReady && s.state != StatePaused {
		return util.ErrInvalidTransition
	}
	s.state = StatePlaying
	s.touch()
	return nil
}

func (s *PlaybackSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StatePlaying {
		return util.ErrInvalidTransition
	}
	s.state = StatePaused
	s.touch()
	return nil
}

// Seek passes through the transient Seeking state and lands back on
// whatever state was held before the seek.
func (s *PlaybackSession) Seek(position float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StateReady && s.state != StatePlaying && s.state != StatePaused {
		return util.ErrInvalidTransition
	}

	s.resumeState = s.state
	s.state = StateSeeking

	if position < 0 {
		position = 0
	}
	if position > s.duration {
		position = s.duration
	}
	s.playhead = position
	// A seek repositions the throttle window so the next emit reflects
	// five seconds watched from the new position.
	s.lastEmitPos = position

	s.state = s.resumeState
	s.resumeState = ""
	s.touch()
	return nil
}

// OnTimeUpdate ingests a playhead sample from the media element.
// Samples arriving outside Playing (trailing callbacks after a pause
// or ended) are ignored. Every five seconds of media time one upsert
// is emitted; the first sample at or past the completion threshold
// triggers exactly one MarkComplete.
func (s *PlaybackSession) OnTimeUpdate(position float64, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StatePlaying {
		return nil
	}
	if s.duration <= 0 {
		return util.ErrMetadataUnavailable
	}

	if position < 0 {
		position = 0
	}
	if position > s.duration {
		position = s.duration
	}
	s.playhead = position
	s.touch()

	percentage := position / s.duration * 100

	if position-s.lastEmitPos >= progressEmitInterval {
		if _, err := s.ledger.Upsert(s.ViewerID, s.LessonID, percentage, timestamp); err != nil {
			return err
		}
		s.lastEmitPos = position
	}

	if percentage >= CompletionThreshold && !s.completionSent {
		if _, err := s.ledger.MarkComplete(s.ViewerID, s.LessonID, timestamp); err != nil {
			return err
		}
		s.completionSent = true
	}
	return nil
}

// OnEnded finishes the session: the playhead reaches the duration and
// completion is implied if not yet sent.
func (s *PlaybackSession) OnEnded(timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state != StateReady && s.state != StatePlaying && s.state != StatePaused {
		return util.ErrInvalidTransition
	}

	s.playhead = s.duration
	if !s.completionSent {
		if _, err := s.ledger.MarkComplete(s.ViewerID, s.LessonID, timestamp); err != nil {
			return err
		}
		s.completionSent = true
	}
	s.state = StateEnded
	s.release()
	return nil
}

// Fail moves the session to the terminal Errored state. There is no
// automatic retry; the caller constructs a fresh session instead.
func (s *PlaybackSession) Fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return util.ErrSessionClosed
	}
	if s.state == StateIdle || s.state == StateEnded || s.state == StateErrored {
		return util.ErrInvalidTransition
	}

	s.failure = cause
	s.state = StateErrored
	s.release()
	return nil
}

// Close disposes the session, guaranteeing the ledger subscription is
// released even when the session never reached a terminal state.
func (s *PlaybackSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.release()
}

// release drops the ledger subscription; no writes can follow.
func (s *PlaybackSession) release() {
	if s.ledger == nil {
		return
	}
	s.ledger = nil
	if s.onExit != nil {
		s.onExit()
	}
}

func (s *PlaybackSession) touch() {
	s.lastActivity = s.nowFunc()
}

// SessionSnapshot is the read view handed to the API.
type SessionSnapshot struct {
	ID          string        `json:"id"`
	LessonID    string        `json:"lessonId"`
	CourseID    string        `json:"courseId"`
	State       PlaybackState `json:"state"`
	Playhead    float64       `json:"playheadSeconds"`
	Duration    float64       `json:"durationSeconds"`
	Percentage  float64       `json:"progressPercentage"`
	Completed   bool          `json:"completed"`
	PlaybackURL string        `json:"playbackUrl,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func (s *PlaybackSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:          s.ID,
		LessonID:    s.LessonID,
		CourseID:    s.CourseID,
		State:       s.state,
		Playhead:    s.playhead,
		Duration:    s.duration,
		Completed:   s.completionSent,
		PlaybackURL: s.playbackURL,
	}
	if s.duration > 0 {
		snap.Percentage = s.playhead / s.duration * 100
	}
	if s.failure != nil {
		snap.Error = s.failure.Error()
	}
	return snap
}

// State returns the current machine state.
func (s *PlaybackSession) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *PlaybackSession) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity.Before(cutoff)
}
