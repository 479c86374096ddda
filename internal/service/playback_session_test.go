package service

import (
	"errors"
	"testing"
	"time"

	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/util"
)

type upsertCall struct {
	percentage float64
	timestamp  time.Time
}

// ledgerRecorder captures ledger writes without persistence.
type ledgerRecorder struct {
	upserts   []upsertCall
	completes int
}

func (r *ledgerRecorder) Upsert(viewerID, lessonID string, percentage float64, timestamp time.Time) (*model.WatchProgress, error) {
	r.upserts = append(r.upserts, upsertCall{percentage: percentage, timestamp: timestamp})
	return &model.WatchProgress{ViewerID: viewerID, LessonID: lessonID, Percentage: percentage, LastWatchedAt: timestamp}, nil
}

func (r *ledgerRecorder) MarkComplete(viewerID, lessonID string, timestamp time.Time) (*model.WatchProgress, error) {
	r.completes++
	return &model.WatchProgress{ViewerID: viewerID, LessonID: lessonID, Percentage: 100, Completed: true, LastWatchedAt: timestamp}, nil
}

func testLesson() *model.Lesson {
	return &model.Lesson{UUIDBase: model.UUIDBase{ID: "l1"}}
}

func readySession(t *testing.T, ledger *ledgerRecorder, duration float64, existing *model.WatchProgress) *PlaybackSession {
	t.Helper()
	s := newPlaybackSession("v1", testLesson(), "c1")
	if err := s.beginLoading(ledger, "https://media.test/l1.mp4"); err != nil {
		t.Fatalf("beginLoading: %v", err)
	}
	if err := s.onMetadata(duration, existing); err != nil {
		t.Fatalf("onMetadata: %v", err)
	}
	return s
}

func TestSessionLifecycle(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)

	if s.State() != StateReady {
		t.Fatalf("expected ready, got %s", s.State())
	}
	if err := s.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := s.Play(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := s.OnEnded(t0); err != nil {
		t.Fatalf("OnEnded: %v", err)
	}
	if s.State() != StateEnded {
		t.Fatalf("expected ended, got %s", s.State())
	}
}

func TestLoadIsOneShot(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)

	if err := s.beginLoading(ledger, "https://media.test/other.mp4"); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestIllegalTransitions(t *testing.T) {
	ledger := &ledgerRecorder{}

	idle := newPlaybackSession("v1", testLesson(), "c1")
	if err := idle.Play(); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("Play from idle: %v", err)
	}
	if err := idle.Fail(errors.New("boom")); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("Fail from idle: %v", err)
	}

	s := readySession(t, ledger, 600, nil)
	if err := s.Pause(); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("Pause from ready: %v", err)
	}
}

func TestProgressEmitThrottle(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()

	// Samples every second: only every fifth second of media time may
	// reach the ledger.
	for i := 1; i <= 12; i++ {
		if err := s.OnTimeUpdate(float64(i), t0.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("OnTimeUpdate(%d): %v", i, err)
		}
	}

	if len(ledger.upserts) != 2 {
		t.Fatalf("expected 2 upserts (at 5s and 10s), got %d", len(ledger.upserts))
	}
	if got := ledger.upserts[0].percentage; got != 5.0/600*100 {
		t.Fatalf("first emit percentage: %v", got)
	}
}

func TestSamplesOutsidePlayingIgnored(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()
	s.Pause()

	// Trailing media-element callback after the pause.
	if err := s.OnTimeUpdate(30, t0); err != nil {
		t.Fatalf("OnTimeUpdate while paused: %v", err)
	}
	if len(ledger.upserts) != 0 {
		t.Fatalf("paused sample reached the ledger: %d upserts", len(ledger.upserts))
	}
	if s.Snapshot().Playhead != 0 {
		t.Fatalf("paused sample moved the playhead: %v", s.Snapshot().Playhead)
	}
}

func TestSingleCompletionTrigger(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 100, nil)
	s.Play()

	s.OnTimeUpdate(88, t0)
	if ledger.completes != 0 {
		t.Fatalf("completed below threshold: %d", ledger.completes)
	}
	s.OnTimeUpdate(91, t0.Add(time.Second))
	if ledger.completes != 1 {
		t.Fatalf("expected completion at 91%%, got %d", ledger.completes)
	}
	s.OnTimeUpdate(95, t0.Add(2*time.Second))
	if ledger.completes != 1 {
		t.Fatalf("completion fired twice: %d", ledger.completes)
	}
}

func TestResumeSeedsPlayheadAndCompletion(t *testing.T) {
	ledger := &ledgerRecorder{}
	existing := &model.WatchProgress{ViewerID: "v1", LessonID: "l1", Percentage: 100, Completed: true}
	s := readySession(t, ledger, 1240, existing)
	s.Play()

	if got := s.Snapshot().Playhead; got != 1240 {
		t.Fatalf("playhead not seeded from record: %v", got)
	}

	// A rewatch past the threshold must not complete again.
	s.OnTimeUpdate(1150, t0)
	if ledger.completes != 0 {
		t.Fatalf("already-completed lesson completed again: %d", ledger.completes)
	}
}

func TestSeekReturnsToPriorState(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()

	if err := s.Seek(300); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if s.State() != StatePlaying {
		t.Fatalf("seek during playback must resume playing, got %s", s.State())
	}

	s.Pause()
	if err := s.Seek(60); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if s.State() != StatePaused {
		t.Fatalf("seek while paused must stay paused, got %s", s.State())
	}
}

func TestSeekClampsAndResetsThrottle(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()

	if err := s.Seek(10000); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if got := s.Snapshot().Playhead; got != 600 {
		t.Fatalf("seek not clamped to duration: %v", got)
	}

	s.Seek(100)
	// Window restarts at the seek target: 104 is only 4s of media time.
	s.OnTimeUpdate(104, t0)
	if len(ledger.upserts) != 0 {
		t.Fatalf("emit window not reset by seek: %d upserts", len(ledger.upserts))
	}
	s.OnTimeUpdate(105, t0.Add(time.Second))
	if len(ledger.upserts) != 1 {
		t.Fatalf("expected emit 5s past the seek target, got %d", len(ledger.upserts))
	}
}

func TestOnEndedImpliesCompletion(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()
	s.OnTimeUpdate(30, t0)

	if err := s.OnEnded(t0.Add(time.Minute)); err != nil {
		t.Fatalf("OnEnded: %v", err)
	}
	if ledger.completes != 1 {
		t.Fatalf("ended session not completed: %d", ledger.completes)
	}
	if got := s.Snapshot().Playhead; got != 600 {
		t.Fatalf("playhead not at duration after end: %v", got)
	}

	// The ledger reference is gone; further samples must not write.
	if err := s.OnTimeUpdate(10, t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("sample after end: %v", err)
	}
	if len(ledger.upserts) != 0 {
		t.Fatalf("write after terminal state: %d", len(ledger.upserts))
	}
}

func TestFailIsTerminal(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Play()

	if err := s.Fail(errors.New("segment fetch failed")); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if s.State() != StateErrored {
		t.Fatalf("expected errored, got %s", s.State())
	}
	if snap := s.Snapshot(); snap.Error == "" {
		t.Fatal("snapshot should carry the failure")
	}

	if err := s.Play(); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("Play after error: %v", err)
	}
	if err := s.Fail(errors.New("again")); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("Fail after error: %v", err)
	}
}

func TestReleaseFiresOnceOnEveryExitPath(t *testing.T) {
	for _, exit := range []string{"ended", "errored", "closed"} {
		t.Run(exit, func(t *testing.T) {
			ledger := &ledgerRecorder{}
			s := readySession(t, ledger, 600, nil)
			released := 0
			s.onExit = func() { released++ }
			s.Play()

			switch exit {
			case "ended":
				s.OnEnded(t0)
			case "errored":
				s.Fail(errors.New("boom"))
			case "closed":
				s.Close()
			}
			// A second close must not double-release.
			s.Close()

			if released != 1 {
				t.Fatalf("release fired %d times", released)
			}
		})
	}
}

func TestClosedSessionRejectsEverything(t *testing.T) {
	ledger := &ledgerRecorder{}
	s := readySession(t, ledger, 600, nil)
	s.Close()

	if err := s.Play(); !errors.Is(err, util.ErrSessionClosed) {
		t.Fatalf("Play after close: %v", err)
	}
	if err := s.OnTimeUpdate(10, t0); !errors.Is(err, util.ErrSessionClosed) {
		t.Fatalf("OnTimeUpdate after close: %v", err)
	}
	if err := s.Seek(10); !errors.Is(err, util.ErrSessionClosed) {
		t.Fatalf("Seek after close: %v", err)
	}
}
