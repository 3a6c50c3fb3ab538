// Package syncer keeps the remote watch-progress record aligned with
// actual playback while a session is active.
package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/internal/metrics"
)

// State of a playback session.
type State string

const (
	// StateIdle is the state before playback confirmation.
	StateIdle State = "idle"
	// StatePlaying is the state while the host reports active playback.
	StatePlaying State = "playing"
	// StateStopped is terminal: the host reported playback has ended.
	StateStopped State = "stopped"
)

// PlaybackProbe reports whether the host player is currently playing.
type PlaybackProbe interface {
	IsPlaying() bool
}

// ProgressPusher pushes elapsed playback time to the remote history
// service and returns the HTTP status code.
type ProgressPusher interface {
	PushProgress(ctx context.Context, programID string, elapsedSeconds int) (int, error)
}

// Config holds the session cadence settings.
type Config struct {
	TickInterval time.Duration
	SyncEvery    int
	GracePeriod  time.Duration
}

// Session synchronizes one playback. Created when playback starts,
// finalized when it stops; never reused.
type Session struct {
	ID        string
	ProgramID string

	cfg       Config
	probe     PlaybackProbe
	pusher    ProgressPusher
	log       *logging.Logger
	state     State
	ticks     int
	lastSync  int
	counted   bool
	finalized bool
}

// NewSession creates an idle session for programID.
func NewSession(programID string, probe PlaybackProbe, pusher ProgressPusher, cfg Config, log *logging.Logger) *Session {
	if cfg.SyncEvery <= 0 {
		cfg.SyncEvery = 60
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	id := uuid.New().String()
	return &Session{
		ID:        id,
		ProgramID: programID,
		cfg:       cfg,
		probe:     probe,
		pusher:    pusher,
		log:       log.WithSessionID(id).WithProgramID(programID),
		state:     StateIdle,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// ElapsedSeconds approximates elapsed playback from the tick count.
func (s *Session) ElapsedSeconds() int {
	return s.ticks
}

// Tick performs one cadence step. It returns false once the host reports
// playback has ended; the caller must then call Finalize. Tick never
// blocks beyond the sync push itself and never fails: a failed push is
// logged and retried by the next scheduled tick.
func (s *Session) Tick(ctx context.Context) bool {
	if s.state == StateStopped {
		return false
	}

	if !s.probe.IsPlaying() {
		s.state = StateStopped
		return false
	}

	if s.state == StateIdle {
		s.state = StatePlaying
		s.counted = true
		metrics.ActivePlaySessions.Inc()
	}

	// Tick 0 included: the first sync happens immediately.
	if s.ticks%s.cfg.SyncEvery == 0 {
		s.push(ctx)
	}
	s.ticks++

	return true
}

// Finalize performs the terminal sync and tears the session down. The
// terminal elapsed time is pushed regardless of the cadence phase, so it
// is never lost when playback stops between scheduled syncs. Idempotent.
func (s *Session) Finalize(ctx context.Context) {
	if s.finalized {
		return
	}
	s.finalized = true

	if s.counted {
		s.counted = false
		metrics.ActivePlaySessions.Dec()
	}
	s.state = StateStopped

	s.push(ctx)
	s.log.Infof("Playback session finalized after %d ticks", s.ticks)
}

// Run drives the session at the configured cadence until the host stops
// playing or ctx is cancelled. The grace period lets the host begin
// playback before the first poll.
func (s *Session) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		s.Finalize(ctx)
		return
	case <-time.After(s.cfg.GracePeriod):
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for s.Tick(ctx) {
		select {
		case <-ctx.Done():
			s.Finalize(ctx)
			return
		case <-ticker.C:
		}
	}

	s.Finalize(ctx)
}

// push sends the current elapsed time. Failures are logged and swallowed:
// they must never stop the polling loop or cross into the playback path.
func (s *Session) push(ctx context.Context) {
	status, err := s.pusher.PushProgress(ctx, s.ProgramID, s.ticks)
	metrics.RecordProgressSync(status)
	s.log.LogProgressSync(s.ProgramID, s.ticks, status, err)
	if err == nil {
		s.lastSync = s.ticks
	}
}
