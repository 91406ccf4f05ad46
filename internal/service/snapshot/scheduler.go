package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/pkg/clock"
)

// State is the scheduler's lifecycle state.
type State string

const (
	StateStopped   State = "stopped"
	StateScheduled State = "scheduled"
	StateCapturing State = "capturing"
)

const captureTimeout = 30 * time.Second

// capturer is the slice of the snapshot service the scheduler drives.
type capturer interface {
	Capture(ctx context.Context, date string, rotations []domain.Rotation) (*CaptureResult, error)
	Prune(ctx context.Context) int
	Today() string
}

// retrier flushes writes that are still queued from earlier failures.
type retrier interface {
	RetryPending(ctx context.Context) error
}

// SchedulerConfig sets the daily capture cadence.
type SchedulerConfig struct {
	// CaptureAt is the wall-clock capture time, "15:04" format.
	CaptureAt string
	// Location is the timezone CaptureAt is interpreted in.
	Location *time.Location
	// Rotations to capture; all of them when empty.
	Rotations []domain.Rotation
}

// Scheduler fires one snapshot capture per calendar day at the configured
// wall-clock time. There is no catch-up for days the process was down: a
// restart schedules relative to the current time and the gap stays visible
// to readers as "no snapshot for date D".
type Scheduler struct {
	svc   capturer
	sync  retrier
	clock clock.Clock
	log   *slog.Logger

	hour, minute int
	loc          *time.Location
	rotations    []domain.Rotation

	mu    sync.Mutex
	state State
	timer *time.Timer
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log *slog.Logger, svc capturer, sync retrier, clk clock.Clock, cfg SchedulerConfig) (*Scheduler, error) {
	at, err := time.Parse("15:04", cfg.CaptureAt)
	if err != nil {
		return nil, fmt.Errorf("parse capture time %q: %w", cfg.CaptureAt, err)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	rotations := cfg.Rotations
	if len(rotations) == 0 {
		rotations = domain.Rotations()
	}
	return &Scheduler{
		svc:       svc,
		sync:      sync,
		clock:     clk,
		log:       log.With("component", "snapshot_scheduler"),
		hour:      at.Hour(),
		minute:    at.Minute(),
		loc:       loc,
		rotations: rotations,
		state:     StateStopped,
	}, nil
}

// Start schedules the next capture. If today's capture time has already
// passed, the first fire is tomorrow. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return
	}
	s.scheduleLocked()
	s.log.Info("scheduler started",
		slog.String("capture_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
		slog.String("timezone", s.loc.String()),
	)
}

// Stop cancels the pending capture. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.state != StateStopped {
		s.state = StateStopped
		s.log.Info("scheduler stopped")
	}
}

// CurrentState returns the lifecycle state.
func (s *Scheduler) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NextCapture computes the next occurrence of the capture time relative to
// now. Exposed for status reporting; the fire loop uses the same rule.
func (s *Scheduler) NextCapture(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// scheduleLocked arms the single-shot timer for the next capture.
func (s *Scheduler) scheduleLocked() {
	now := s.clock.Now()
	next := s.NextCapture(now)
	s.state = StateScheduled
	s.timer = time.AfterFunc(next.Sub(now), s.fire)
	s.log.Info("capture scheduled", slog.Time("next", next))
}

// fire runs one capture cycle, then reschedules for the same time next
// day regardless of how long the capture took.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateCapturing
	s.mu.Unlock()

	s.runCycle()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return
	}
	s.scheduleLocked()
}

// runCycle captures today, prunes old captures, and retries any queued
// remote writes. Failures are logged and left for the next cycle; the
// timer loop never dies to an error.
func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	date := s.svc.Today()
	if _, err := s.svc.Capture(ctx, date, s.rotations); err != nil {
		if errors.Is(err, domain.ErrSnapshotExists) {
			s.log.Info("capture skipped, date already snapshotted", slog.String("date", date))
		} else {
			s.log.Error("capture failed, will retry next cycle",
				slog.String("date", date),
				slog.Any("error", err),
			)
		}
	}

	s.svc.Prune(ctx)

	if err := s.sync.RetryPending(ctx); err != nil {
		s.log.Warn("pending writes not fully flushed", slog.Any("error", err))
	}
}
