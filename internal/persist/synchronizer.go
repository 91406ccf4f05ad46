// Package persist moves local mutations into the remote document store.
// The Synchronizer coalesces rapid writes per path behind a debounce
// window; the OpLog records mutating actions for cross-device
// reconciliation. Local state stays authoritative for the running session
// no matter what the remote side does.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
)

// Status is the synchronizer's view of remote connectivity.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

const flushTimeout = 10 * time.Second

// Synchronizer debounces and flushes per-path writes to the remote store.
//
// SetField updates the local view immediately and schedules a flush after
// the debounce window; repeated calls to the same path replace the pending
// timer, so only the most recently set value is ever transmitted. Paths
// that fail to flush stay queued in last-set order until RetryPending
// succeeds; the first successful write after an offline stretch kicks an
// asynchronous RetryPending so the queue drains on reconnect instead of
// waiting for the daily cycle. Write failures are never surfaced as hard
// errors from SetField.
type Synchronizer struct {
	writer   remote.Writer
	log      *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	values   map[string]any
	gens     map[string]uint64
	timers   map[string]*time.Timer
	queue    []string
	status   Status
	draining bool
	closed   bool
}

// New creates a Synchronizer flushing through writer after debounce.
func New(writer remote.Writer, log *slog.Logger, debounce time.Duration) *Synchronizer {
	return &Synchronizer{
		writer:   writer,
		log:      log.With("component", "synchronizer"),
		debounce: debounce,
		values:   make(map[string]any),
		gens:     make(map[string]uint64),
		timers:   make(map[string]*time.Timer),
		status:   StatusConnected,
	}
}

// SetField records the latest value for path and (re)schedules its flush.
// The pending timer for the same path is cancelled and replaced, never
// accumulated; intermediate values are coalesced away.
func (s *Synchronizer) SetField(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.values[path] = value
	s.gens[path]++
	s.enqueueLocked(path)

	if t, ok := s.timers[path]; ok {
		t.Stop()
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.flush(path)
	})
}

// FlushNow writes the value for path immediately, bypassing the debounce
// window. Used for writes that must be durable right away (snapshots, the
// operation log). On failure the path stays queued for retry and the error
// is returned so the caller can decide to retry on its own cadence.
func (s *Synchronizer) FlushNow(ctx context.Context, path string, value any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("synchronizer closed")
	}
	if t, ok := s.timers[path]; ok {
		t.Stop()
		delete(s.timers, path)
	}
	s.values[path] = value
	s.gens[path]++
	gen := s.gens[path]
	s.enqueueLocked(path)
	s.mu.Unlock()

	return s.write(ctx, path, value, gen)
}

// Status returns the current connectivity state.
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Pending returns the dirty paths in last-set order.
func (s *Synchronizer) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

// RetryPending flushes queued paths in last-set order, stopping at the
// first failure. Called on reconnect and piggy-backed on the daily
// snapshot cycle.
func (s *Synchronizer) RetryPending(ctx context.Context) error {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return nil
		}
		path := s.queue[0]
		value := s.values[path]
		gen := s.gens[path]
		if t, ok := s.timers[path]; ok {
			t.Stop()
			delete(s.timers, path)
		}
		s.mu.Unlock()

		if err := s.write(ctx, path, value, gen); err != nil {
			return err
		}
	}
}

// Close cancels all pending timers and makes a best-effort final flush.
// Safe to call once; subsequent SetField calls become no-ops.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for path, t := range s.timers {
		t.Stop()
		delete(s.timers, path)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := s.retryAll(ctx); err != nil {
		s.log.Warn("final flush incomplete", slog.Any("error", err))
	}
}

// flush is the debounce-timer callback for one path.
func (s *Synchronizer) flush(path string) {
	s.mu.Lock()
	value, ok := s.values[path]
	gen := s.gens[path]
	delete(s.timers, path)
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	// Errors are already logged and the path stays queued; nothing to do.
	_ = s.write(ctx, path, value, gen)
}

// write performs one remote save and settles the bookkeeping. The path is
// only dequeued if no newer SetField arrived while the write was in flight
// (generation check), so a late success never drops a fresher value. A
// success that flips the status back to connected with paths still queued
// starts the reconnect drain.
func (s *Synchronizer) write(ctx context.Context, path string, value any, gen uint64) error {
	err := s.writer.Save(ctx, path, value)

	s.mu.Lock()

	if err != nil {
		if errors.Is(err, remote.ErrUnavailable) {
			s.status = StatusDisconnected
		} else {
			s.status = StatusError
		}
		s.mu.Unlock()
		s.log.Warn("remote write failed, saved locally, will retry",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return err
	}

	reconnected := s.status != StatusConnected
	s.status = StatusConnected
	if s.gens[path] == gen {
		delete(s.values, path)
		delete(s.gens, path)
		s.dequeueLocked(path)
	}
	drain := reconnected && len(s.queue) > 0 && !s.draining && !s.closed
	if drain {
		s.draining = true
	}
	s.mu.Unlock()

	if drain {
		go s.drainAfterReconnect()
	}
	return nil
}

// drainAfterReconnect flushes the paths left queued by an offline stretch.
// At most one drain runs at a time; if it fails partway the status drops
// again and the next successful write rearms it.
func (s *Synchronizer) drainAfterReconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	err := s.RetryPending(ctx)

	s.mu.Lock()
	s.draining = false
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("reconnect drain incomplete", slog.Any("error", err))
	}
}

// retryAll is Close's lock-free variant of RetryPending (closed is set, so
// RetryPending's guard does not apply; values are drained directly).
func (s *Synchronizer) retryAll(ctx context.Context) error {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return nil
		}
		path := s.queue[0]
		value := s.values[path]
		gen := s.gens[path]
		s.mu.Unlock()

		if err := s.write(ctx, path, value, gen); err != nil {
			return err
		}
	}
}

// enqueueLocked moves path to the end of the dirty queue.
func (s *Synchronizer) enqueueLocked(path string) {
	s.dequeueLocked(path)
	s.queue = append(s.queue, path)
}

func (s *Synchronizer) dequeueLocked(path string) {
	for i, p := range s.queue {
		if p == path {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}
