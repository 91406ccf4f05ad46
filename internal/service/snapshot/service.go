// Package snapshot takes immutable, date-keyed captures of inventory state
// and answers historical queries from them. Past records are never mutated;
// a query for a date with no capture reports exactly that instead of
// substituting live values.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/store"
	"github.com/ovenlight/prepstock-backend/pkg/clock"
	"github.com/ovenlight/prepstock-backend/pkg/ctxutil"
)

// QuerySource labels where query results came from.
type QuerySource string

const (
	SourceHistorical QuerySource = "historical"
	SourceLive       QuerySource = "live"
)

// QueryResult is a snapshot query answer, labeled with its provenance so a
// live fallback can never masquerade as historical data.
type QueryResult struct {
	Source   QuerySource     `json:"source"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// CaptureResult reports one capture run.
type CaptureResult struct {
	Date      string `json:"date"`
	Snapshots int    `json:"snapshots"`
	Items     int    `json:"items"`
}

// inventoryReader is the read-only rotation accessor the captures use.
type inventoryReader interface {
	RotationItems(rotation domain.Rotation) []domain.InventoryItem
}

// flusher is the immediate-durability slice of the synchronizer.
type flusher interface {
	FlushNow(ctx context.Context, path string, value any) error
}

// Service owns the snapshot store and historical queries.
type Service struct {
	store         *store.Memory
	inv           inventoryReader
	syncer        flusher
	clock         clock.Clock
	loc           *time.Location
	retentionDays int
	log           *slog.Logger
}

// NewService creates the snapshot service. loc is the restaurant's local
// timezone; dates are keyed in it. retentionDays <= 0 disables pruning.
func NewService(
	log *slog.Logger,
	st *store.Memory,
	inv inventoryReader,
	syncer flusher,
	clk clock.Clock,
	loc *time.Location,
	retentionDays int,
) *Service {
	return &Service{
		store:         st,
		inv:           inv,
		syncer:        syncer,
		clock:         clk,
		loc:           loc,
		retentionDays: retentionDays,
		log:           log.With("service", "snapshot"),
	}
}

// Today returns the current date key in the capture timezone.
func (s *Service) Today() string {
	return domain.DateOf(s.clock.Now().In(s.loc))
}

// Capture freezes the given rotations (all of them when none are named)
// into one immutable snapshot per (date, rotation) key. Rotations already
// frozen for the date are skipped, never overwritten, so a morning partial
// capture does not block the scheduled end-of-day run; when every requested
// rotation already has a record the call is rejected with
// domain.ErrSnapshotExists. The combined record is the date's full
// valuation, so it is written only once all rotations are frozen, merged
// from the stored captures rather than the live items.
//
// Each snapshot is written to the remote store with an immediate flush.
// A failed flush is logged and left queued for retry; the local capture
// stands either way.
func (s *Service) Capture(ctx context.Context, date string, rotations []domain.Rotation) (*CaptureResult, error) {
	if date == "" {
		date = s.Today()
	}
	if _, err := time.ParseInLocation(domain.DateLayout, date, s.loc); err != nil {
		return nil, domain.NewValidationError("date", fmt.Sprintf("%q is not a valid date", date))
	}
	if len(rotations) == 0 {
		rotations = domain.Rotations()
	}
	for _, r := range rotations {
		if !r.IsValid() {
			return nil, domain.NewValidationError("rotations", fmt.Sprintf("unknown rotation %q", r))
		}
	}

	missing := make([]domain.Rotation, 0, len(rotations))
	for _, r := range rotations {
		if _, ok := s.store.Snapshot(date, r); !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return nil, fmt.Errorf("date %s: %w", date, domain.ErrSnapshotExists)
	}

	capturedAt := s.clock.Now()
	capturedBy, _ := ctxutil.ActorFromCtx(ctx)

	result := CaptureResult{Date: date}
	for _, rotation := range missing {
		snap := domain.Snapshot{
			Date:       date,
			Rotation:   rotation,
			CapturedAt: capturedAt,
			CapturedBy: capturedBy,
			Items:      make(map[string]domain.SnapshotItem),
		}
		// Copy by value: later mutation of the live item must never
		// change what this capture reports.
		for _, it := range s.inv.RotationItems(rotation) {
			snap.Items[it.ID] = domain.NewSnapshotItem(it, rotation)
		}
		snap.Summarize()
		s.store.PutSnapshot(snap)
		s.flush(ctx, snap)
		result.Snapshots++
		result.Items += len(snap.Items)
	}

	// Merging the stored captures means an earlier partial capture's frozen
	// values win over whatever the kitchen did since.
	if s.combinedReady(date) {
		combined := domain.Snapshot{
			Date:       date,
			Rotation:   domain.RotationCombined,
			CapturedAt: capturedAt,
			CapturedBy: capturedBy,
			Items:      make(map[string]domain.SnapshotItem),
		}
		for _, rotation := range domain.Rotations() {
			snap, _ := s.store.Snapshot(date, rotation)
			for id, frozen := range snap.Items {
				combined.Items[id] = frozen
			}
		}
		combined.Summarize()
		s.store.PutSnapshot(combined)
		s.flush(ctx, combined)
		result.Snapshots++
	}

	s.log.InfoContext(ctx, "snapshot captured",
		slog.String("date", date),
		slog.Int("snapshots", result.Snapshots),
		slog.Int("items", result.Items),
	)
	return &result, nil
}

// combinedReady reports whether every rotation for date is frozen and the
// combined record has not been written yet.
func (s *Service) combinedReady(date string) bool {
	if _, ok := s.store.Snapshot(date, domain.RotationCombined); ok {
		return false
	}
	for _, rotation := range domain.Rotations() {
		if _, ok := s.store.Snapshot(date, rotation); !ok {
			return false
		}
	}
	return true
}

func (s *Service) flush(ctx context.Context, snap domain.Snapshot) {
	path := remote.SnapshotPath(snap.Date, snap.Rotation)
	if err := s.syncer.FlushNow(ctx, path, snap); err != nil {
		s.log.Warn("snapshot flush failed, queued for retry",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

// Get returns the combined capture for date.
func (s *Service) Get(date string) (domain.Snapshot, bool) {
	return s.store.Snapshot(date, domain.RotationCombined)
}

// GetRotation returns the capture of one rotation for date.
func (s *Service) GetRotation(date string, rotation domain.Rotation) (domain.Snapshot, bool) {
	return s.store.Snapshot(date, rotation)
}

// ListDates returns the capture dates, most recent first.
func (s *Service) ListDates() []string {
	return s.store.SnapshotDates()
}

// Query answers "what did the inventory look like on date".
//
// A capture for the date wins. If the date is today and no capture exists
// yet, the live state is returned, labeled live. A past date without a
// capture is domain.ErrNoHistoricalData, never live values: substituting
// today's prices for a past date silently corrupts historical reports.
func (s *Service) Query(date string) (*QueryResult, error) {
	if snap, ok := s.Get(date); ok {
		return &QueryResult{Source: SourceHistorical, Snapshot: snap}, nil
	}

	if date == s.Today() {
		live := domain.Snapshot{
			Date:       date,
			Rotation:   domain.RotationCombined,
			CapturedAt: s.clock.Now(),
			Items:      make(map[string]domain.SnapshotItem),
		}
		for _, rotation := range domain.Rotations() {
			for _, it := range s.inv.RotationItems(rotation) {
				live.Items[it.ID] = domain.NewSnapshotItem(it, rotation)
			}
		}
		live.Summarize()
		return &QueryResult{Source: SourceLive, Snapshot: live}, nil
	}

	return nil, fmt.Errorf("date %s: %w", date, domain.ErrNoHistoricalData)
}

// Prune drops captures older than the retention window. Best-effort: it
// returns the number removed and never blocks a capture.
func (s *Service) Prune(ctx context.Context) int {
	if s.retentionDays <= 0 {
		return 0
	}
	cutoff := domain.DateOf(s.clock.Now().In(s.loc).AddDate(0, 0, -s.retentionDays))
	removed := s.store.DeleteSnapshotsBefore(cutoff)
	if removed > 0 {
		s.log.InfoContext(ctx, "snapshots pruned",
			slog.String("cutoff", cutoff),
			slog.Int("removed", removed),
		)
	}
	return removed
}
