package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/store"
)

// flusher is the immediate-durability write the op log records through.
// Going through the synchronizer instead of the raw writer keeps a failed
// record in the retry queue rather than dropping it.
type flusher interface {
	FlushNow(ctx context.Context, path string, value any) error
}

// OpLog is the advisory cross-device operation log. Record pushes each
// mutating action to the remote store immediately (never debounced, since
// coalescing would lose reconciliation records); Apply merges operations
// received from peer devices into local state, idempotently.
type OpLog struct {
	syncer flusher
	store  *store.Memory
	log    *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewOpLog creates an operation log flushing through syncer and applying
// into st.
func NewOpLog(syncer flusher, st *store.Memory, log *slog.Logger) *OpLog {
	return &OpLog{
		syncer: syncer,
		store:  st,
		log:    log.With("component", "oplog"),
		seen:   make(map[string]struct{}),
	}
}

// Record appends op to the remote log with an immediate flush. The log is
// best-effort: a failed write is logged, left queued for retry, and never
// rolls back the local mutation it describes, so Record reports nothing to
// the caller.
func (l *OpLog) Record(ctx context.Context, op domain.SyncOperation) {
	l.mu.Lock()
	l.seen[op.Key()] = struct{}{}
	l.mu.Unlock()

	path := remote.OpLogPath(op.Timestamp, op.DeviceID)
	if err := l.syncer.FlushNow(ctx, path, op); err != nil {
		l.log.Warn("operation log write failed, queued for retry",
			slog.String("type", op.Type.String()),
			slog.String("item_id", op.ItemID),
			slog.Any("error", err),
		)
		return
	}

	l.log.Debug("operation recorded",
		slog.String("type", op.Type.String()),
		slog.String("item_id", op.ItemID),
		slog.String("device_id", op.DeviceID),
	)
}

// Apply merges one operation from a peer device into local state. Duplicate
// delivery of the same operation (same timestamp+device+type+item tuple) is
// a no-op; Apply returns whether the operation was actually applied.
func (l *OpLog) Apply(op domain.SyncOperation) (bool, error) {
	if !op.Type.IsValid() {
		return false, domain.NewValidationError("type", fmt.Sprintf("unknown operation type %q", op.Type))
	}

	l.mu.Lock()
	if _, dup := l.seen[op.Key()]; dup {
		l.mu.Unlock()
		return false, nil
	}
	l.seen[op.Key()] = struct{}{}
	l.mu.Unlock()

	if err := l.merge(op); err != nil {
		return false, err
	}

	l.log.Info("operation applied",
		slog.String("type", op.Type.String()),
		slog.String("item_id", op.ItemID),
		slog.String("device_id", op.DeviceID),
	)
	return true, nil
}

func (l *OpLog) merge(op domain.SyncOperation) error {
	switch op.Type {
	case domain.OpAssign, domain.OpUpdateStock, domain.OpReportWaste:
		var item domain.InventoryItem
		if err := json.Unmarshal(op.Payload, &item); err != nil {
			return fmt.Errorf("decode %s payload: %w", op.Type, err)
		}
		if !op.Rotation.IsValid() {
			return domain.NewValidationError("rotation", fmt.Sprintf("unknown rotation %q", op.Rotation))
		}
		if op.Type == domain.OpAssign && item.CatalogID != nil {
			// Keep the single-linkage invariant on the receiving side too:
			// drop the item from any other rotation before placing it.
			l.removeCatalogRefs(*item.CatalogID, op.Rotation)
			if cat, ok := l.store.CatalogItem(*item.CatalogID); ok {
				rotation := op.Rotation
				cat.Assigned = true
				cat.AssignedRotation = &rotation
				category := item.Category
				cat.AssignedCategory = &category
				at := op.Timestamp
				cat.AssignedAt = &at
				l.store.PutCatalogItems(cat)
			}
		}
		l.store.PutRotationItem(op.Rotation, item)
		return nil

	case domain.OpUnassign, domain.OpRemove:
		l.removeCatalogRefs(op.ItemID, "")
		if cat, ok := l.store.CatalogItem(op.ItemID); ok {
			if op.Type == domain.OpRemove {
				l.store.RemoveCatalogItem(op.ItemID)
			} else {
				cat.ClearAssignment()
				l.store.PutCatalogItems(cat)
			}
		}
		return nil

	case domain.OpImport:
		var items []domain.CatalogItem
		if err := json.Unmarshal(op.Payload, &items); err != nil {
			return fmt.Errorf("decode import payload: %w", err)
		}
		l.store.PutCatalogItems(items...)
		return nil
	}
	return nil
}

// removeCatalogRefs drops every live item referencing catalogID from all
// rotations except keep (pass "" to clear everywhere).
func (l *OpLog) removeCatalogRefs(catalogID string, keep domain.Rotation) {
	for _, rotation := range domain.Rotations() {
		if rotation == keep {
			continue
		}
		bucket := l.store.RotationMap(rotation)
		changed := false
		for id, it := range bucket {
			if it.CatalogID != nil && *it.CatalogID == catalogID {
				delete(bucket, id)
				changed = true
			}
		}
		if changed {
			l.store.CommitRotation(rotation, bucket)
		}
	}
}
