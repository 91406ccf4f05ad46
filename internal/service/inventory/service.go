// Package inventory implements the assignment manager: it moves catalog
// items between the unassigned pool and the three rotations, keeps the
// single-linkage invariant (at most one live item per catalog id across all
// rotations), and owns every mutation of the live inventory state.
package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/store"
	"github.com/ovenlight/prepstock-backend/pkg/clock"
	"github.com/ovenlight/prepstock-backend/pkg/ctxutil"
)

// AnonymousActor is used when a request carries no employee identity.
const AnonymousActor = "anonymous"

// fieldSyncer schedules persistence of local state to the remote store.
type fieldSyncer interface {
	SetField(path string, value any)
	FlushNow(ctx context.Context, path string, value any) error
}

// opRecorder appends to the cross-device operation log.
type opRecorder interface {
	Record(ctx context.Context, op domain.SyncOperation)
}

// Service provides all inventory mutations. Each method completes its full
// read-modify-write cycle before returning, so no caller ever observes a
// half-updated rotation set; the mutex serializes mutations against each
// other.
type Service struct {
	mu       sync.Mutex
	store    *store.Memory
	syncer   fieldSyncer
	ops      opRecorder
	clock    clock.Clock
	deviceID string
	log      *slog.Logger
}

// NewService creates the inventory service.
func NewService(
	log *slog.Logger,
	st *store.Memory,
	syncer fieldSyncer,
	ops opRecorder,
	clk clock.Clock,
	deviceID string,
) *Service {
	return &Service{
		store:    st,
		syncer:   syncer,
		ops:      ops,
		clock:    clk,
		deviceID: deviceID,
		log:      log.With("service", "inventory"),
	}
}

// Catalog returns the full catalog, unassigned and assigned items alike.
func (s *Service) Catalog() []domain.CatalogItem {
	return s.store.Catalog()
}

// RotationItems returns the live items of one rotation.
func (s *Service) RotationItems(rotation domain.Rotation) []domain.InventoryItem {
	return s.store.RotationItems(rotation)
}

// Activity returns the activity log, most recent first.
func (s *Service) Activity() []domain.ActivityEntry {
	return s.store.Activity()
}

func actorFrom(ctx context.Context) string {
	if actor, ok := ctxutil.ActorFromCtx(ctx); ok {
		return actor
	}
	return AnonymousActor
}

// persistRotation schedules a debounced write of one rotation's items.
func (s *Service) persistRotation(rotation domain.Rotation) {
	s.syncer.SetField(remote.InventoryPath(rotation), s.store.RotationItems(rotation))
}

func (s *Service) persistCatalog() {
	s.syncer.SetField(remote.CatalogPath, s.store.Catalog())
}

func (s *Service) persistActivity() {
	s.syncer.SetField(remote.ActivityPath, s.store.Activity())
}

// record appends an operation to the advisory log. Payload marshalling
// failures cannot happen for our own types, but are guarded anyway.
func (s *Service) record(ctx context.Context, opType domain.OpType, rotation domain.Rotation, itemID string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.log.Warn("encode operation payload", slog.Any("error", err))
			return
		}
		raw = b
	}
	s.ops.Record(ctx, domain.SyncOperation{
		Type:      opType,
		Rotation:  rotation,
		ItemID:    itemID,
		Payload:   raw,
		Timestamp: s.clock.Now(),
		Actor:     actorFrom(ctx),
		DeviceID:  s.deviceID,
	})
}

func newItemID() string { return uuid.New().String() }
