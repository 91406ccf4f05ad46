// Package remote defines the contract the core has with the durable store:
// a key-path document write plus the reads needed to hydrate local state at
// boot. The core is the sole caller; everything else about the store is an
// implementation detail of the adapters beneath this package.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// ErrUnavailable marks a write failure caused by lost connectivity rather
// than a bad request. Adapters wrap their transport errors with it so the
// synchronizer can distinguish "disconnected" from "error".
var ErrUnavailable = errors.New("remote store unavailable")

// Writer is the durable write primitive. Save may fail and callers are
// expected to treat failures as retryable; it must not panic.
type Writer interface {
	Save(ctx context.Context, path string, value any) error
}

// Reader loads documents back from the durable store.
type Reader interface {
	// Load unmarshals the document at path into dest. Returns
	// domain.ErrNotFound if no document exists at that path.
	Load(ctx context.Context, path string, dest any) error

	// List returns all documents whose path starts with prefix, ordered
	// by path.
	List(ctx context.Context, prefix string) ([]Document, error)
}

// Document is one stored record.
type Document struct {
	Path      string
	Value     json.RawMessage
	UpdatedAt time.Time
}

// Store is a full remote document store.
type Store interface {
	Writer
	Reader
	Ping(ctx context.Context) error
	Close()
}

// Path naming convention. These are internal conventions, not part of the
// collaborator contract.
const (
	CatalogPath  = "catalog/items"
	ActivityPath = "activity/log"
)

// InventoryPath is the document path for one rotation's live items.
func InventoryPath(rotation domain.Rotation) string {
	return "inventory/" + rotation.String()
}

// SnapshotPath is the document path for one immutable capture.
func SnapshotPath(date string, rotation domain.Rotation) string {
	return "snapshots/" + date + "/" + rotation.String()
}

// OpLogPath is the document path for one operation-log record. Timestamp
// and device id order the log; the uuid suffix keeps two operations
// recorded in the same instant on one device from overwriting each other,
// so the log is append-only by construction.
func OpLogPath(ts time.Time, deviceID string) string {
	return "oplog/" + ts.UTC().Format("20060102T150405.000000000") + "-" + deviceID + "-" + uuid.NewString()
}
