package rest

import (
	"net/http"

	"github.com/ovenlight/prepstock-backend/internal/transport/middleware"
)

// Handlers bundles everything the router mounts. Token may be nil, in
// which case the token endpoint is not registered.
type Handlers struct {
	Inventory *InventoryHandler
	Snapshot  *SnapshotHandler
	Sync      *SyncHandler
	Health    *HealthHandler
	Token     *TokenHandler
}

// NewRouter registers all routes and wraps them in the given middleware
// chain (outermost first).
func NewRouter(h Handlers, mws ...middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	// Probes stay outside /api/v1; load balancers hit them bare.
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	if h.Token != nil {
		mux.HandleFunc("POST /api/v1/auth/token", h.Token.Issue)
	}

	// Catalog.
	mux.HandleFunc("GET /api/v1/catalog", h.Inventory.Catalog)
	mux.HandleFunc("POST /api/v1/catalog", h.Inventory.AddCatalog)
	mux.HandleFunc("DELETE /api/v1/catalog/{id}", h.Inventory.RemoveCatalog)

	// Rotations and assignment.
	mux.HandleFunc("GET /api/v1/rotations/{rotation}/items", h.Inventory.RotationItems)
	mux.HandleFunc("POST /api/v1/rotations/{rotation}/items/{id}/stock", h.Inventory.UpdateStock)
	mux.HandleFunc("POST /api/v1/rotations/{rotation}/items/{id}/waste", h.Inventory.ReportWaste)
	mux.HandleFunc("POST /api/v1/assign", h.Inventory.Assign)
	mux.HandleFunc("POST /api/v1/unassign", h.Inventory.Unassign)
	mux.HandleFunc("POST /api/v1/cleanup", h.Inventory.Cleanup)

	// Activity log.
	mux.HandleFunc("GET /api/v1/activity", h.Inventory.Activity)

	// Snapshots.
	mux.HandleFunc("GET /api/v1/snapshots", h.Snapshot.List)
	mux.HandleFunc("POST /api/v1/snapshots", h.Snapshot.Capture)
	mux.HandleFunc("GET /api/v1/snapshots/{date}", h.Snapshot.Query)
	mux.HandleFunc("GET /api/v1/snapshots/{date}/{rotation}", h.Snapshot.QueryRotation)

	// Sync.
	mux.HandleFunc("GET /api/v1/sync/status", h.Sync.Status)
	mux.HandleFunc("POST /api/v1/sync/operations", h.Sync.ApplyOperations)
	mux.HandleFunc("POST /api/v1/sync/flush", h.Sync.Flush)

	return middleware.Chain(mws...)(mux)
}
