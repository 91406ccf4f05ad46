package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/service/snapshot"
)

// snapshotService defines the minimal interface needed by SnapshotHandler.
type snapshotService interface {
	Capture(ctx context.Context, date string, rotations []domain.Rotation) (*snapshot.CaptureResult, error)
	ListDates() []string
	GetRotation(date string, rotation domain.Rotation) (domain.Snapshot, bool)
	Query(date string) (*snapshot.QueryResult, error)
}

// SnapshotHandler serves historical snapshot endpoints.
type SnapshotHandler struct {
	svc snapshotService
	log *slog.Logger
}

// NewSnapshotHandler creates a SnapshotHandler.
func NewSnapshotHandler(svc snapshotService, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{svc: svc, log: logger.With("handler", "snapshot")}
}

type captureRequest struct {
	Date      string   `json:"date"`
	Rotations []string `json:"rotations"`
}

// Capture handles POST /api/v1/snapshots. A manual capture follows the same
// rules as the scheduled one: a date that already has a snapshot is a 409.
func (h *SnapshotHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	rotations := make([]domain.Rotation, 0, len(req.Rotations))
	for _, raw := range req.Rotations {
		rotation, err := domain.ParseRotation(raw)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		rotations = append(rotations, rotation)
	}

	result, err := h.svc.Capture(r.Context(), req.Date, rotations)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /api/v1/snapshots.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"dates": h.svc.ListDates()})
}

// Query handles GET /api/v1/snapshots/{date}. The answer carries its source:
// "historical" from a stored capture, or "live" only when the date is today
// and no capture exists yet. A past date without a capture is a 404.
func (h *SnapshotHandler) Query(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Query(r.PathValue("date"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// QueryRotation handles GET /api/v1/snapshots/{date}/{rotation}.
func (h *SnapshotHandler) QueryRotation(w http.ResponseWriter, r *http.Request) {
	rotation, err := domain.ParseRotation(r.PathValue("rotation"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	date := r.PathValue("date")
	snap, ok := h.svc.GetRotation(date, rotation)
	if !ok {
		handleError(h.log, w, r, fmt.Errorf("no %s snapshot for %s: %w", rotation, date, domain.ErrNoHistoricalData))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
