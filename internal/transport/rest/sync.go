package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/persist"
	"github.com/ovenlight/prepstock-backend/internal/service/snapshot"
	"github.com/ovenlight/prepstock-backend/pkg/clock"
)

// synchronizer is the status/retry slice of the persistence layer.
type synchronizer interface {
	Status() persist.Status
	Pending() []string
	RetryPending(ctx context.Context) error
}

// opApplier merges peer operations into local state.
type opApplier interface {
	Apply(op domain.SyncOperation) (bool, error)
}

// captureScheduler reports the snapshot scheduler's state.
type captureScheduler interface {
	CurrentState() snapshot.State
	NextCapture(now time.Time) time.Time
}

// SyncHandler serves synchronization status and peer operation endpoints.
type SyncHandler struct {
	sync      synchronizer
	ops       opApplier
	scheduler captureScheduler
	clock     clock.Clock
	deviceID  string
	log       *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(
	sync synchronizer,
	ops opApplier,
	scheduler captureScheduler,
	clk clock.Clock,
	deviceID string,
	logger *slog.Logger,
) *SyncHandler {
	return &SyncHandler{
		sync:      sync,
		ops:       ops,
		scheduler: scheduler,
		clock:     clk,
		deviceID:  deviceID,
		log:       logger.With("handler", "sync"),
	}
}

type syncStatusResponse struct {
	Status       persist.Status `json:"status"`
	PendingPaths []string       `json:"pendingPaths"`
	DeviceID     string         `json:"deviceId"`
	Scheduler    schedulerInfo  `json:"scheduler"`
}

type schedulerInfo struct {
	State       snapshot.State `json:"state"`
	NextCapture time.Time      `json:"nextCapture"`
}

type applyOpsRequest struct {
	Operations []domain.SyncOperation `json:"operations"`
}

type applyOpsResponse struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// Status handles GET /api/v1/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending := h.sync.Pending()
	if pending == nil {
		pending = []string{}
	}

	writeJSON(w, http.StatusOK, syncStatusResponse{
		Status:       h.sync.Status(),
		PendingPaths: pending,
		DeviceID:     h.deviceID,
		Scheduler: schedulerInfo{
			State:       h.scheduler.CurrentState(),
			NextCapture: h.scheduler.NextCapture(h.clock.Now()),
		},
	})
}

// ApplyOperations handles POST /api/v1/sync/operations: a batch of
// operations recorded by a peer device, merged in order. Duplicates are
// counted as skipped; the first bad operation aborts the batch.
func (h *SyncHandler) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	var req applyOpsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Operations) == 0 {
		writeError(w, http.StatusBadRequest, "operations is empty")
		return
	}

	resp := applyOpsResponse{}
	for _, op := range req.Operations {
		applied, err := h.ops.Apply(op)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		if applied {
			resp.Applied++
		} else {
			resp.Skipped++
		}
	}

	h.log.InfoContext(r.Context(), "peer operations merged",
		slog.Int("applied", resp.Applied),
		slog.Int("skipped", resp.Skipped),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Flush handles POST /api/v1/sync/flush: push every queued write now
// instead of waiting for the retry cadence.
func (h *SyncHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.RetryPending(r.Context()); err != nil {
		// Still offline; report the state rather than an opaque error.
		writeJSON(w, http.StatusServiceUnavailable, syncStatusResponse{
			Status:       h.sync.Status(),
			PendingPaths: h.sync.Pending(),
			DeviceID:     h.deviceID,
			Scheduler: schedulerInfo{
				State:       h.scheduler.CurrentState(),
				NextCapture: h.scheduler.NextCapture(h.clock.Now()),
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
