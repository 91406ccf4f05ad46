package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/service/inventory"
)

// inventoryService defines the minimal interface needed by InventoryHandler.
type inventoryService interface {
	Catalog() []domain.CatalogItem
	RotationItems(rotation domain.Rotation) []domain.InventoryItem
	Activity() []domain.ActivityEntry
	Assign(ctx context.Context, input inventory.AssignInput) (*inventory.AssignResult, error)
	Unassign(ctx context.Context, catalogID string) error
	CleanupDuplicates(ctx context.Context) (*inventory.CleanupResult, error)
	UpdateStock(ctx context.Context, input inventory.UpdateStockInput) error
	ReportWaste(ctx context.Context, input inventory.ReportWasteInput) error
	AddCatalogItems(ctx context.Context, input inventory.AddCatalogInput) (*inventory.AddCatalogResult, error)
	RemoveCatalogItem(ctx context.Context, catalogID string) error
}

// InventoryHandler serves catalog, rotation, and activity endpoints.
type InventoryHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(svc inventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: logger.With("handler", "inventory")}
}

type assignRequest struct {
	CatalogIDs   []string `json:"catalogIds"`
	Rotation     string   `json:"rotation"`
	Category     string   `json:"category"`
	MinLevel     float64  `json:"minLevel"`
	InitialStock float64  `json:"initialStock"`
	Fractional   bool     `json:"fractional"`
}

type unassignRequest struct {
	CatalogID string `json:"catalogId"`
}

type stockRequest struct {
	NewStock float64 `json:"newStock"`
	Notes    string  `json:"notes"`
}

type wasteRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
	Notes  string  `json:"notes"`
}

type catalogRowRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	UnitCost     float64 `json:"unitCost"`
	ExternalCode string  `json:"externalCode"`
}

type addCatalogRequest struct {
	Items  []catalogRowRequest `json:"items"`
	Source string              `json:"source"`
}

// Catalog handles GET /api/v1/catalog.
func (h *InventoryHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog())
}

// AddCatalog handles POST /api/v1/catalog.
func (h *InventoryHandler) AddCatalog(w http.ResponseWriter, r *http.Request) {
	var req addCatalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := domain.ActivityManualAdd
	if req.Source == domain.ActivityImport.String() {
		source = domain.ActivityImport
	}

	items := make([]inventory.NewCatalogItem, 0, len(req.Items))
	for _, row := range req.Items {
		items = append(items, inventory.NewCatalogItem{
			ID:           row.ID,
			Name:         row.Name,
			Unit:         row.Unit,
			UnitCost:     row.UnitCost,
			ExternalCode: row.ExternalCode,
		})
	}

	result, err := h.svc.AddCatalogItems(r.Context(), inventory.AddCatalogInput{
		Items:  items,
		Source: source,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// RemoveCatalog handles DELETE /api/v1/catalog/{id}.
func (h *InventoryHandler) RemoveCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCatalogItem(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RotationItems handles GET /api/v1/rotations/{rotation}/items.
func (h *InventoryHandler) RotationItems(w http.ResponseWriter, r *http.Request) {
	rotation, err := domain.ParseRotation(r.PathValue("rotation"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.RotationItems(rotation))
}

// Assign handles POST /api/v1/assign.
func (h *InventoryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rotation, err := domain.ParseRotation(req.Rotation)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.svc.Assign(r.Context(), inventory.AssignInput{
		CatalogIDs:   req.CatalogIDs,
		Rotation:     rotation,
		Category:     req.Category,
		MinLevel:     req.MinLevel,
		InitialStock: req.InitialStock,
		Fractional:   req.Fractional,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Unassign handles POST /api/v1/unassign.
func (h *InventoryHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req unassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CatalogID == "" {
		writeError(w, http.StatusBadRequest, "catalogId is required")
		return
	}

	if err := h.svc.Unassign(r.Context(), req.CatalogID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Cleanup handles POST /api/v1/cleanup.
func (h *InventoryHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CleanupDuplicates(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStock handles POST /api/v1/rotations/{rotation}/items/{id}/stock.
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	rotation, err := domain.ParseRotation(r.PathValue("rotation"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.svc.UpdateStock(r.Context(), inventory.UpdateStockInput{
		ItemID:   r.PathValue("id"),
		Rotation: rotation,
		NewStock: req.NewStock,
		Notes:    req.Notes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReportWaste handles POST /api/v1/rotations/{rotation}/items/{id}/waste.
func (h *InventoryHandler) ReportWaste(w http.ResponseWriter, r *http.Request) {
	rotation, err := domain.ParseRotation(r.PathValue("rotation"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req wasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.svc.ReportWaste(r.Context(), inventory.ReportWasteInput{
		ItemID:   r.PathValue("id"),
		Rotation: rotation,
		Amount:   req.Amount,
		Reason:   req.Reason,
		Notes:    req.Notes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Activity handles GET /api/v1/activity?limit=N.
func (h *InventoryHandler) Activity(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Activity()

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	writeJSON(w, http.StatusOK, entries)
}
