package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// Assign moves the given catalog items into the target rotation.
//
// All three rotations are read once at the start of the call and mutated as
// in-memory maps; a rotation is committed back only if its contents actually
// changed. Processing catalog ids one at a time against stale rotation reads
// is exactly how duplicate items appear under rapid sequential calls, so the
// whole batch runs against the same read set.
//
// Per catalog id:
//   - already in the target rotation: the existing item is updated in place
//     (category, min level, stock, fractional flag) and no new item is made;
//   - in a different rotation: every live item referencing the catalog id is
//     removed first, then exactly one new item is created in the target;
//   - unassigned: exactly one new item is created in the target.
func (s *Service) Assign(ctx context.Context, input AssignInput) (*AssignResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets := make([]domain.CatalogItem, 0, len(input.CatalogIDs))
	for _, id := range input.CatalogIDs {
		if cat, ok := s.store.CatalogItem(id); ok {
			targets = append(targets, cat)
		}
	}
	if len(targets) == 0 {
		return nil, domain.NewValidationError("catalogIds", "no matching catalog items")
	}

	// One batch read of every rotation.
	rotations := make(map[domain.Rotation]map[string]domain.InventoryItem, 3)
	changed := make(map[domain.Rotation]bool, 3)
	for _, r := range domain.Rotations() {
		rotations[r] = s.store.RotationMap(r)
	}

	now := s.clock.Now()
	actor := actorFrom(ctx)
	result := AssignResult{}
	updatedCatalog := make([]domain.CatalogItem, 0, len(targets))
	recorded := make([]domain.InventoryItem, 0, len(targets))

	for _, cat := range targets {
		// Remove the item from every rotation other than the target.
		// An item must never be linked from two rotations, even
		// transiently, so this also sweeps pre-existing duplicates.
		for _, r := range domain.Rotations() {
			if r == input.Rotation {
				continue
			}
			for id, it := range rotations[r] {
				if it.CatalogID != nil && *it.CatalogID == cat.ID {
					delete(rotations[r], id)
					changed[r] = true
				}
			}
		}

		if existingID, ok := findByCatalogID(rotations[input.Rotation], cat.ID); ok {
			item := rotations[input.Rotation][existingID]
			item.Category = input.Category
			item.MinLevel = input.MinLevel
			item.CurrentStock = input.InitialStock
			item.Fractional = input.Fractional
			item.LastUsedAt = now
			rotations[input.Rotation][existingID] = item
			recorded = append(recorded, item)
			result.Updated++
		} else {
			catalogID := cat.ID
			item := domain.InventoryItem{
				ID:           newItemID(),
				CatalogID:    &catalogID,
				Name:         cat.Name,
				Category:     input.Category,
				Unit:         cat.Unit,
				CurrentStock: input.InitialStock,
				MinLevel:     input.MinLevel,
				UnitCost:     cat.UnitCost,
				LastUsedAt:   now,
				Fractional:   input.Fractional,
				CountedBy:    actor,
			}
			rotations[input.Rotation][item.ID] = item
			recorded = append(recorded, item)
			result.Assigned++
		}
		changed[input.Rotation] = true

		rotation := input.Rotation
		category := input.Category
		assignedAt := now
		cat.Assigned = true
		cat.AssignedRotation = &rotation
		cat.AssignedCategory = &category
		cat.AssignedAt = &assignedAt
		updatedCatalog = append(updatedCatalog, cat)
	}

	// Commit only the rotations that actually changed.
	for _, r := range domain.Rotations() {
		if changed[r] {
			s.store.CommitRotation(r, rotations[r])
			s.persistRotation(r)
		}
	}

	// Catalog assignment fields for all affected ids in one pass.
	s.store.PutCatalogItems(updatedCatalog...)
	s.persistCatalog()

	for _, item := range recorded {
		s.record(ctx, domain.OpAssign, input.Rotation, item.ID, item)
	}

	s.log.InfoContext(ctx, "catalog items assigned",
		slog.String("rotation", input.Rotation.String()),
		slog.Int("assigned", result.Assigned),
		slog.Int("updated", result.Updated),
		slog.String("actor", actor),
	)

	return &result, nil
}

// Unassign removes every live item referencing catalogID across all
// rotations (pre-existing duplicate corruption included) and clears the
// catalog item's assignment fields. Returns domain.ErrNotFound if the item
// was not assigned.
func (s *Service) Unassign(ctx context.Context, catalogID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, catExists := s.store.CatalogItem(catalogID)

	removed := 0
	for _, r := range domain.Rotations() {
		bucket := s.store.RotationMap(r)
		dirty := false
		for id, it := range bucket {
			if it.CatalogID != nil && *it.CatalogID == catalogID {
				delete(bucket, id)
				dirty = true
				removed++
			}
		}
		if dirty {
			s.store.CommitRotation(r, bucket)
			s.persistRotation(r)
		}
	}

	if removed == 0 && (!catExists || !cat.Assigned) {
		return fmt.Errorf("catalog item %s is not assigned: %w", catalogID, domain.ErrNotFound)
	}

	if catExists {
		cat.ClearAssignment()
		s.store.PutCatalogItems(cat)
		s.persistCatalog()
	}

	s.record(ctx, domain.OpUnassign, "", catalogID, nil)

	s.log.InfoContext(ctx, "catalog item unassigned",
		slog.String("catalog_id", catalogID),
		slog.Int("removed_items", removed),
	)
	return nil
}

// findByCatalogID returns the id of the first live item referencing
// catalogID, in insertion-independent deterministic order.
func findByCatalogID(bucket map[string]domain.InventoryItem, catalogID string) (string, bool) {
	best := ""
	for id, it := range bucket {
		if it.CatalogID == nil || *it.CatalogID != catalogID {
			continue
		}
		if best == "" || id < best {
			best = id
		}
	}
	return best, best != ""
}
