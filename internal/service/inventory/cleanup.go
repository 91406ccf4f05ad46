package inventory

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// CleanupDuplicates sweeps each rotation for live items sharing the same
// catalog back-reference, keeping the first occurrence (stable order) and
// removing the rest, and repairs catalog records left pointing at a
// rotation that no longer holds them. Idempotent: a second run right after
// the first removes nothing.
func (s *Service) CleanupDuplicates(ctx context.Context) (*CleanupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := CleanupResult{}
	// Which rotation actually holds each catalog id after the sweep.
	holders := make(map[string]domain.Rotation)

	for _, r := range domain.Rotations() {
		bucket := s.store.RotationMap(r)

		ids := make([]string, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		seen := make(map[string]string) // catalogID -> keeper item id
		dirty := false
		for _, id := range ids {
			it := bucket[id]
			if it.CatalogID == nil {
				continue
			}
			if _, dup := seen[*it.CatalogID]; dup {
				delete(bucket, id)
				result.DuplicatesRemoved++
				dirty = true
				continue
			}
			seen[*it.CatalogID] = id
			if prev, cross := holders[*it.CatalogID]; cross && prev != r {
				// Same catalog id held by an earlier rotation: the
				// earlier occurrence wins, this one is the duplicate.
				delete(bucket, id)
				result.DuplicatesRemoved++
				dirty = true
				delete(seen, *it.CatalogID)
				continue
			}
			holders[*it.CatalogID] = r
		}
		if dirty {
			s.store.CommitRotation(r, bucket)
			s.persistRotation(r)
		}
	}

	// Repair catalog records: assignment flags must agree with the
	// rotations that actually hold the items.
	catalogDirty := false
	for _, cat := range s.store.Catalog() {
		holder, held := holders[cat.ID]
		switch {
		case cat.Assigned && !held:
			cat.ClearAssignment()
			s.store.PutCatalogItems(cat)
			result.CatalogRepaired++
			catalogDirty = true
		case cat.Assigned && cat.AssignedRotation != nil && *cat.AssignedRotation != holder:
			rotation := holder
			cat.AssignedRotation = &rotation
			s.store.PutCatalogItems(cat)
			result.CatalogRepaired++
			catalogDirty = true
		}
	}
	if catalogDirty {
		s.persistCatalog()
	}

	if result.DuplicatesRemoved > 0 || result.CatalogRepaired > 0 {
		s.log.InfoContext(ctx, "duplicate cleanup",
			slog.Int("removed", result.DuplicatesRemoved),
			slog.Int("catalog_repaired", result.CatalogRepaired),
		)
	}
	return &result, nil
}
