package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// AddCatalogItems inserts catalog rows from an import or a manual add.
// Rows carrying an id that is already taken get a fresh one; rows without
// an id get one generated.
func (s *Service) AddCatalogItems(ctx context.Context, input AddCatalogInput) (*AddCatalogResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actor := actorFrom(ctx)
	now := s.clock.Now()
	result := AddCatalogResult{}

	added := make([]domain.CatalogItem, 0, len(input.Items))
	taken := make(map[string]struct{}, len(input.Items))
	for _, row := range input.Items {
		id := row.ID
		_, exists := s.store.CatalogItem(id)
		_, inBatch := taken[id]
		if id == "" || exists || inBatch {
			if id != "" {
				result.ReassignedIDs++
			}
			id = uuid.New().String()
		}
		taken[id] = struct{}{}

		added = append(added, domain.CatalogItem{
			ID:           id,
			Name:         row.Name,
			Unit:         row.Unit,
			UnitCost:     row.UnitCost,
			ExternalCode: row.ExternalCode,
			CreatedAt:    now,
		})
		result.Added++
	}

	s.store.PutCatalogItems(added...)
	s.persistCatalog()

	for _, it := range added {
		s.appendActivity(domain.ActivityEntry{
			ID:        uuid.New().String(),
			Timestamp: now,
			Kind:      input.Source,
			ItemName:  it.Name,
			Unit:      it.Unit,
			Employee:  actor,
		})
	}

	s.record(ctx, domain.OpImport, "", "", added)

	s.log.InfoContext(ctx, "catalog items added",
		slog.Int("added", result.Added),
		slog.Int("reassigned_ids", result.ReassignedIDs),
		slog.String("source", input.Source.String()),
		slog.String("actor", actor),
	)
	return &result, nil
}

// RemoveCatalogItem deletes a catalog record and cascades to any live item
// referencing it.
func (s *Service) RemoveCatalogItem(ctx context.Context, catalogID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.CatalogItem(catalogID); !ok {
		return fmt.Errorf("catalog item %s: %w", catalogID, domain.ErrNotFound)
	}

	for _, r := range domain.Rotations() {
		bucket := s.store.RotationMap(r)
		dirty := false
		for id, it := range bucket {
			if it.CatalogID != nil && *it.CatalogID == catalogID {
				delete(bucket, id)
				dirty = true
			}
		}
		if dirty {
			s.store.CommitRotation(r, bucket)
			s.persistRotation(r)
		}
	}

	s.store.RemoveCatalogItem(catalogID)
	s.persistCatalog()

	s.record(ctx, domain.OpRemove, "", catalogID, nil)

	s.log.InfoContext(ctx, "catalog item removed", slog.String("catalog_id", catalogID))
	return nil
}
