package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// UpdateStock sets the counted stock level for one live item and appends a
// count-update entry to the activity log.
func (s *Service) UpdateStock(ctx context.Context, input UpdateStockInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if input.NewStock < 0 {
		return fmt.Errorf("stock %v would be negative: %w", input.NewStock, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.findItem(input.Rotation, input.ItemID)
	if !ok {
		return fmt.Errorf("item %s in rotation %s: %w", input.ItemID, input.Rotation, domain.ErrNotFound)
	}

	actor := actorFrom(ctx)
	now := s.clock.Now()
	delta := input.NewStock - item.CurrentStock

	item.CurrentStock = input.NewStock
	item.LastUsedAt = now
	item.CountedBy = actor
	s.store.PutRotationItem(input.Rotation, item)
	s.persistRotation(input.Rotation)

	s.appendActivity(domain.ActivityEntry{
		ID:        uuid.New().String(),
		Timestamp: now,
		Kind:      domain.ActivityCountUpdate,
		ItemName:  item.Name,
		Quantity:  input.NewStock,
		Delta:     delta,
		Unit:      item.Unit,
		Employee:  actor,
		Notes:     input.Notes,
	})

	s.record(ctx, domain.OpUpdateStock, input.Rotation, item.ID, item)

	s.log.InfoContext(ctx, "stock updated",
		slog.String("item", item.Name),
		slog.String("rotation", input.Rotation.String()),
		slog.Float64("stock", input.NewStock),
		slog.Float64("delta", delta),
		slog.String("actor", actor),
	)
	return nil
}

// ReportWaste decrements stock for spoilage or loss. The amount must be
// positive and must not exceed the current stock; a rejected report leaves
// state unchanged.
func (s *Service) ReportWaste(ctx context.Context, input ReportWasteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if input.Amount <= 0 {
		return fmt.Errorf("waste amount %v must be positive: %w", input.Amount, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.findItem(input.Rotation, input.ItemID)
	if !ok {
		return fmt.Errorf("item %s in rotation %s: %w", input.ItemID, input.Rotation, domain.ErrNotFound)
	}

	if input.Amount > item.CurrentStock {
		return fmt.Errorf("waste %v exceeds stock %v: %w",
			input.Amount, item.CurrentStock, domain.ErrInvalidQuantity)
	}

	actor := actorFrom(ctx)
	now := s.clock.Now()

	item.CurrentStock -= input.Amount
	item.LastUsedAt = now
	s.store.PutRotationItem(input.Rotation, item)
	s.persistRotation(input.Rotation)

	s.appendActivity(domain.ActivityEntry{
		ID:        uuid.New().String(),
		Timestamp: now,
		Kind:      domain.ActivityWaste,
		ItemName:  item.Name,
		Quantity:  input.Amount,
		Delta:     -input.Amount,
		Unit:      item.Unit,
		Employee:  actor,
		Notes:     input.Notes,
		Reason:    input.Reason,
	})

	s.record(ctx, domain.OpReportWaste, input.Rotation, item.ID, item)

	s.log.InfoContext(ctx, "waste reported",
		slog.String("item", item.Name),
		slog.String("rotation", input.Rotation.String()),
		slog.Float64("amount", input.Amount),
		slog.String("reason", input.Reason),
		slog.String("actor", actor),
	)
	return nil
}

// findItem looks up a live item by id, comparing string forms so ids that
// arrived through JSON as numbers still match.
func (s *Service) findItem(rotation domain.Rotation, itemID string) (domain.InventoryItem, bool) {
	want := strings.TrimSpace(itemID)
	for _, it := range s.store.RotationItems(rotation) {
		if strings.TrimSpace(it.ID) == want {
			return it, true
		}
	}
	return domain.InventoryItem{}, false
}

func (s *Service) appendActivity(entry domain.ActivityEntry) {
	s.store.AppendActivity(entry)
	s.persistActivity()
}
