package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/store"
)

// hydrate loads the persisted state from the remote store into local
// memory. A missing document just means the restaurant has not written
// that piece yet; any other failure aborts startup, because running
// against a reachable-but-broken store would fork history.
func hydrate(ctx context.Context, log *slog.Logger, r remote.Reader, st *store.Memory) error {
	var catalog []domain.CatalogItem
	if err := load(ctx, r, remote.CatalogPath, &catalog); err != nil {
		return fmt.Errorf("hydrate catalog: %w", err)
	}
	st.ReplaceCatalog(catalog)

	items := 0
	for _, rotation := range domain.Rotations() {
		var list []domain.InventoryItem
		if err := load(ctx, r, remote.InventoryPath(rotation), &list); err != nil {
			return fmt.Errorf("hydrate rotation %s: %w", rotation, err)
		}
		bucket := make(map[string]domain.InventoryItem, len(list))
		for _, it := range list {
			bucket[it.ID] = it
		}
		st.CommitRotation(rotation, bucket)
		items += len(list)
	}

	// The activity document is stored most recent first; the store keeps
	// it in append order.
	var activity []domain.ActivityEntry
	if err := load(ctx, r, remote.ActivityPath, &activity); err != nil {
		return fmt.Errorf("hydrate activity: %w", err)
	}
	slices.Reverse(activity)
	st.ReplaceActivity(activity)

	docs, err := r.List(ctx, "snapshots/")
	if err != nil {
		return fmt.Errorf("hydrate snapshots: %w", err)
	}
	snapshots := make([]domain.Snapshot, 0, len(docs))
	for _, doc := range docs {
		var snap domain.Snapshot
		if err := json.Unmarshal(doc.Value, &snap); err != nil {
			return fmt.Errorf("hydrate snapshot %s: %w", doc.Path, err)
		}
		snapshots = append(snapshots, snap)
	}
	st.ReplaceSnapshots(snapshots)

	log.InfoContext(ctx, "state hydrated",
		slog.Int("catalog_items", len(catalog)),
		slog.Int("live_items", items),
		slog.Int("activity_entries", len(activity)),
		slog.Int("snapshots", len(snapshots)),
	)
	return nil
}

// load reads one document, treating "not found" as an empty value.
func load(ctx context.Context, r remote.Reader, path string, dest any) error {
	err := r.Load(ctx, path, dest)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
