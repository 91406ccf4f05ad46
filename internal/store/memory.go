// Package store holds the process-local mutable inventory state. The state
// is an explicit object injected into the services; only service methods
// mutate it, and every accessor returns copies so no caller can reach into
// the live maps.
package store

import (
	"sort"
	"sync"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// Memory is the in-process catalog, rotation, activity and snapshot store.
// All methods are safe for concurrent use; each completes its full
// read-modify-write cycle under the lock.
type Memory struct {
	mu        sync.RWMutex
	catalog   map[string]domain.CatalogItem
	rotations map[domain.Rotation]map[string]domain.InventoryItem
	activity  []domain.ActivityEntry
	snapshots map[string]domain.Snapshot
}

// NewMemory creates an empty store with all rotations initialized.
func NewMemory() *Memory {
	rotations := make(map[domain.Rotation]map[string]domain.InventoryItem, 3)
	for _, r := range domain.Rotations() {
		rotations[r] = make(map[string]domain.InventoryItem)
	}
	return &Memory{
		catalog:   make(map[string]domain.CatalogItem),
		rotations: rotations,
		snapshots: make(map[string]domain.Snapshot),
	}
}

func snapshotKey(date string, rotation domain.Rotation) string {
	return date + "|" + rotation.String()
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Catalog returns all catalog items sorted by name.
func (m *Memory) Catalog() []domain.CatalogItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.CatalogItem, 0, len(m.catalog))
	for _, it := range m.catalog {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// CatalogItem returns one catalog item by id.
func (m *Memory) CatalogItem(id string) (domain.CatalogItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.catalog[id]
	return it, ok
}

// PutCatalogItems inserts or replaces catalog items in one pass.
func (m *Memory) PutCatalogItems(items ...domain.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range items {
		m.catalog[it.ID] = it
	}
}

// RemoveCatalogItem deletes a catalog item. Returns false if absent.
func (m *Memory) RemoveCatalogItem(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.catalog[id]; !ok {
		return false
	}
	delete(m.catalog, id)
	return true
}

// ReplaceCatalog swaps in a full catalog, used when hydrating from the
// remote store at boot.
func (m *Memory) ReplaceCatalog(items []domain.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = make(map[string]domain.CatalogItem, len(items))
	for _, it := range items {
		m.catalog[it.ID] = it
	}
}

// ---------------------------------------------------------------------------
// Rotations
// ---------------------------------------------------------------------------

// RotationItems returns the live items of one rotation sorted by name.
func (m *Memory) RotationItems(rotation domain.Rotation) []domain.InventoryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket := m.rotations[rotation]
	items := make([]domain.InventoryItem, 0, len(bucket))
	for _, it := range bucket {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// RotationMap returns a copy of one rotation's item map, keyed by item id.
// The assignment service batch-reads all rotations through this before
// mutating anything.
func (m *Memory) RotationMap(rotation domain.Rotation) map[string]domain.InventoryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket := m.rotations[rotation]
	out := make(map[string]domain.InventoryItem, len(bucket))
	for id, it := range bucket {
		out[id] = it
	}
	return out
}

// CommitRotation replaces one rotation's contents wholesale.
func (m *Memory) CommitRotation(rotation domain.Rotation, items map[string]domain.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := make(map[string]domain.InventoryItem, len(items))
	for id, it := range items {
		bucket[id] = it
	}
	m.rotations[rotation] = bucket
}

// PutRotationItem inserts or replaces a single live item.
func (m *Memory) PutRotationItem(rotation domain.Rotation, item domain.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rotations[rotation][item.ID] = item
}

// ---------------------------------------------------------------------------
// Activity log
// ---------------------------------------------------------------------------

// AppendActivity appends one entry. Entries are never mutated or deleted.
func (m *Memory) AppendActivity(entry domain.ActivityEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity = append(m.activity, entry)
}

// Activity returns the log, most recent first.
func (m *Memory) Activity() []domain.ActivityEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ActivityEntry, len(m.activity))
	for i, e := range m.activity {
		out[len(m.activity)-1-i] = e
	}
	return out
}

// ReplaceActivity swaps in a persisted log (oldest first) at boot.
func (m *Memory) ReplaceActivity(entries []domain.ActivityEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity = append([]domain.ActivityEntry(nil), entries...)
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// Snapshot returns the capture for (date, rotation) as a deep copy.
func (m *Memory) Snapshot(date string, rotation domain.Rotation) (domain.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[snapshotKey(date, rotation)]
	if !ok {
		return domain.Snapshot{}, false
	}
	return s.Clone(), true
}

// HasSnapshot reports whether any capture exists for the date.
func (m *Memory) HasSnapshot(date string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.snapshots {
		if s.Date == date {
			return true
		}
	}
	return false
}

// PutSnapshot stores a capture. The snapshot service guarantees the key is
// not already present; the store itself never overwrites silently.
func (m *Memory) PutSnapshot(s domain.Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := snapshotKey(s.Date, s.Rotation)
	if _, exists := m.snapshots[key]; exists {
		return false
	}
	m.snapshots[key] = s.Clone()
	return true
}

// SnapshotDates returns the distinct capture dates, most recent first.
func (m *Memory) SnapshotDates() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var dates []string
	for _, s := range m.snapshots {
		if _, ok := seen[s.Date]; !ok {
			seen[s.Date] = struct{}{}
			dates = append(dates, s.Date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// DeleteSnapshotsBefore removes captures older than the cutoff date
// (exclusive) and returns how many records were pruned.
func (m *Memory) DeleteSnapshotsBefore(cutoff string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, s := range m.snapshots {
		if s.Date < cutoff {
			delete(m.snapshots, key)
			removed++
		}
	}
	return removed
}

// ReplaceSnapshots swaps in persisted captures at boot.
func (m *Memory) ReplaceSnapshots(snapshots []domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = make(map[string]domain.Snapshot, len(snapshots))
	for _, s := range snapshots {
		m.snapshots[snapshotKey(s.Date, s.Rotation)] = s.Clone()
	}
}
