package domain

import "time"

// DateLayout is the wire format for snapshot dates.
const DateLayout = "2006-01-02"

// DateOf formats a timestamp as a snapshot date key.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// SnapshotItem is the frozen valuation of one inventory line at capture
// time. All fields are copied by value from the live item, so later
// mutation of the live line never changes a past snapshot.
type SnapshotItem struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Rotation   Rotation `json:"rotation"`
	Stock      float64  `json:"stock"`
	Unit       string   `json:"unit"`
	UnitCost   float64  `json:"unitCost"`
	TotalValue float64  `json:"totalValue"`
	MinLevel   float64  `json:"minLevel"`
	CountedBy  string   `json:"countedBy,omitempty"`
}

// SnapshotSummary aggregates stock health for one snapshot.
type SnapshotSummary struct {
	Items      int     `json:"items"`
	OutOfStock int     `json:"outOfStock"`
	Critical   int     `json:"critical"`
	Low        int     `json:"low"`
	TotalValue float64 `json:"totalValue"`
}

// Snapshot is an immutable capture of inventory state for one date and
// rotation (or the combined view). It is created once and never updated
// in place; historical queries always return the captured values.
type Snapshot struct {
	Date       string                  `json:"date"`
	Rotation   Rotation                `json:"rotation"`
	CapturedAt time.Time               `json:"capturedAt"`
	CapturedBy string                  `json:"capturedBy,omitempty"`
	Items      map[string]SnapshotItem `json:"items"`
	Summary    SnapshotSummary         `json:"summary"`
}

// NewSnapshotItem freezes a live inventory line.
func NewSnapshotItem(it InventoryItem, rotation Rotation) SnapshotItem {
	return SnapshotItem{
		Name:       it.Name,
		Category:   it.Category,
		Rotation:   rotation,
		Stock:      it.CurrentStock,
		Unit:       it.Unit,
		UnitCost:   it.UnitCost,
		TotalValue: it.TotalValue(),
		MinLevel:   it.MinLevel,
		CountedBy:  it.CountedBy,
	}
}

// Summarize recomputes the summary from the snapshot's items.
func (s *Snapshot) Summarize() {
	sum := SnapshotSummary{Items: len(s.Items)}
	for _, it := range s.Items {
		sum.TotalValue += it.TotalValue
		switch {
		case it.Stock <= 0:
			sum.OutOfStock++
		case it.Stock <= it.MinLevel/2:
			sum.Critical++
		case it.Stock <= it.MinLevel:
			sum.Low++
		}
	}
	s.Summary = sum
}

// Clone returns a deep copy. Read paths hand out clones so callers can
// never mutate the stored record.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Items = make(map[string]SnapshotItem, len(s.Items))
	for id, it := range s.Items {
		out.Items[id] = it
	}
	return out
}
