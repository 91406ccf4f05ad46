package domain

import "time"

// InventoryItem is a live inventory line inside one rotation. It is owned
// exclusively by its rotation; CatalogID is a back-reference to the catalog
// record it was assigned from, not ownership.
type InventoryItem struct {
	ID           string    `json:"id"`
	CatalogID    *string   `json:"catalogId,omitempty"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	CurrentStock float64   `json:"currentStock"`
	MinLevel     float64   `json:"minLevel"`
	UnitCost     float64   `json:"unitCost"`
	LastUsedAt   time.Time `json:"lastUsedAt"`
	Fractional   bool      `json:"fractional"`
	CountedBy    string    `json:"countedBy,omitempty"`
}

// StockStatus classifies an item's stock level against its minimum.
type StockStatus string

const (
	StockStatusOK         StockStatus = "ok"
	StockStatusLow        StockStatus = "low"
	StockStatusCritical   StockStatus = "critical"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Status returns the stock classification. Critical means at or below half
// the minimum level; low means at or below the minimum level.
func (i InventoryItem) Status() StockStatus {
	switch {
	case i.CurrentStock <= 0:
		return StockStatusOutOfStock
	case i.CurrentStock <= i.MinLevel/2:
		return StockStatusCritical
	case i.CurrentStock <= i.MinLevel:
		return StockStatusLow
	}
	return StockStatusOK
}

// TotalValue is the current stock valued at the item's unit cost.
func (i InventoryItem) TotalValue() float64 {
	return i.CurrentStock * i.UnitCost
}
