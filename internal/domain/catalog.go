package domain

import "time"

// CatalogItem is a master-data record in the unassigned pool. It represents
// a purchasable product independent of any rotation; assignment links it to
// at most one live InventoryItem across all rotations.
type CatalogItem struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Unit             string     `json:"unit"`
	UnitCost         float64    `json:"unitCost"`
	ExternalCode     string     `json:"externalCode,omitempty"`
	Assigned         bool       `json:"assigned"`
	AssignedRotation *Rotation  `json:"assignedRotation,omitempty"`
	AssignedCategory *string    `json:"assignedCategory,omitempty"`
	AssignedAt       *time.Time `json:"assignedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ClearAssignment resets the assignment fields to the unassigned state.
func (c *CatalogItem) ClearAssignment() {
	c.Assigned = false
	c.AssignedRotation = nil
	c.AssignedCategory = nil
	c.AssignedAt = nil
}
