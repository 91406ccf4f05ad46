package inventory

import (
	"strconv"
	"strings"

	"github.com/ovenlight/prepstock-backend/internal/domain"
)

// AssignInput moves catalog items into one rotation.
type AssignInput struct {
	CatalogIDs   []string
	Rotation     domain.Rotation
	Category     string
	MinLevel     float64
	InitialStock float64
	Fractional   bool
}

// Validate checks the input and fails loudly on an empty id list, the
// caller-visible failure the assignment contract requires.
func (in AssignInput) Validate() error {
	var errs []domain.FieldError
	if len(in.CatalogIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "catalogIds", Message: "at least one catalog id is required"})
	}
	if !in.Rotation.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rotation", Message: "unknown rotation"})
	}
	if in.MinLevel < 0 {
		errs = append(errs, domain.FieldError{Field: "minLevel", Message: "must not be negative"})
	}
	if in.InitialStock < 0 {
		errs = append(errs, domain.FieldError{Field: "initialStock", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateStockInput sets a new counted stock level for one live item.
type UpdateStockInput struct {
	ItemID   string
	Rotation domain.Rotation
	NewStock float64
	Notes    string
}

func (in UpdateStockInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.ItemID) == "" {
		errs = append(errs, domain.FieldError{Field: "itemId", Message: "is required"})
	}
	if !in.Rotation.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rotation", Message: "unknown rotation"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReportWasteInput records spoilage or loss against one live item.
type ReportWasteInput struct {
	ItemID   string
	Rotation domain.Rotation
	Amount   float64
	Reason   string
	Notes    string
}

func (in ReportWasteInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.ItemID) == "" {
		errs = append(errs, domain.FieldError{Field: "itemId", Message: "is required"})
	}
	if !in.Rotation.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rotation", Message: "unknown rotation"})
	}
	if strings.TrimSpace(in.Reason) == "" {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// NewCatalogItem is one row of a manual add or file import.
type NewCatalogItem struct {
	ID           string
	Name         string
	Unit         string
	UnitCost     float64
	ExternalCode string
}

// AddCatalogInput adds catalog rows from an import or manual entry.
type AddCatalogInput struct {
	Items  []NewCatalogItem
	Source domain.ActivityKind // ActivityImport or ActivityManualAdd
}

func (in AddCatalogInput) Validate() error {
	var errs []domain.FieldError
	if len(in.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "at least one item is required"})
	}
	if in.Source != domain.ActivityImport && in.Source != domain.ActivityManualAdd {
		errs = append(errs, domain.FieldError{Field: "source", Message: "must be import or manual_add"})
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, domain.FieldError{Field: "items", Message: "item " + strconv.Itoa(i) + " has no name"})
		}
		if it.UnitCost < 0 {
			errs = append(errs, domain.FieldError{Field: "items", Message: "item " + strconv.Itoa(i) + " has negative unit cost"})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
