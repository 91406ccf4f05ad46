package rest

import (
	"context"
	"time"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/persist"
	"github.com/ovenlight/prepstock-backend/internal/service/inventory"
	"github.com/ovenlight/prepstock-backend/internal/service/snapshot"
)

// inventoryServiceMock is a mock implementation of inventoryService.
type inventoryServiceMock struct {
	CatalogFunc           func() []domain.CatalogItem
	RotationItemsFunc     func(rotation domain.Rotation) []domain.InventoryItem
	ActivityFunc          func() []domain.ActivityEntry
	AssignFunc            func(ctx context.Context, input inventory.AssignInput) (*inventory.AssignResult, error)
	UnassignFunc          func(ctx context.Context, catalogID string) error
	CleanupDuplicatesFunc func(ctx context.Context) (*inventory.CleanupResult, error)
	UpdateStockFunc       func(ctx context.Context, input inventory.UpdateStockInput) error
	ReportWasteFunc       func(ctx context.Context, input inventory.ReportWasteInput) error
	AddCatalogItemsFunc   func(ctx context.Context, input inventory.AddCatalogInput) (*inventory.AddCatalogResult, error)
	RemoveCatalogItemFunc func(ctx context.Context, catalogID string) error
}

func (m *inventoryServiceMock) Catalog() []domain.CatalogItem {
	if m.CatalogFunc == nil {
		return nil
	}
	return m.CatalogFunc()
}

func (m *inventoryServiceMock) RotationItems(rotation domain.Rotation) []domain.InventoryItem {
	if m.RotationItemsFunc == nil {
		return nil
	}
	return m.RotationItemsFunc(rotation)
}

func (m *inventoryServiceMock) Activity() []domain.ActivityEntry {
	if m.ActivityFunc == nil {
		return nil
	}
	return m.ActivityFunc()
}

func (m *inventoryServiceMock) Assign(ctx context.Context, input inventory.AssignInput) (*inventory.AssignResult, error) {
	return m.AssignFunc(ctx, input)
}

func (m *inventoryServiceMock) Unassign(ctx context.Context, catalogID string) error {
	return m.UnassignFunc(ctx, catalogID)
}

func (m *inventoryServiceMock) CleanupDuplicates(ctx context.Context) (*inventory.CleanupResult, error) {
	return m.CleanupDuplicatesFunc(ctx)
}

func (m *inventoryServiceMock) UpdateStock(ctx context.Context, input inventory.UpdateStockInput) error {
	return m.UpdateStockFunc(ctx, input)
}

func (m *inventoryServiceMock) ReportWaste(ctx context.Context, input inventory.ReportWasteInput) error {
	return m.ReportWasteFunc(ctx, input)
}

func (m *inventoryServiceMock) AddCatalogItems(ctx context.Context, input inventory.AddCatalogInput) (*inventory.AddCatalogResult, error) {
	return m.AddCatalogItemsFunc(ctx, input)
}

func (m *inventoryServiceMock) RemoveCatalogItem(ctx context.Context, catalogID string) error {
	return m.RemoveCatalogItemFunc(ctx, catalogID)
}

// snapshotServiceMock is a mock implementation of snapshotService.
type snapshotServiceMock struct {
	CaptureFunc     func(ctx context.Context, date string, rotations []domain.Rotation) (*snapshot.CaptureResult, error)
	ListDatesFunc   func() []string
	GetRotationFunc func(date string, rotation domain.Rotation) (domain.Snapshot, bool)
	QueryFunc       func(date string) (*snapshot.QueryResult, error)
}

func (m *snapshotServiceMock) Capture(ctx context.Context, date string, rotations []domain.Rotation) (*snapshot.CaptureResult, error) {
	return m.CaptureFunc(ctx, date, rotations)
}

func (m *snapshotServiceMock) ListDates() []string {
	if m.ListDatesFunc == nil {
		return nil
	}
	return m.ListDatesFunc()
}

func (m *snapshotServiceMock) GetRotation(date string, rotation domain.Rotation) (domain.Snapshot, bool) {
	return m.GetRotationFunc(date, rotation)
}

func (m *snapshotServiceMock) Query(date string) (*snapshot.QueryResult, error) {
	return m.QueryFunc(date)
}

// synchronizerMock is a mock implementation of synchronizer.
type synchronizerMock struct {
	status  persist.Status
	pending []string
	retry   error
}

func (m *synchronizerMock) Status() persist.Status { return m.status }

func (m *synchronizerMock) Pending() []string { return m.pending }

func (m *synchronizerMock) RetryPending(context.Context) error { return m.retry }

// opApplierMock is a mock implementation of opApplier.
type opApplierMock struct {
	ApplyFunc func(op domain.SyncOperation) (bool, error)
}

func (m *opApplierMock) Apply(op domain.SyncOperation) (bool, error) {
	return m.ApplyFunc(op)
}

// schedulerMock is a mock implementation of captureScheduler.
type schedulerMock struct {
	state snapshot.State
	next  time.Time
}

func (m *schedulerMock) CurrentState() snapshot.State { return m.state }

func (m *schedulerMock) NextCapture(time.Time) time.Time { return m.next }

// tokenMinterMock is a mock implementation of tokenMinter.
type tokenMinterMock struct {
	GenerateTokenFunc func(employee string) (string, error)
}

func (m *tokenMinterMock) GenerateToken(employee string) (string, error) {
	return m.GenerateTokenFunc(employee)
}
