package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// OpType identifies the kind of mutating action a SyncOperation records.
type OpType string

const (
	OpAssign      OpType = "assign"
	OpUnassign    OpType = "unassign"
	OpUpdateStock OpType = "update_stock"
	OpReportWaste OpType = "report_waste"
	OpImport      OpType = "import"
	OpRemove      OpType = "remove"
)

func (t OpType) String() string { return string(t) }

func (t OpType) IsValid() bool {
	switch t {
	case OpAssign, OpUnassign, OpUpdateStock, OpReportWaste, OpImport, OpRemove:
		return true
	}
	return false
}

// SyncOperation is one record in the advisory cross-device operation log.
// The log is not a source of truth: the authoritative state lives in the
// catalog and rotation stores, and applying the same operation twice on a
// receiving device must be a no-op.
type SyncOperation struct {
	Type      OpType          `json:"type"`
	Rotation  Rotation        `json:"rotation,omitempty"`
	ItemID    string          `json:"itemId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Actor     string          `json:"actor"`
	DeviceID  string          `json:"deviceId"`
}

// Key is the dedupe tuple for duplicate-delivery detection.
func (op SyncOperation) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", op.Timestamp.UnixNano(), op.DeviceID, op.Type, op.ItemID)
}
