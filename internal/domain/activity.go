package domain

import "time"

// ActivityKind categorizes an activity log entry.
type ActivityKind string

const (
	ActivityCountUpdate ActivityKind = "count_update"
	ActivityWaste       ActivityKind = "waste"
	ActivityImport      ActivityKind = "import"
	ActivityManualAdd   ActivityKind = "manual_add"
)

func (k ActivityKind) String() string { return string(k) }

func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityCountUpdate, ActivityWaste, ActivityImport, ActivityManualAdd:
		return true
	}
	return false
}

// ActivityEntry is one append-only record of a mutating action. Entries are
// never updated or deleted; retention is an external policy.
type ActivityEntry struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Kind      ActivityKind `json:"kind"`
	ItemName  string       `json:"itemName"`
	Quantity  float64      `json:"quantity"`
	Delta     float64      `json:"delta,omitempty"`
	Unit      string       `json:"unit"`
	Employee  string       `json:"employee"`
	Notes     string       `json:"notes,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}
