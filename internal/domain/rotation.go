package domain

import "fmt"

// Rotation is the usage cycle an inventory item is counted on.
type Rotation string

const (
	RotationDaily   Rotation = "daily"
	RotationWeekly  Rotation = "weekly"
	RotationMonthly Rotation = "monthly"
)

// RotationCombined is not a real rotation: it keys the merged snapshot
// that covers all three rotations at once.
const RotationCombined Rotation = "combined"

func (r Rotation) String() string { return string(r) }

func (r Rotation) IsValid() bool {
	switch r {
	case RotationDaily, RotationWeekly, RotationMonthly:
		return true
	}
	return false
}

// Rotations returns all real rotations in their fixed order.
func Rotations() []Rotation {
	return []Rotation{RotationDaily, RotationWeekly, RotationMonthly}
}

// ParseRotation converts a string into a Rotation.
func ParseRotation(s string) (Rotation, error) {
	r := Rotation(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown rotation %q", ErrValidation, s)
	}
	return r, nil
}
