package engine

import "fmt"

// InvalidSubmission means an order was syntactically well-formed but
// illegal for the unit, phase, or user that submitted it.
type InvalidSubmission struct {
	Order   Order
	Message string
}

func (e *InvalidSubmission) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.Describe(), e.Message)
}

// NotFoundError means no game/province/unit/country exists with the given id.
type NotFoundError struct {
	Kind string // "province", "unit", "country", "game"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// PermissionError means the submitting user does not own the affected country.
type PermissionError struct {
	User    string
	Country string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s does not control %s", e.User, e.Country)
}

// InvalidStateError means the requested operation is incompatible with
// the game's current phase.
type InvalidStateError struct {
	Phase   Phase
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid for phase %s: %s", e.Phase, e.Message)
}

// MapError means the map descriptor is corrupt or internally inconsistent.
type MapError struct {
	Message string
}

func (e *MapError) Error() string { return "map error: " + e.Message }

// InternalError signals an invariant violation — a bug, never a
// legal-but-failing order. The adjudicator never returns this for
// ordinary legal input.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "internal invariant violation: " + e.Message }
