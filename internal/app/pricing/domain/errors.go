package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Domain errors as sentinel values
var (
	// ErrValidation marks malformed price or rule data coming from storage.
	ErrValidation = errors.New("invalid pricing data")

	// ErrMissingBasePrice marks an ordered meal type without an active price.
	ErrMissingBasePrice = errors.New("missing base price")

	// ErrInvalidOrder marks a malformed order context supplied by the caller.
	ErrInvalidOrder = errors.New("invalid order")
)

// ValidationError describes a single rejected price or rule record.
type ValidationError struct {
	Entity   string // "meal_type_price" or "discount_rule"
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s %s", e.Entity, e.RecordID, e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PricingErrorKind classifies failures of a price computation.
type PricingErrorKind string

const (
	// MissingBasePrice means no active price exists for an ordered (plan, meal type).
	MissingBasePrice PricingErrorKind = "missing_base_price"
)

// PricingError is returned when a well-formed order cannot be priced.
type PricingError struct {
	Kind     PricingErrorKind
	PlanName string
	MealType string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("%s: no active price for plan %q meal type %q", e.Kind, e.PlanName, e.MealType)
}

// Is reports whether target is the sentinel for this error kind.
func (e *PricingError) Is(target error) bool {
	return e.Kind == MissingBasePrice && target == ErrMissingBasePrice
}

// OrderError describes why an order context was rejected.
type OrderError struct {
	Field  string
	Reason string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidOrder.
func (e *OrderError) Is(target error) bool {
	return target == ErrInvalidOrder
}
