package domain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Entity: EntityDiscountRule, RecordID: "7", Field: RuleFieldPercentage, Reason: "must be between 0 and 100"}

	assert.Equal(t, "invalid discount_rule 7: discount_percentage must be between 0 and 100", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrMissingBasePrice)

	wrapped := errors.Wrap(err, "failed to load snapshot")
	assert.True(t, errors.Is(wrapped, ErrValidation))

	var vErr *ValidationError
	require.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, "7", vErr.RecordID)
}

func TestPricingError(t *testing.T) {
	err := &PricingError{Kind: MissingBasePrice, PlanName: "Keto", MealType: "Snack"}

	assert.ErrorIs(t, err, ErrMissingBasePrice)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `meal type "Snack"`)
}

func TestOrderError(t *testing.T) {
	err := &OrderError{Field: "plan_name", Reason: "is required"}

	assert.ErrorIs(t, err, ErrInvalidOrder)
	assert.Equal(t, "invalid order: plan_name is required", err.Error())
}
