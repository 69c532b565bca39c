package validator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	MealType string `json:"meal_type" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

type request struct {
	PlanName string `json:"plan_name" validate:"required"`
	Lines    []line `json:"lines" validate:"required,min=1,dive"`
	Ignored  string `json:"-"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := Struct(request{PlanName: "Keto", Lines: []line{{MealType: "Lunch", Quantity: 2}}})
		assert.NoError(t, err)
	})

	t.Run("fields are reported by json name", func(t *testing.T) {
		err := Struct(request{Lines: []line{{MealType: "", Quantity: 0}}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRequest))

		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, map[string]string{
			"plan_name":          "failed required",
			"lines[0].meal_type": "failed required",
			"lines[0].quantity":  "failed gt=0",
		}, reqErr.Fields)
		assert.Equal(t,
			"invalid request: lines[0].meal_type: failed required; lines[0].quantity: failed gt=0; plan_name: failed required",
			err.Error())
	})

	t.Run("empty lines", func(t *testing.T) {
		err := Struct(request{PlanName: "Keto"})

		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Contains(t, reqErr.Fields, "lines")
	})
}
