package m_meal_price

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the meal_type_prices table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts or replaces a price row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{PriceID, PlanName, MealType, BasePrice, IsActive, CreatedAt, UpdatedAt},
		[]interface{}{
			data.PriceID,
			data.PlanName,
			data.MealType,
			data.BasePrice,
			data.IsActive,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// DeactivateMut creates a mutation that flips is_active off for a price row.
func (m *Model) DeactivateMut(priceID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{PriceID, IsActive, UpdatedAt},
		[]interface{}{priceID, false, spanner.CommitTimestamp},
	)
}

// RecordColumns returns the select list that yields normalizer field names.
func (m *Model) RecordColumns() []string {
	return []string{
		PriceID + " AS id",
		PlanName,
		MealType,
		BasePrice,
		IsActive,
	}
}
