package m_discount_rule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_rules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts or replaces a rule row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			RuleID,
			DiscountType,
			ConditionValue,
			DiscountPercentage,
			IsStackable,
			IsActive,
			ValidFrom,
			ValidTo,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.RuleID,
			data.DiscountType,
			data.ConditionValue,
			data.DiscountPercentage,
			data.IsStackable,
			data.IsActive,
			data.ValidFrom,
			data.ValidTo,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting a rule.
func (m *Model) DeleteMut(ruleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{ruleID})
}

// RecordColumns returns the select list that yields normalizer field names.
func (m *Model) RecordColumns() []string {
	return []string{
		RuleID + " AS id",
		DiscountType,
		ConditionValue,
		DiscountPercentage,
		IsStackable,
		IsActive,
		ValidFrom,
		ValidTo,
	}
}
