package repo

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/models/m_discount_rule"
	"github.com/light-bringer/mealprice-service/internal/models/m_meal_price"
)

func TestActiveMealPricesQuery(t *testing.T) {
	plan := "Weight Loss"
	stmt := activeMealPricesQuery(m_meal_price.NewModel(), &plan).Build()

	assert.Contains(t, stmt.SQL, "FROM meal_type_prices")
	assert.Contains(t, stmt.SQL, "price_id AS id")
	assert.Contains(t, stmt.SQL, "ORDER BY price_id")
	assert.Len(t, stmt.Params, 2)
	assert.Contains(t, stmt.Params, "p1")

	all := activeMealPricesQuery(m_meal_price.NewModel(), nil).Build()
	assert.NotContains(t, all.SQL, "plan_name =")
	assert.Len(t, all.Params, 1)
}

func TestActiveDiscountRulesQuery(t *testing.T) {
	stmt := activeDiscountRulesQuery(m_discount_rule.NewModel()).Build()

	assert.Contains(t, stmt.SQL, "FROM discount_rules")
	assert.Contains(t, stmt.SQL, "rule_id AS id")
	assert.Contains(t, stmt.SQL, "ORDER BY rule_id")
	assert.Equal(t, true, stmt.Params["p0"])
}

func TestRowToRecord(t *testing.T) {
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row, err := spanner.NewRow(
		[]string{"id", "discount_type", "condition_value", "discount_percentage", "is_stackable", "is_active", "valid_from", "valid_to"},
		[]interface{}{
			"42",
			"duration",
			big.NewRat(20, 1),
			big.NewRat(25, 2),
			true,
			true,
			validFrom,
			spanner.NullTime{},
		},
	)
	require.NoError(t, err)

	rec, err := rowToRecord(row)
	require.NoError(t, err)
	assert.Equal(t, "42", rec[domain.RuleFieldID])
	assert.Equal(t, true, rec[domain.RuleFieldIsStackable])
	assert.Nil(t, rec[domain.RuleFieldValidTo])

	rules, err := services.NewNormalizer().NormalizeDiscountRules([]domain.RawRecord{rec})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "12.5", rules[0].Percentage.String())
	assert.Equal(t, "20", rules[0].ConditionValue.String())
	require.NotNil(t, rules[0].ValidFrom)
	assert.True(t, rules[0].ValidFrom.Equal(validFrom))
	assert.Nil(t, rules[0].ValidTo)
}
