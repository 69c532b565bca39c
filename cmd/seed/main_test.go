package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
)

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("catalog.yaml")
	require.NoError(t, err)

	require.Len(t, cat.Prices, 6)
	require.Len(t, cat.Rules, 4)
	assert.Equal(t, "65.5", cat.Prices[4].BasePrice.String())

	ramadan := cat.Rules[3]
	assert.Equal(t, "7.5", ramadan.Percentage.String())
	assert.True(t, ramadan.Stackable)
	require.NotNil(t, ramadan.ValidFrom)
	assert.Equal(t, time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), ramadan.ValidFrom.UTC())
}

func TestParseCatalog(t *testing.T) {
	t.Run("bare numbers", func(t *testing.T) {
		cat, err := parseCatalog([]byte(`
prices:
  - {id: p1, plan_name: Keto, meal_type: Lunch, base_price: 70.10, active: false}
`))
		require.NoError(t, err)
		assert.Equal(t, "70.1", cat.Prices[0].BasePrice.String())
		require.NotNil(t, cat.Prices[0].Active)
		assert.False(t, *cat.Prices[0].Active)
	})

	t.Run("invalid", func(t *testing.T) {
		for name, content := range map[string]string{
			"bad amount":        "prices: [{id: p1, plan_name: Keto, meal_type: Lunch, base_price: cheap}]",
			"missing meal":      "prices: [{id: p1, plan_name: Keto, base_price: 1}]",
			"missing rule type": "rules: [{id: r1, condition_value: 1, percentage: 1}]",
		} {
			_, err := parseCatalog([]byte(content))
			assert.Error(t, err, name)
		}
	})
}

func TestSpannerPlan(t *testing.T) {
	cat, err := loadCatalog("catalog.yaml")
	require.NoError(t, err)

	assert.Equal(t, 10, spannerPlan(cat, false).Count())
	assert.Equal(t, 10, spannerPlan(cat, true).Count())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(zaptest.NewLogger(t), time.Second),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestApplyGorm(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rules := repo.NewGormRuleRepository(db)

	cat, err := loadCatalog("catalog.yaml")
	require.NoError(t, err)

	require.NoError(t, applyGorm(db, cat, false))
	// Seeding twice updates in place.
	require.NoError(t, applyGorm(db, cat, false))

	keto := "Keto"
	prices, err := rules.ListActiveMealPrices(ctx, &keto)
	require.NoError(t, err)
	assert.Len(t, prices, 3)

	active, err := rules.ListActiveDiscountRules(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)

	require.NoError(t, applyGorm(db, cat, true))

	prices, err = rules.ListActiveMealPrices(ctx, &keto)
	require.NoError(t, err)
	assert.Empty(t, prices)

	var remaining int64
	require.NoError(t, db.Model(&repo.DiscountRuleRecord{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
