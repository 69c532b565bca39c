package repo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// MealTypePriceRecord is the storefront table of base prices, as seen by gorm.
type MealTypePriceRecord struct {
	ID        string          `gorm:"primaryKey;size:36"`
	PlanName  string          `gorm:"size:100;not null;index:idx_meal_type_prices_plan"`
	MealType  string          `gorm:"size:50;not null"`
	BasePrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsActive  bool            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MealTypePriceRecord) TableName() string { return "meal_type_prices" }

// DiscountRuleRecord is the storefront table of discount rules, as seen by gorm.
type DiscountRuleRecord struct {
	ID                 string          `gorm:"primaryKey;size:36"`
	DiscountType       string          `gorm:"size:50;not null"`
	ConditionValue     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	IsStackable        bool            `gorm:"not null"`
	IsActive           bool            `gorm:"not null"`
	ValidFrom          *time.Time
	ValidTo            *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (DiscountRuleRecord) TableName() string { return "discount_rules" }

var (
	mealPriceColumns = []string{
		domain.PriceFieldID,
		domain.PriceFieldPlanName,
		domain.PriceFieldMealType,
		domain.PriceFieldBasePrice,
		domain.PriceFieldIsActive,
	}
	discountRuleColumns = []string{
		domain.RuleFieldID,
		domain.RuleFieldDiscountType,
		domain.RuleFieldConditionValue,
		domain.RuleFieldPercentage,
		domain.RuleFieldIsStackable,
		domain.RuleFieldIsActive,
		domain.RuleFieldValidFrom,
		domain.RuleFieldValidTo,
	}
)

// GormRuleRepository implements RuleRepository over the storefront's
// relational database (Postgres in production).
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository.
func NewGormRuleRepository(db *gorm.DB) contracts.RuleRepository {
	return &GormRuleRepository{db: db}
}

// ListActiveMealPrices returns active meal type prices, optionally for one plan.
func (r *GormRuleRepository) ListActiveMealPrices(ctx context.Context, plan *string) ([]domain.RawRecord, error) {
	tx := r.db.WithContext(ctx).
		Model(&MealTypePriceRecord{}).
		Select(mealPriceColumns).
		Where("is_active = ?", true)
	if plan != nil {
		tx = tx.Where("plan_name = ?", *plan)
	}

	var rows []map[string]any
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list meal prices")
	}
	return toRecords(rows), nil
}

// ListActiveDiscountRules returns all active discount rules.
func (r *GormRuleRepository) ListActiveDiscountRules(ctx context.Context) ([]domain.RawRecord, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).
		Model(&DiscountRuleRecord{}).
		Select(discountRuleColumns).
		Where("is_active = ?", true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list discount rules")
	}
	return toRecords(rows), nil
}

func toRecords(rows []map[string]any) []domain.RawRecord {
	records := make([]domain.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.RawRecord(row)
	}
	return records
}
