package contracts

import (
	"context"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// RuleRepository reads raw pricing records from storage. Records are returned
// untyped; the normalizer validates them. Implementations never write.
type RuleRepository interface {
	// ListActiveMealPrices returns active price records, optionally limited
	// to one plan. A nil plan returns every active price.
	ListActiveMealPrices(ctx context.Context, plan *string) ([]domain.RawRecord, error)

	// ListActiveDiscountRules returns every active discount rule record.
	// Validity windows are not applied here.
	ListActiveDiscountRules(ctx context.Context) ([]domain.RawRecord, error)
}

// SnapshotReader loads and normalizes the prices and rules for one plan.
type SnapshotReader interface {
	Read(ctx context.Context, planName string) (domain.RuleSnapshot, error)
}
