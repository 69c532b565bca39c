package repo

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/pkg/cache"
	"github.com/light-bringer/mealprice-service/internal/pkg/metrics"
)

const allPlans = "*"

// CachedRuleRepository decorates a RuleRepository with a TTL cache. Callers
// always receive their own copies of cached records.
type CachedRuleRepository struct {
	next    contracts.RuleRepository
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.PricingMetrics
}

// NewCachedRuleRepository wraps next. m may be nil.
func NewCachedRuleRepository(
	next contracts.RuleRepository,
	c cache.Cache,
	ttl time.Duration,
	m *metrics.PricingMetrics,
) *CachedRuleRepository {
	return &CachedRuleRepository{next: next, cache: c, ttl: ttl, metrics: m}
}

// ListActiveMealPrices returns cached prices for the plan, loading them on a miss.
func (r *CachedRuleRepository) ListActiveMealPrices(ctx context.Context, plan *string) ([]domain.RawRecord, error) {
	key := cache.GenerateKey(cache.PrefixMealPrices, lo.FromPtrOr(plan, allPlans))
	return r.load(ctx, key, func() ([]domain.RawRecord, error) {
		return r.next.ListActiveMealPrices(ctx, plan)
	})
}

// ListActiveDiscountRules returns cached rules, loading them on a miss.
func (r *CachedRuleRepository) ListActiveDiscountRules(ctx context.Context) ([]domain.RawRecord, error) {
	return r.load(ctx, cache.GenerateKey(cache.PrefixDiscountRules), func() ([]domain.RawRecord, error) {
		return r.next.ListActiveDiscountRules(ctx)
	})
}

// Invalidate drops every cached price and rule list.
func (r *CachedRuleRepository) Invalidate(ctx context.Context) {
	r.cache.DeleteByPrefix(ctx, cache.PrefixMealPrices)
	r.cache.DeleteByPrefix(ctx, cache.PrefixDiscountRules)
}

func (r *CachedRuleRepository) load(
	ctx context.Context,
	key string,
	fetch func() ([]domain.RawRecord, error),
) ([]domain.RawRecord, error) {
	if v, ok := r.cache.Get(ctx, key); ok {
		if records, ok := v.([]domain.RawRecord); ok {
			r.metrics.ObserveCacheLookup(true)
			return cloneRecords(records), nil
		}
	}
	r.metrics.ObserveCacheLookup(false)

	records, err := fetch()
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, cloneRecords(records), r.ttl)
	return records, nil
}

func cloneRecords(records []domain.RawRecord) []domain.RawRecord {
	return lo.Map(records, func(rec domain.RawRecord, _ int) domain.RawRecord {
		return rec.Clone()
	})
}
