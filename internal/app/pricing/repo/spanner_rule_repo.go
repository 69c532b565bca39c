package repo

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/models/m_discount_rule"
	"github.com/light-bringer/mealprice-service/internal/models/m_meal_price"
	"github.com/light-bringer/mealprice-service/internal/pkg/query"
)

// SpannerRuleRepository implements RuleRepository for Spanner.
type SpannerRuleRepository struct {
	client *spanner.Client
	prices *m_meal_price.Model
	rules  *m_discount_rule.Model
}

// NewSpannerRuleRepository creates a new SpannerRuleRepository.
func NewSpannerRuleRepository(client *spanner.Client) contracts.RuleRepository {
	return &SpannerRuleRepository{
		client: client,
		prices: m_meal_price.NewModel(),
		rules:  m_discount_rule.NewModel(),
	}
}

// ListActiveMealPrices returns active meal type prices, optionally for one plan.
func (r *SpannerRuleRepository) ListActiveMealPrices(ctx context.Context, plan *string) ([]domain.RawRecord, error) {
	stmt := activeMealPricesQuery(r.prices, plan).Build()
	records, err := r.queryRecords(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list meal prices")
	}
	return records, nil
}

// ListActiveDiscountRules returns all active discount rules.
func (r *SpannerRuleRepository) ListActiveDiscountRules(ctx context.Context) ([]domain.RawRecord, error) {
	stmt := activeDiscountRulesQuery(r.rules).Build()
	records, err := r.queryRecords(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list discount rules")
	}
	return records, nil
}

func activeMealPricesQuery(model *m_meal_price.Model, plan *string) *query.Builder {
	b := query.From(m_meal_price.TableName).
		Select(model.RecordColumns()...).
		Where(query.Eq(m_meal_price.IsActive, true))
	if plan != nil {
		b = b.Where(query.Eq(m_meal_price.PlanName, *plan))
	}
	return b.OrderBy(m_meal_price.PriceID, query.Asc)
}

func activeDiscountRulesQuery(model *m_discount_rule.Model) *query.Builder {
	return query.From(m_discount_rule.TableName).
		Select(model.RecordColumns()...).
		Where(query.Eq(m_discount_rule.IsActive, true)).
		OrderBy(m_discount_rule.RuleID, query.Asc)
}

func (r *SpannerRuleRepository) queryRecords(ctx context.Context, stmt spanner.Statement) ([]domain.RawRecord, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []domain.RawRecord
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to iterate rows")
		}

		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// rowToRecord decodes every column generically. NUMERIC, INT64 and
// TIMESTAMP arrive as strings and NULL as nil; the normalizer handles all
// of them.
func rowToRecord(row *spanner.Row) (domain.RawRecord, error) {
	names := row.ColumnNames()
	rec := make(domain.RawRecord, len(names))
	for i, name := range names {
		var col spanner.GenericColumnValue
		if err := row.Column(i, &col); err != nil {
			return nil, errors.Wrapf(err, "failed to decode column %s", name)
		}
		if col.Value == nil {
			rec[name] = nil
			continue
		}
		rec[name] = col.Value.AsInterface()
	}
	return rec, nil
}
