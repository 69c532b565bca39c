package compute_price

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
	"github.com/light-bringer/mealprice-service/internal/pkg/metrics"
)

// Request contains the order to price. A zero EvaluatedAt means "now".
type Request struct {
	Order domain.OrderContext
}

// Query handles the compute price query use case.
type Query struct {
	snapshots contracts.SnapshotReader
	engine    *services.Engine
	clock     clock.Clock
	metrics   *metrics.PricingMetrics
	log       *zap.Logger
}

// NewQuery creates a new compute price query. m may be nil.
func NewQuery(
	snapshots contracts.SnapshotReader,
	engine *services.Engine,
	clock clock.Clock,
	m *metrics.PricingMetrics,
	log *zap.Logger,
) *Query {
	return &Query{
		snapshots: snapshots,
		engine:    engine,
		clock:     clock,
		metrics:   m,
		log:       log.Named("pricing.compute"),
	}
}

// Execute prices an order against the current rule snapshot. Errors are
// *domain.OrderError, *domain.ValidationError, *domain.PricingError or a
// wrapped storage error.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.PriceBreakdown, error) {
	start := q.clock.Now()
	order := req.Order
	if order.EvaluatedAt.IsZero() {
		order = order.At(start)
	}

	breakdown, err := q.price(ctx, order)
	q.metrics.ObserveComputation(breakdown, err, q.clock.Now().Sub(start))

	log := logger.WithContext(ctx, q.log).With(
		zap.String("plan_name", order.PlanName),
		zap.Time("evaluated_at", order.EvaluatedAt),
	)
	if err != nil {
		log.Warn("price computation failed",
			zap.String("outcome", metrics.Outcome(err)),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("price computed",
		zap.Stringer("subtotal", breakdown.Subtotal()),
		zap.Stringer("total", breakdown.Total()),
		zap.Int("discounts", len(breakdown.Discounts())),
		zap.Bool("clamped", breakdown.Clamped()),
	)
	return breakdown, nil
}

func (q *Query) price(ctx context.Context, order domain.OrderContext) (*domain.PriceBreakdown, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := q.snapshots.Read(ctx, order.PlanName)
	if err != nil {
		return nil, err
	}

	breakdown, err := q.engine.Price(snapshot, order)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}
