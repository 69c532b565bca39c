package preview_price

import (
	"context"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
)

// Request contains the order to preview.
type Request struct {
	Order domain.OrderContext
}

// Query handles the preview price query use case.
type Query struct {
	snapshots contracts.SnapshotReader
	engine    *services.Engine
	clock     clock.Clock
}

// NewQuery creates a new preview price query.
func NewQuery(snapshots contracts.SnapshotReader, engine *services.Engine, clock clock.Clock) *Query {
	return &Query{
		snapshots: snapshots,
		engine:    engine,
		clock:     clock,
	}
}

// Execute prices the order and reports, for every active rule, whether it
// applied and why not.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Explanation, error) {
	order := req.Order
	if order.EvaluatedAt.IsZero() {
		order = order.At(q.clock.Now())
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := q.snapshots.Read(ctx, order.PlanName)
	if err != nil {
		return nil, err
	}

	explanation, err := q.engine.Explain(snapshot, order)
	if err != nil {
		return nil, err
	}
	return &explanation, nil
}
