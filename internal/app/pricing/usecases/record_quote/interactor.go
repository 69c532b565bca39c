package record_quote

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
)

// Request contains the order to price and record.
type Request struct {
	Order domain.OrderContext
}

// Pricer computes a breakdown for an order.
type Pricer interface {
	Execute(ctx context.Context, req *compute_price.Request) (*domain.PriceBreakdown, error)
}

// Committer applies a commit plan atomically.
type Committer interface {
	Apply(ctx context.Context, plan *committer.CommitPlan) error
}

// Interactor handles the record quote use case.
type Interactor struct {
	pricer     Pricer
	quoteRepo  contracts.QuoteRepository
	outboxRepo contracts.OutboxRepository
	committer  Committer
	clock      clock.Clock
	newID      func() string
	log        *zap.Logger
}

// NewInteractor creates a new record quote interactor.
func NewInteractor(
	pricer Pricer,
	quoteRepo contracts.QuoteRepository,
	outboxRepo contracts.OutboxRepository,
	committer Committer,
	clock clock.Clock,
	log *zap.Logger,
) *Interactor {
	return &Interactor{
		pricer:     pricer,
		quoteRepo:  quoteRepo,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
		newID:      uuid.NewString,
		log:        log.Named("pricing.record_quote"),
	}
}

// Execute prices the order and stores the result as a quote together with
// its outbox events in one commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Quote, error) {
	// 1. Compute price
	breakdown, err := i.pricer.Execute(ctx, &compute_price.Request{Order: req.Order})
	if err != nil {
		return nil, err
	}

	// 2. Create aggregate
	quote := domain.NewQuote(i.newID(), *breakdown, i.clock.Now())

	// 3. Create commit plan
	plan := committer.NewPlan()

	// 4. Add repository mutation
	mut, err := i.quoteRepo.InsertMut(quote)
	if err != nil {
		return nil, err
	}
	plan.Add(mut)

	// 5. Add outbox events
	for _, event := range quote.DomainEvents() {
		outboxEvent, err := i.outboxRepo.EnrichEvent(event)
		if err != nil {
			return nil, err
		}
		plan.Add(i.outboxRepo.InsertMut(outboxEvent))
	}

	// 6. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, errors.Wrap(err, "failed to record quote")
	}

	logger.WithContext(ctx, i.log).Info("quote recorded",
		zap.String("quote_id", quote.ID()),
		zap.String("plan_name", breakdown.PlanName()),
		zap.Stringer("total", breakdown.Total()),
	)
	return quote, nil
}
