package record_quote

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) Execute(ctx context.Context, req *compute_price.Request) (*domain.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*domain.PriceBreakdown)
	return b, args.Error(1)
}

type mockCommitter struct {
	mock.Mock
}

func (m *mockCommitter) Apply(ctx context.Context, plan *committer.CommitPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func sampleBreakdown() *domain.PriceBreakdown {
	b := domain.NewPriceBreakdown(domain.BreakdownParams{
		PlanName:    "Weight Loss",
		Currency:    "MAD",
		EvaluatedAt: now,
		Subtotal:    domain.MustMoney("400.00"),
		Lines: []domain.LineItem{
			{MealType: "Lunch", UnitPrice: domain.MustMoney("80.00"), Quantity: 5, Total: domain.MustMoney("400.00")},
		},
		Discounts: []domain.AppliedDiscount{{
			RuleID:         "1",
			DiscountType:   "duration",
			Percentage:     decimal.NewFromInt(10),
			Amount:         domain.MustMoney("40.00"),
			SubtotalBefore: domain.MustMoney("400.00"),
			SubtotalAfter:  domain.MustMoney("360.00"),
		}},
		Total: domain.MustMoney("360.00"),
	})
	return &b
}

func sampleOrder() domain.OrderContext {
	return domain.OrderContext{
		PlanName:   "Weight Loss",
		Quantities: map[string]int64{"Lunch": 5},
		Metrics:    map[string]decimal.Decimal{"duration": decimal.NewFromInt(30)},
	}
}

func newInteractor(pricer Pricer, c Committer) *Interactor {
	i := NewInteractor(pricer, repo.NewQuoteRepo(), repo.NewOutboxRepo(), c, clock.NewMockClock(now), zap.NewNop())
	i.newID = func() string { return "quote-1" }
	return i
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	pricer := &mockPricer{}
	pricer.On("Execute", ctx, mock.MatchedBy(func(r *compute_price.Request) bool {
		return r.Order.PlanName == "Weight Loss"
	})).Return(sampleBreakdown(), nil)

	var applied *committer.CommitPlan
	c := &mockCommitter{}
	c.On("Apply", ctx, mock.AnythingOfType("*committer.CommitPlan")).
		Run(func(args mock.Arguments) { applied = args.Get(1).(*committer.CommitPlan) }).
		Return(nil)

	quote, err := newInteractor(pricer, c).Execute(ctx, &Request{Order: sampleOrder()})
	require.NoError(t, err)

	assert.Equal(t, "quote-1", quote.ID())
	assert.True(t, quote.RecordedAt().Equal(now))
	assert.Equal(t, "360.00", quote.Breakdown().Total().String())

	require.NotNil(t, applied)
	assert.Equal(t, 2, applied.Count(), "quote row and one outbox event")
	for _, mut := range applied.Mutations() {
		assert.IsType(t, &spanner.Mutation{}, mut)
	}

	pricer.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestInteractor_Execute_PricingErrorSkipsCommit(t *testing.T) {
	ctx := context.Background()

	pricer := &mockPricer{}
	pricer.On("Execute", ctx, mock.Anything).
		Return(nil, &domain.PricingError{Kind: domain.MissingBasePrice, PlanName: "Weight Loss", MealType: "Dinner"})
	c := &mockCommitter{}

	_, err := newInteractor(pricer, c).Execute(ctx, &Request{Order: sampleOrder()})
	assert.True(t, errors.Is(err, domain.ErrMissingBasePrice))
	c.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestInteractor_Execute_CommitFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("aborted")

	pricer := &mockPricer{}
	pricer.On("Execute", ctx, mock.Anything).Return(sampleBreakdown(), nil)
	c := &mockCommitter{}
	c.On("Apply", ctx, mock.Anything).Return(cause)

	quote, err := newInteractor(pricer, c).Execute(ctx, &Request{Order: sampleOrder()})
	assert.Nil(t, quote)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to record quote")
}
