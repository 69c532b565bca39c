//go:build integration

package integration

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/preview_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/usecases/record_quote"
	"github.com/light-bringer/mealprice-service/internal/pkg/cache"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
	"github.com/light-bringer/mealprice-service/internal/pkg/metrics"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
	"github.com/light-bringer/mealprice-service/internal/transport/grpc/pricing"
	"github.com/light-bringer/mealprice-service/tests/testutil"
)

const bufSize = 1024 * 1024

type grpcEnv struct {
	client    *pricing.Client
	db        *spanner.Client
	ruleCache *repo.CachedRuleRepository
}

// setupGRPCTest wires the Spanner-backed service behind an in-memory gRPC server.
func setupGRPCTest(t *testing.T) (*grpcEnv, func()) {
	t.Helper()

	client, cleanupDB := testutil.SetupSpannerTest(t)
	log := zaptest.NewLogger(t)

	clk := testutil.NewFixedClock(testutil.EvalTime)
	m, err := metrics.NewPricingMetrics(prometheus.NewRegistry(), metrics.Config{ServiceName: "mealprice", Environment: "test"})
	require.NoError(t, err)

	ruleCache := repo.NewCachedRuleRepository(
		repo.NewSpannerRuleRepository(client),
		cache.NewInMemoryCache(true, time.Minute),
		time.Minute,
		m,
	)
	snapshots := repo.NewSnapshotReader(ruleCache, services.NewNormalizer())
	engine := services.NewEngine("MAD")

	computePriceQ := compute_price.NewQuery(snapshots, engine, clk, m, log)
	previewPriceQ := preview_price.NewQuery(snapshots, engine, clk)
	recordQuoteUC := record_quote.NewInteractor(
		computePriceQ,
		repo.NewQuoteRepo(),
		repo.NewOutboxRepo(),
		committer.NewCommitter(client),
		clk,
		log,
	)
	listEventsQ := list_events.NewQuery(repo.NewEventsReadModel(client))

	handler := pricing.NewHandler(recordQuoteUC, computePriceQ, previewPriceQ, listEventsQ)

	lis := bufconn.Listen(bufSize)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(pricing.LoggingInterceptor(log)))
	pricing.RegisterPricingServiceServer(server, handler)

	go func() {
		if err := server.Serve(lis); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	cleanup := func() {
		_ = conn.Close()
		server.Stop()
		cleanupDB()
	}

	seedWeightLoss(t, client)
	return &grpcEnv{client: pricing.NewClient(conn), db: client, ruleCache: ruleCache}, cleanup
}

func seedWeightLoss(t *testing.T, client *spanner.Client) {
	t.Helper()

	testutil.CreateTestMealPrice(t, client, "Weight Loss", "Lunch", "80.00")
	testutil.CreateTestMealPrice(t, client, "Weight Loss", "Dinner", "92.50")
	testutil.CreateTestMealPrice(t, client, "Keto", "Snack", "25.00")

	expired := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestDiscountRule(t, client, "1", "duration", "20", "10", testutil.Stackable())
	testutil.CreateTestDiscountRule(t, client, "2", "meals", "10", "15")
	testutil.CreateTestDiscountRule(t, client, "3", "meals", "5", "12")
	testutil.CreateTestDiscountRule(t, client, "4", "duration", "5", "50", testutil.Inactive())
	testutil.CreateTestDiscountRule(t, client, "5", "duration", "1", "30", testutil.Stackable(), testutil.ValidBetween(time.Time{}, expired))
}

func weightLossOrder(quantities map[string]int64, duration, meals int64) *dto.OrderRequest {
	return &dto.OrderRequest{
		PlanName:   "Weight Loss",
		Quantities: quantities,
		Metrics: map[string]decimal.Decimal{
			"duration": decimal.NewFromInt(duration),
			"meals":    decimal.NewFromInt(meals),
		},
	}
}

func TestGRPC_ComputePrice(t *testing.T) {
	env, cleanup := setupGRPCTest(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("winner then stackable", func(t *testing.T) {
		b, err := env.client.ComputePrice(ctx, weightLossOrder(map[string]int64{"Lunch": 5, "Dinner": 5}, 30, 10))
		require.NoError(t, err)

		assert.Equal(t, "862.50", b.Subtotal)
		require.Len(t, b.Discounts, 2)
		assert.Equal(t, "2", b.Discounts[0].RuleID)
		assert.True(t, b.Discounts[0].Exclusive)
		assert.Equal(t, "1", b.Discounts[1].RuleID)
		assert.Equal(t, "659.81", b.Total)
		assert.True(t, b.EvaluatedAt.Equal(testutil.EvalTime))
	})

	t.Run("no rules unlocked", func(t *testing.T) {
		b, err := env.client.ComputePrice(ctx, weightLossOrder(map[string]int64{"Lunch": 1}, 1, 1))
		require.NoError(t, err)
		assert.Empty(t, b.Discounts)
		assert.Equal(t, "80.00", b.Total)
	})

	t.Run("missing base price", func(t *testing.T) {
		_, err := env.client.ComputePrice(ctx, weightLossOrder(map[string]int64{"Snack": 1}, 30, 10))
		require.Error(t, err)
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("invalid order", func(t *testing.T) {
		_, err := env.client.ComputePrice(ctx, &dto.OrderRequest{PlanName: "Weight Loss"})
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestGRPC_ComputePrice_SnapshotCache(t *testing.T) {
	env, cleanup := setupGRPCTest(t)
	defer cleanup()

	ctx := context.Background()
	order := weightLossOrder(map[string]int64{"Lunch": 1}, 1, 1)

	b, err := env.client.ComputePrice(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "80.00", b.Total)

	// A rule added after the first read stays invisible until invalidation.
	testutil.CreateTestDiscountRule(t, env.db, "6", "duration", "1", "50", testutil.Stackable())

	b, err = env.client.ComputePrice(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "80.00", b.Total)

	env.ruleCache.Invalidate(ctx)

	b, err = env.client.ComputePrice(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "40.00", b.Total)
}

func TestGRPC_PreviewPrice(t *testing.T) {
	env, cleanup := setupGRPCTest(t)
	defer cleanup()

	explanation, err := env.client.PreviewPrice(context.Background(), weightLossOrder(map[string]int64{"Lunch": 5, "Dinner": 5}, 30, 10))
	require.NoError(t, err)

	require.NotNil(t, explanation.Resolution.ExclusiveWinner)
	assert.Equal(t, "2", *explanation.Resolution.ExclusiveWinner)
	assert.Equal(t, []string{"1"}, explanation.Resolution.Stackable)
	assert.Equal(t, []string{"3"}, explanation.Resolution.Outranked)

	reasons := make(map[string]string)
	for _, c := range explanation.Checks {
		reasons[c.RuleID] = c.Reason
	}
	assert.Equal(t, "inactive", reasons["4"])
	assert.Equal(t, "expired", reasons["5"])
}

func TestGRPC_RecordQuoteAndListEvents(t *testing.T) {
	env, cleanup := setupGRPCTest(t)
	defer cleanup()

	ctx := context.Background()

	quote, err := env.client.RecordQuote(ctx, weightLossOrder(map[string]int64{"Lunch": 5}, 30, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, quote.QuoteID)
	assert.Equal(t, "Weight Loss", quote.Breakdown.PlanName)

	events, err := env.client.ListEvents(ctx, &dto.ListEventsRequest{AggregateID: quote.QuoteID})
	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	assert.Equal(t, int64(1), events.TotalCount)
	assert.Equal(t, "pricing.quote.recorded", events.Events[0].EventType)
	assert.Equal(t, "pending", events.Events[0].Status)

	_, err = env.client.ListEvents(ctx, &dto.ListEventsRequest{Status: "bogus"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_ConcurrentRequests(t *testing.T) {
	env, cleanup := setupGRPCTest(t)
	defer cleanup()

	ctx := context.Background()
	const workers = 20

	var wg sync.WaitGroup
	totals := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := env.client.ComputePrice(ctx, weightLossOrder(map[string]int64{"Lunch": 5, "Dinner": 5}, 30, 10))
			errs[i] = err
			if err == nil {
				totals[i] = b.Total
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "659.81", totals[i])
	}
}
