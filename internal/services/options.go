package services

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	pricingsvc "github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/preview_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/usecases/record_quote"
	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/pkg/cache"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
	"github.com/light-bringer/mealprice-service/internal/pkg/metrics"
	"github.com/light-bringer/mealprice-service/internal/transport/grpc/pricing"
	httptransport "github.com/light-bringer/mealprice-service/internal/transport/http"
)

const slowQueryThreshold = 200 * time.Millisecond

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	GormDB        *gorm.DB

	// RuleCache is nil when caching is disabled.
	RuleCache *repo.CachedRuleRepository
	Metrics   *metrics.PricingMetrics

	PricingHandler *pricing.Handler
	HTTPHandlers   httptransport.Handlers
}

// storage is what a storage driver contributes. The write side is only
// available on Spanner.
type storage struct {
	rules       contracts.RuleRepository
	committer   *committer.Committer
	quoteRepo   contracts.QuoteRepository
	outboxRepo  contracts.OutboxRepository
	eventsModel list_events.EventsReadModel
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(
	ctx context.Context,
	cfg *config.Configuration,
	log *zap.Logger,
	registerer prometheus.Registerer,
) (*ServiceOptions, error) {
	opts := &ServiceOptions{}

	// 1. Metrics
	m, err := metrics.NewPricingMetrics(registerer, cfg.MetricsConfig())
	if err != nil {
		return nil, err
	}
	opts.Metrics = m

	// 2. Storage
	var st storage
	switch cfg.Storage.Driver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.Storage.SpannerDatabase)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Spanner client")
		}
		opts.SpannerClient = client
		st = storage{
			rules:       repo.NewSpannerRuleRepository(client),
			committer:   committer.NewCommitter(client),
			quoteRepo:   repo.NewQuoteRepo(),
			outboxRepo:  repo.NewOutboxRepo(),
			eventsModel: repo.NewEventsReadModel(client),
		}

	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.Storage.PostgresDSN), &gorm.Config{
			Logger: logger.NewGormLogger(log.Named("gorm"), slowQueryThreshold),
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open Postgres")
		}
		opts.GormDB = db
		st = storage{rules: repo.NewGormRuleRepository(db)}

	default:
		return nil, errors.Newf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// 3. Snapshot cache
	rules := st.rules
	if cfg.Cache.Enabled {
		opts.RuleCache = repo.NewCachedRuleRepository(
			st.rules,
			cache.NewInMemoryCache(true, cfg.Cache.TTL),
			cfg.Cache.TTL,
			m,
		)
		rules = opts.RuleCache
	}

	// 4. Engine and snapshot reader
	clk := clock.NewRealClock()
	engine := pricingsvc.NewEngine(cfg.Pricing.Currency)
	snapshots := repo.NewSnapshotReader(rules, pricingsvc.NewNormalizer())

	// 5. Queries (read operations)
	computePriceQuery := compute_price.NewQuery(snapshots, engine, clk, m, log)
	previewPriceQuery := preview_price.NewQuery(snapshots, engine, clk)

	// 6. Commands (write operations), Spanner only
	var recordQuoteUseCase *record_quote.Interactor
	var listEventsQuery *list_events.Query
	if st.committer != nil {
		recordQuoteUseCase = record_quote.NewInteractor(computePriceQuery, st.quoteRepo, st.outboxRepo, st.committer, clk, log)
		listEventsQuery = list_events.NewQuery(st.eventsModel)
	}

	// 7. Transport handlers
	opts.PricingHandler = pricing.NewHandler(recordQuoteUseCase, computePriceQuery, previewPriceQuery, listEventsQuery)
	opts.HTTPHandlers = httptransport.Handlers{
		Pricing: httptransport.NewPricingHandler(computePriceQuery, previewPriceQuery, recordQuoteUseCase),
		Events:  httptransport.NewEventsHandler(listEventsQuery),
	}

	log.Info("service dependencies ready",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("quotes_enabled", recordQuoteUseCase != nil),
		zap.String("currency", cfg.Pricing.Currency),
	)
	return opts, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.GormDB != nil {
		if sqlDB, err := s.GormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
