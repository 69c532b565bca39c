// Command seed loads a sample catalog of meal prices and discount rules into
// the configured store. With -down it retires the same rows instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/repo"
	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/models/m_discount_rule"
	"github.com/light-bringer/mealprice-service/internal/models/m_meal_price"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
)

type catalog struct {
	Prices []seedPrice `yaml:"prices"`
	Rules  []seedRule  `yaml:"rules"`
}

type seedPrice struct {
	ID        string `yaml:"id"`
	PlanName  string `yaml:"plan_name"`
	MealType  string `yaml:"meal_type"`
	BasePrice amount `yaml:"base_price"`
	Active    *bool  `yaml:"active"`
}

type seedRule struct {
	ID             string     `yaml:"id"`
	DiscountType   string     `yaml:"discount_type"`
	ConditionValue amount     `yaml:"condition_value"`
	Percentage     amount     `yaml:"percentage"`
	Stackable      bool       `yaml:"stackable"`
	Active         *bool      `yaml:"active"`
	ValidFrom      *time.Time `yaml:"valid_from"`
	ValidTo        *time.Time `yaml:"valid_to"`
}

// amount accepts quoted and bare YAML numbers without going through float64.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

func main() {
	file := flag.String("file", "cmd/seed/catalog.yaml", "catalog YAML file")
	down := flag.Bool("down", false, "retire the catalog rows instead of upserting them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(nil, cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("seed")
	defer func() { _ = log.Sync() }()

	cat, err := loadCatalog(*file)
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}

	ctx := context.Background()
	switch cfg.Storage.Driver {
	case config.DriverSpanner:
		err = seedSpanner(ctx, cfg.Storage.SpannerDatabase, cat, *down)
	case config.DriverPostgres:
		err = seedPostgres(ctx, log, cfg.Storage.PostgresDSN, cat, *down)
	default:
		err = errors.Newf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("down", *down),
		zap.Int("prices", len(cat.Prices)),
		zap.Int("rules", len(cat.Rules)),
	)
}

func loadCatalog(path string) (*catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return parseCatalog(content)
}

func parseCatalog(content []byte) (*catalog, error) {
	var cat catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}
	for _, p := range cat.Prices {
		if p.ID == "" || p.PlanName == "" || p.MealType == "" {
			return nil, errors.Newf("price %q is missing id, plan_name or meal_type", p.ID)
		}
	}
	for _, r := range cat.Rules {
		if r.ID == "" || r.DiscountType == "" {
			return nil, errors.Newf("rule %q is missing id or discount_type", r.ID)
		}
	}
	return &cat, nil
}

func seedSpanner(ctx context.Context, database string, cat *catalog, down bool) error {
	client, err := spanner.NewClient(ctx, database)
	if err != nil {
		return errors.Wrap(err, "failed to create Spanner client")
	}
	defer client.Close()

	return committer.NewCommitter(client).Apply(ctx, spannerPlan(cat, down))
}

// spannerPlan upserts the catalog, or with down deactivates its prices and
// deletes its rules.
func spannerPlan(cat *catalog, down bool) *committer.CommitPlan {
	prices := m_meal_price.NewModel()
	rules := m_discount_rule.NewModel()

	plan := committer.NewPlan()
	for _, p := range cat.Prices {
		if down {
			plan.Add(prices.DeactivateMut(p.ID))
			continue
		}
		plan.Add(prices.UpsertMut(&m_meal_price.Data{
			PriceID:   p.ID,
			PlanName:  p.PlanName,
			MealType:  p.MealType,
			BasePrice: p.BasePrice.Rat(),
			IsActive:  lo.FromPtrOr(p.Active, true),
		}))
	}
	for _, r := range cat.Rules {
		if down {
			plan.Add(rules.DeleteMut(r.ID))
			continue
		}
		plan.Add(rules.UpsertMut(&m_discount_rule.Data{
			RuleID:             r.ID,
			DiscountType:       r.DiscountType,
			ConditionValue:     r.ConditionValue.Rat(),
			DiscountPercentage: r.Percentage.Rat(),
			IsStackable:        r.Stackable,
			IsActive:           lo.FromPtrOr(r.Active, true),
			ValidFrom:          nullTime(r.ValidFrom),
			ValidTo:            nullTime(r.ValidTo),
		}))
	}
	return plan
}

func nullTime(t *time.Time) spanner.NullTime {
	if t == nil {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: t.UTC(), Valid: true}
}

func seedPostgres(ctx context.Context, log *zap.Logger, dsn string, cat *catalog, down bool) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(log.Named("gorm"), time.Second),
	})
	if err != nil {
		return errors.Wrap(err, "failed to open Postgres")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return applyGorm(db.WithContext(ctx), cat, down)
}

// applyGorm creates the tables when missing and upserts or retires the
// catalog in one transaction.
func applyGorm(db *gorm.DB, cat *catalog, down bool) error {
	if err := db.AutoMigrate(&repo.MealTypePriceRecord{}, &repo.DiscountRuleRecord{}); err != nil {
		return errors.Wrap(err, "failed to migrate tables")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if down {
			priceIDs := lo.Map(cat.Prices, func(p seedPrice, _ int) string { return p.ID })
			ruleIDs := lo.Map(cat.Rules, func(r seedRule, _ int) string { return r.ID })
			if len(priceIDs) > 0 {
				if err := tx.Model(&repo.MealTypePriceRecord{}).Where("id IN ?", priceIDs).Update("is_active", false).Error; err != nil {
					return errors.Wrap(err, "failed to deactivate prices")
				}
			}
			if len(ruleIDs) > 0 {
				if err := tx.Where("id IN ?", ruleIDs).Delete(&repo.DiscountRuleRecord{}).Error; err != nil {
					return errors.Wrap(err, "failed to delete rules")
				}
			}
			return nil
		}

		upsert := clause.OnConflict{UpdateAll: true}
		for _, p := range cat.Prices {
			rec := repo.MealTypePriceRecord{
				ID:        p.ID,
				PlanName:  p.PlanName,
				MealType:  p.MealType,
				BasePrice: p.BasePrice.Decimal,
				IsActive:  lo.FromPtrOr(p.Active, true),
			}
			if err := tx.Clauses(upsert).Create(&rec).Error; err != nil {
				return errors.Wrapf(err, "failed to upsert price %s", p.ID)
			}
		}
		for _, r := range cat.Rules {
			rec := repo.DiscountRuleRecord{
				ID:                 r.ID,
				DiscountType:       r.DiscountType,
				ConditionValue:     r.ConditionValue.Decimal,
				DiscountPercentage: r.Percentage.Decimal,
				IsStackable:        r.Stackable,
				IsActive:           lo.FromPtrOr(r.Active, true),
				ValidFrom:          r.ValidFrom,
				ValidTo:            r.ValidTo,
			}
			if err := tx.Clauses(upsert).Create(&rec).Error; err != nil {
				return errors.Wrapf(err, "failed to upsert rule %s", r.ID)
			}
		}
		return nil
	})
}
