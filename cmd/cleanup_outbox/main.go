package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
	"github.com/light-bringer/mealprice-service/internal/pkg/committer"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
	"github.com/light-bringer/mealprice-service/internal/pkg/query"
)

// Options for the outbox cleanup job.
type Options struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	DryRun                 bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := Options{}
	flag.StringVar(&opts.SpannerDB, "database", cfg.Storage.SpannerDatabase, "Spanner database (format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&opts.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&opts.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	log, err := logger.New(nil, cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("cleanup_outbox")
	defer func() { _ = log.Sync() }()

	if opts.SpannerDB == "" {
		log.Fatal("-database flag is required")
	}

	if err := cleanupOutbox(context.Background(), log, clock.NewRealClock(), opts); err != nil {
		log.Fatal("cleanup failed", zap.Error(err))
	}

	log.Info("cleanup completed")
}

// expiredCondition matches completed and failed events processed before
// their respective cutoffs.
func expiredCondition(completedCutoff, failedCutoff time.Time) query.Condition {
	return query.Or(
		query.And(
			query.Eq(m_outbox.Status, m_outbox.StatusCompleted),
			query.Lt(m_outbox.ProcessedAt, completedCutoff),
		),
		query.And(
			query.Eq(m_outbox.Status, m_outbox.StatusFailed),
			query.Lt(m_outbox.ProcessedAt, failedCutoff),
		),
	)
}

func cleanupOutbox(ctx context.Context, log *zap.Logger, clk clock.Clock, opts Options) error {
	client, err := spanner.NewClient(ctx, opts.SpannerDB)
	if err != nil {
		return errors.Wrap(err, "failed to create Spanner client")
	}
	defer client.Close()

	now := clk.Now().UTC()
	completedCutoff := now.AddDate(0, 0, -opts.CompletedRetentionDays)
	failedCutoff := now.AddDate(0, 0, -opts.FailedRetentionDays)

	log.Info("starting outbox cleanup",
		zap.Time("completed_cutoff", completedCutoff),
		zap.Int("completed_retention_days", opts.CompletedRetentionDays),
		zap.Time("failed_cutoff", failedCutoff),
		zap.Int("failed_retention_days", opts.FailedRetentionDays),
		zap.Bool("dry_run", opts.DryRun),
	)

	cond := expiredCondition(completedCutoff, failedCutoff)
	if opts.DryRun {
		return dryRunCleanup(ctx, log, client, cond)
	}
	return performCleanup(ctx, log, client, cond)
}

func dryRunCleanup(ctx context.Context, log *zap.Logger, client *spanner.Client, cond query.Condition) error {
	where, params := cond.SQL(0)
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT %s, COUNT(*) FROM %s WHERE %s GROUP BY %s",
			m_outbox.Status, m_outbox.TableName, where, m_outbox.Status),
		Params: params,
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to query events")
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return errors.Wrap(err, "failed to parse row")
		}

		log.Info("would delete events", zap.String("status", status), zap.Int64("count", count))
		total += count
	}

	log.Info("dry run finished, run without -dry-run to delete", zap.Int64("total", total))
	return nil
}

func performCleanup(ctx context.Context, log *zap.Logger, client *spanner.Client, cond query.Condition) error {
	where, params := cond.SQL(0)
	deleteStmt := spanner.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", m_outbox.TableName, where),
		Params: params,
	}
	countStmt := query.From(m_outbox.TableName).Where(cond).Count().Build()

	err := committer.NewCommitter(client).ApplyWithReadWriteTransaction(ctx, committer.NewPlan(), func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		iter := txn.Query(ctx, countStmt)
		defer iter.Stop()

		row, err := iter.Next()
		if err != nil {
			return errors.Wrap(err, "failed to count events")
		}

		var count int64
		if err := row.Columns(&count); err != nil {
			return errors.Wrap(err, "failed to parse count")
		}

		if count == 0 {
			log.Info("no expired events to delete")
			return nil
		}

		log.Info("deleting expired events", zap.Int64("count", count))

		deleted, err := txn.Update(ctx, deleteStmt)
		if err != nil {
			return errors.Wrap(err, "failed to delete events")
		}

		log.Info("deleted events", zap.Int64("deleted", deleted))
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "cleanup transaction failed")
	}

	return nil
}
