package repo

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
)

// SnapshotReader loads a plan's active prices and all active rules and
// normalizes them into a RuleSnapshot.
type SnapshotReader struct {
	rules      contracts.RuleRepository
	normalizer *services.Normalizer
}

// NewSnapshotReader creates a new SnapshotReader.
func NewSnapshotReader(rules contracts.RuleRepository, normalizer *services.Normalizer) *SnapshotReader {
	return &SnapshotReader{rules: rules, normalizer: normalizer}
}

// Read returns the snapshot for planName. Malformed records fail the read
// with a *domain.ValidationError.
func (r *SnapshotReader) Read(ctx context.Context, planName string) (domain.RuleSnapshot, error) {
	prices, err := r.rules.ListActiveMealPrices(ctx, &planName)
	if err != nil {
		return domain.RuleSnapshot{}, errors.Wrap(err, "failed to read snapshot")
	}
	rules, err := r.rules.ListActiveDiscountRules(ctx)
	if err != nil {
		return domain.RuleSnapshot{}, errors.Wrap(err, "failed to read snapshot")
	}

	snapshot, err := r.normalizer.NormalizeSnapshot(prices, rules)
	if err != nil {
		return domain.RuleSnapshot{}, errors.Wrapf(err, "snapshot for plan %q", planName)
	}
	return snapshot, nil
}
