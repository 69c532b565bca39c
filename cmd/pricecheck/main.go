// Command pricecheck prices an order against a snapshot described in YAML
// files, without a database. It prints the engine's explanation as JSON.
//
//	pricecheck -snapshot testdata/snapshot.yaml -order testdata/order.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

// snapshotFile holds prices and rules as raw records. They go through the
// same normalizer as database rows.
type snapshotFile struct {
	Currency string           `yaml:"currency"`
	Prices   []map[string]any `yaml:"prices"`
	Rules    []map[string]any `yaml:"rules"`
}

type orderFile struct {
	PlanName    string            `yaml:"plan_name"`
	Quantities  map[string]int64  `yaml:"quantities"`
	Metrics     map[string]string `yaml:"metrics"`
	EvaluatedAt *time.Time        `yaml:"evaluated_at"`
}

func main() {
	snapshotPath := flag.String("snapshot", "", "snapshot YAML file with prices and rules (required)")
	orderPath := flag.String("order", "", "order YAML file (required)")
	currency := flag.String("currency", "MAD", "currency used when the snapshot does not name one")
	totalOnly := flag.Bool("total", false, "print only the total")
	flag.Parse()

	if *snapshotPath == "" || *orderPath == "" {
		fatalf("-snapshot and -order are required")
	}

	snapshotYAML, err := os.ReadFile(*snapshotPath)
	if err != nil {
		fatalf("failed to read %s: %v", *snapshotPath, err)
	}
	orderYAML, err := os.ReadFile(*orderPath)
	if err != nil {
		fatalf("failed to read %s: %v", *orderPath, err)
	}

	explanation, err := run(snapshotYAML, orderYAML, *currency, time.Now().UTC())
	if err != nil {
		fatalf("%v", err)
	}

	if *totalOnly {
		fmt.Println(explanation.Breakdown.Total().String())
		return
	}

	out, err := json.MarshalIndent(dto.FromExplanation(explanation), "", "  ")
	if err != nil {
		fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}

// run parses a snapshot and an order and explains the price. now is used
// when the order carries no evaluation time.
func run(snapshotYAML, orderYAML []byte, currency string, now time.Time) (domain.Explanation, error) {
	var sf snapshotFile
	if err := yaml.Unmarshal(snapshotYAML, &sf); err != nil {
		return domain.Explanation{}, errors.Wrap(err, "failed to parse snapshot")
	}
	var of orderFile
	if err := yaml.Unmarshal(orderYAML, &of); err != nil {
		return domain.Explanation{}, errors.Wrap(err, "failed to parse order")
	}
	if sf.Currency != "" {
		currency = sf.Currency
	}

	snapshot, err := services.NewNormalizer().NormalizeSnapshot(toRecords(sf.Prices), toRecords(sf.Rules))
	if err != nil {
		return domain.Explanation{}, err
	}

	order, err := of.toDomain(now)
	if err != nil {
		return domain.Explanation{}, err
	}
	if err := order.Validate(); err != nil {
		return domain.Explanation{}, err
	}

	return services.NewEngine(currency).Explain(snapshot, order)
}

func toRecords(in []map[string]any) []domain.RawRecord {
	out := make([]domain.RawRecord, 0, len(in))
	for _, m := range in {
		out = append(out, domain.RawRecord(m))
	}
	return out
}

func (o orderFile) toDomain(now time.Time) (domain.OrderContext, error) {
	order := domain.OrderContext{
		PlanName:    o.PlanName,
		Quantities:  o.Quantities,
		Metrics:     make(map[string]decimal.Decimal, len(o.Metrics)),
		EvaluatedAt: now,
	}
	for discountType, raw := range o.Metrics {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.OrderContext{}, errors.Wrapf(err, "metric %q", discountType)
		}
		order.Metrics[discountType] = value
	}
	if o.EvaluatedAt != nil {
		order.EvaluatedAt = o.EvaluatedAt.UTC()
	}
	return order, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
