package m_price_quote

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
)

// Data represents a recorded price quote.
type Data struct {
	QuoteID     string           `spanner:"quote_id"`
	PlanName    string           `spanner:"plan_name"`
	Currency    string           `spanner:"currency"`
	Subtotal    *big.Rat         `spanner:"subtotal"`
	Total       *big.Rat         `spanner:"total"`
	Clamped     bool             `spanner:"clamped"`
	Breakdown   spanner.NullJSON `spanner:"breakdown"`
	EvaluatedAt time.Time        `spanner:"evaluated_at"`
	RecordedAt  time.Time        `spanner:"recorded_at"`
}

// Model provides type-safe database operations for price quotes.
type Model struct{}

// NewModel creates a new price quote model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a quote.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	mut, err := spanner.InsertStruct(TableName, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build price quote mutation")
	}
	return mut, nil
}

// ReadColumns returns the column names for reading quotes.
func (m *Model) ReadColumns() []string {
	return []string{
		QuoteID,
		PlanName,
		Currency,
		Subtotal,
		Total,
		Clamped,
		Breakdown,
		EvaluatedAt,
		RecordedAt,
	}
}
