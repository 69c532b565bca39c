package repo

import (
	"encoding/json"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/models/m_price_quote"
)

// QuoteRepo builds mutations for the price_quotes table.
type QuoteRepo struct {
	model *m_price_quote.Model
}

// NewQuoteRepo creates a new QuoteRepo.
func NewQuoteRepo() *QuoteRepo {
	return &QuoteRepo{model: m_price_quote.NewModel()}
}

// quoteDocument is the JSON stored in the breakdown column.
type quoteDocument struct {
	Lines     []domain.LineRecord     `json:"lines"`
	Discounts []domain.DiscountRecord `json:"discounts"`
}

// InsertMut creates a mutation that stores the quote and its full breakdown.
func (r *QuoteRepo) InsertMut(quote *domain.Quote) (*spanner.Mutation, error) {
	b := quote.Breakdown()

	raw, err := breakdownJSON(b)
	if err != nil {
		return nil, err
	}

	return r.model.InsertMut(&m_price_quote.Data{
		QuoteID:     quote.ID(),
		PlanName:    b.PlanName(),
		Currency:    b.Currency(),
		Subtotal:    b.Subtotal().Amount().Rat(),
		Total:       b.Total().Amount().Rat(),
		Clamped:     b.Clamped(),
		Breakdown:   spanner.NullJSON{Value: json.RawMessage(raw), Valid: true},
		EvaluatedAt: b.EvaluatedAt().UTC(),
		RecordedAt:  quote.RecordedAt().UTC(),
	})
}

func breakdownJSON(b domain.PriceBreakdown) ([]byte, error) {
	raw, err := json.Marshal(quoteDocument{
		Lines:     b.LineRecords(),
		Discounts: b.DiscountRecords(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize quote breakdown")
	}
	return raw, nil
}
