package m_price_quote

// Table name constant
const TableName = "price_quotes"

// Field name constants for type-safe database access
const (
	QuoteID     = "quote_id"
	PlanName    = "plan_name"
	Currency    = "currency"
	Subtotal    = "subtotal"
	Total       = "total"
	Clamped     = "clamped"
	Breakdown   = "breakdown"
	EvaluatedAt = "evaluated_at"
	RecordedAt  = "recorded_at"
)
