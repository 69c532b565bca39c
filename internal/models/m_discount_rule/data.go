package m_discount_rule

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the discount_rules table.
type Data struct {
	RuleID             string
	DiscountType       string
	ConditionValue     *big.Rat // NUMERIC
	DiscountPercentage *big.Rat // NUMERIC
	IsStackable        bool
	IsActive           bool
	ValidFrom          spanner.NullTime
	ValidTo            spanner.NullTime
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
