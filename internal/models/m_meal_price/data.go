package m_meal_price

import (
	"math/big"
	"time"
)

// Data represents the database model for the meal_type_prices table.
type Data struct {
	PriceID   string
	PlanName  string
	MealType  string
	BasePrice *big.Rat // NUMERIC
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
