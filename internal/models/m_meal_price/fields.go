package m_meal_price

// Field name constants for the meal_type_prices table.
const (
	TableName = "meal_type_prices"

	PriceID   = "price_id"
	PlanName  = "plan_name"
	MealType  = "meal_type"
	BasePrice = "base_price"
	IsActive  = "is_active"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)
