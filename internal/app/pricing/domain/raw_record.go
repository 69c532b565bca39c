package domain

// RawRecord is a price or rule row as read from storage, keyed by column name.
// Values are loosely typed and must go through the normalizer before use.
type RawRecord map[string]any

// Record keys for meal type prices.
const (
	PriceFieldID        = "id"
	PriceFieldPlanName  = "plan_name"
	PriceFieldMealType  = "meal_type"
	PriceFieldBasePrice = "base_price"
	PriceFieldIsActive  = "is_active"
)

// Record keys for discount rules.
const (
	RuleFieldID             = "id"
	RuleFieldDiscountType   = "discount_type"
	RuleFieldConditionValue = "condition_value"
	RuleFieldPercentage     = "discount_percentage"
	RuleFieldIsStackable    = "is_stackable"
	RuleFieldIsActive       = "is_active"
	RuleFieldValidFrom      = "valid_from"
	RuleFieldValidTo        = "valid_to"
)

// Entity names used in validation errors.
const (
	EntityMealTypePrice = "meal_type_price"
	EntityDiscountRule  = "discount_rule"
)

// Clone returns a shallow copy of the record.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
