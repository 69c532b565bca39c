package m_discount_rule

// Field name constants for the discount_rules table.
const (
	TableName = "discount_rules"

	RuleID             = "rule_id"
	DiscountType       = "discount_type"
	ConditionValue     = "condition_value"
	DiscountPercentage = "discount_percentage"
	IsStackable        = "is_stackable"
	IsActive           = "is_active"
	ValidFrom          = "valid_from"
	ValidTo            = "valid_to"
	CreatedAt          = "created_at"
	UpdatedAt          = "updated_at"
)
