package domain

// MealTypePrice is the base price of one meal type within a plan.
type MealTypePrice struct {
	ID        string
	PlanName  string
	MealType  string
	BasePrice Money
	IsActive  bool
}

type priceKey struct {
	plan     string
	mealType string
}

// PriceTable indexes active prices by (plan name, meal type).
type PriceTable struct {
	prices map[priceKey]MealTypePrice
}

// NewPriceTable builds a lookup table from a price snapshot.
// Inactive prices are ignored. Two active prices for the same pair are rejected.
func NewPriceTable(prices []MealTypePrice) (*PriceTable, error) {
	table := &PriceTable{prices: make(map[priceKey]MealTypePrice, len(prices))}
	for _, p := range prices {
		if !p.IsActive {
			continue
		}
		key := priceKey{plan: p.PlanName, mealType: p.MealType}
		if existing, ok := table.prices[key]; ok {
			return nil, &ValidationError{
				Entity:   EntityMealTypePrice,
				RecordID: p.ID,
				Field:    PriceFieldMealType,
				Reason:   "duplicates active price " + existing.ID + " for plan " + p.PlanName,
			}
		}
		table.prices[key] = p
	}
	return table, nil
}

// Lookup returns the active price for a plan and meal type.
func (t *PriceTable) Lookup(planName, mealType string) (MealTypePrice, bool) {
	p, ok := t.prices[priceKey{plan: planName, mealType: mealType}]
	return p, ok
}

// Len returns the number of active prices.
func (t *PriceTable) Len() int {
	return len(t.prices)
}
