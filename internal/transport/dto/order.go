// Package dto holds the wire shapes shared by the HTTP and gRPC transports.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/pkg/validator"
)

// OrderRequest is an order to price. Metrics accept JSON numbers or strings.
type OrderRequest struct {
	PlanName    string                     `json:"plan_name" validate:"required"`
	Quantities  map[string]int64           `json:"quantities" validate:"required,min=1,dive,keys,required,endkeys,gt=0"`
	Metrics     map[string]decimal.Decimal `json:"metrics,omitempty"`
	EvaluatedAt *time.Time                 `json:"evaluated_at,omitempty"`
}

// Validate checks the request shape.
func (r *OrderRequest) Validate() error {
	return validator.Struct(r)
}

// ToDomain converts the request to an OrderContext. A missing evaluation
// time is left zero for the query to fill in.
func (r *OrderRequest) ToDomain() domain.OrderContext {
	order := domain.OrderContext{
		PlanName:   r.PlanName,
		Quantities: make(map[string]int64, len(r.Quantities)),
		Metrics:    make(map[string]decimal.Decimal, len(r.Metrics)),
	}
	for mealType, qty := range r.Quantities {
		order.Quantities[mealType] = qty
	}
	for discountType, value := range r.Metrics {
		order.Metrics[discountType] = value
	}
	if r.EvaluatedAt != nil {
		order.EvaluatedAt = r.EvaluatedAt.UTC()
	}
	return order
}
