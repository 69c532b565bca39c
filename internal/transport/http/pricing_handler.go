package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/preview_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/usecases/record_quote"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

// PricingHandler serves price computations over HTTP.
type PricingHandler struct {
	computePrice *compute_price.Query
	previewPrice *preview_price.Query
	recordQuote  *record_quote.Interactor
}

// NewPricingHandler creates a new PricingHandler. recordQuote may be nil.
func NewPricingHandler(
	computePrice *compute_price.Query,
	previewPrice *preview_price.Query,
	recordQuote *record_quote.Interactor,
) *PricingHandler {
	return &PricingHandler{
		computePrice: computePrice,
		previewPrice: previewPrice,
		recordQuote:  recordQuote,
	}
}

// ComputePrice handles POST /api/v1/prices/compute.
func (h *PricingHandler) ComputePrice(c *gin.Context) {
	req, ok := bindOrder(c)
	if !ok {
		return
	}

	breakdown, err := h.computePrice.Execute(c.Request.Context(), &compute_price.Request{Order: req.ToDomain()})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBreakdown(*breakdown))
}

// PreviewPrice handles POST /api/v1/prices/preview.
func (h *PricingHandler) PreviewPrice(c *gin.Context) {
	req, ok := bindOrder(c)
	if !ok {
		return
	}

	explanation, err := h.previewPrice.Execute(c.Request.Context(), &preview_price.Request{Order: req.ToDomain()})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromExplanation(*explanation))
}

// RecordQuote handles POST /api/v1/quotes.
func (h *PricingHandler) RecordQuote(c *gin.Context) {
	if h.recordQuote == nil {
		_ = c.Error(errors.Wrap(errUnavailable, "quote recording"))
		return
	}

	req, ok := bindOrder(c)
	if !ok {
		return
	}

	quote, err := h.recordQuote.Execute(c.Request.Context(), &record_quote.Request{Order: req.ToDomain()})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromQuote(quote))
}

func bindOrder(c *gin.Context) (*dto.OrderRequest, bool) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.Mark(errors.Wrap(err, "invalid order body"), errMalformedBody))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return &req, true
}
