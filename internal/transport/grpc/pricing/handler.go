package pricing

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/compute_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/preview_price"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/usecases/record_quote"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

// Handler implements PricingServiceServer.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	recordQuote *record_quote.Interactor

	// Queries
	computePrice *compute_price.Query
	previewPrice *preview_price.Query
	listEvents   *list_events.Query
}

// NewHandler creates a new gRPC pricing handler. recordQuote and listEvents
// may be nil when the storage driver cannot serve them; those methods then
// return Unimplemented.
func NewHandler(
	recordQuote *record_quote.Interactor,
	computePrice *compute_price.Query,
	previewPrice *preview_price.Query,
	listEvents *list_events.Query,
) *Handler {
	return &Handler{
		recordQuote:  recordQuote,
		computePrice: computePrice,
		previewPrice: previewPrice,
		listEvents:   listEvents,
	}
}

// ComputePrice prices an order.
func (h *Handler) ComputePrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	req, err := decodeOrder(in)
	if err != nil {
		return nil, err
	}

	// 2. Call query
	breakdown, err := h.computePrice.Execute(ctx, &compute_price.Request{Order: req.ToDomain()})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Return response
	return encodeReply(dto.FromBreakdown(*breakdown))
}

// PreviewPrice prices an order and explains every rule decision.
func (h *Handler) PreviewPrice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeOrder(in)
	if err != nil {
		return nil, err
	}

	explanation, err := h.previewPrice.Execute(ctx, &preview_price.Request{Order: req.ToDomain()})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	return encodeReply(dto.FromExplanation(*explanation))
}

// RecordQuote prices an order and stores the result.
func (h *Handler) RecordQuote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if h.recordQuote == nil {
		return nil, status.Error(codes.Unimplemented, "quote recording is not available with this storage driver")
	}

	req, err := decodeOrder(in)
	if err != nil {
		return nil, err
	}

	quote, err := h.recordQuote.Execute(ctx, &record_quote.Request{Order: req.ToDomain()})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	return encodeReply(dto.FromQuote(quote))
}

// ListEvents retrieves domain events from the outbox.
func (h *Handler) ListEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if h.listEvents == nil {
		return nil, status.Error(codes.Unimplemented, "event listing is not available with this storage driver")
	}

	var req dto.ListEventsRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	events, total, err := h.listEvents.Execute(ctx, req.ToQuery())
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	return encodeReply(dto.FromEvents(events, total))
}

func decodeOrder(in *structpb.Struct) (*dto.OrderRequest, error) {
	var req dto.OrderRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return &req, nil
}

func encodeReply(v any) (*structpb.Struct, error) {
	out, err := encodeStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
