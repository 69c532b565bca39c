package pricing

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

// Client is a typed client for the pricing service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new pricing service client.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ComputePrice prices an order.
func (c *Client) ComputePrice(ctx context.Context, req *dto.OrderRequest, opts ...grpc.CallOption) (*dto.Breakdown, error) {
	var out dto.Breakdown
	if err := c.invoke(ctx, MethodComputePrice, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewPrice prices an order and explains every rule decision.
func (c *Client) PreviewPrice(ctx context.Context, req *dto.OrderRequest, opts ...grpc.CallOption) (*dto.Explanation, error) {
	var out dto.Explanation
	if err := c.invoke(ctx, MethodPreviewPrice, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordQuote prices an order and stores the result.
func (c *Client) RecordQuote(ctx context.Context, req *dto.OrderRequest, opts ...grpc.CallOption) (*dto.Quote, error) {
	var out dto.Quote
	if err := c.invoke(ctx, MethodRecordQuote, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents lists outbox events.
func (c *Client) ListEvents(ctx context.Context, req *dto.ListEventsRequest, opts ...grpc.CallOption) (*dto.EventList, error) {
	var out dto.EventList
	if err := c.invoke(ctx, MethodListEvents, req, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// invoke returns gRPC status errors unwrapped so callers can use status.Code.
func (c *Client) invoke(ctx context.Context, method string, req, out any, opts ...grpc.CallOption) error {
	in, err := encodeStruct(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, reply, opts...); err != nil {
		return err
	}
	if err := decodeStruct(reply, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s reply", method)
	}
	return nil
}
