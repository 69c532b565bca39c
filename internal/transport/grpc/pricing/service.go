package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mealprice.v1.PricingService"

// Method names.
const (
	MethodComputePrice = "ComputePrice"
	MethodPreviewPrice = "PreviewPrice"
	MethodRecordQuote  = "RecordQuote"
	MethodListEvents   = "ListEvents"
)

// PricingServiceServer is the server API for the pricing service. Requests
// and replies are JSON-shaped google.protobuf.Struct messages matching the
// dto package.
type PricingServiceServer interface {
	ComputePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PreviewPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the pricing service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodComputePrice, Handler: unaryHandler(MethodComputePrice, PricingServiceServer.ComputePrice)},
		{MethodName: MethodPreviewPrice, Handler: unaryHandler(MethodPreviewPrice, PricingServiceServer.PreviewPrice)},
		{MethodName: MethodRecordQuote, Handler: unaryHandler(MethodRecordQuote, PricingServiceServer.RecordQuote)},
		{MethodName: MethodListEvents, Handler: unaryHandler(MethodListEvents, PricingServiceServer.ListEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mealprice/v1/pricing.proto",
}

// RegisterPricingServiceServer registers srv on s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryMethod func(PricingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PricingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PricingServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
