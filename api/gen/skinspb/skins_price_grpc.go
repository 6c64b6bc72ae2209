package skinspb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	SkinsPrice_SubscribeToPriceUpdates_FullMethodName = "/skins.SkinsPrice/SubscribeToPriceUpdates"
	SkinsPrice_GetPriceHistory_FullMethodName         = "/skins.SkinsPrice/GetPriceHistory"
)

// SkinsPriceClient is the client API for the SkinsPrice service.
type SkinsPriceClient interface {
	SubscribeToPriceUpdates(ctx context.Context, in *PriceSubscriptionRequest, opts ...grpc.CallOption) (SkinsPrice_SubscribeToPriceUpdatesClient, error)
	GetPriceHistory(ctx context.Context, in *PriceHistoryRequest, opts ...grpc.CallOption) (*PriceHistoryResponse, error)
}

type skinsPriceClient struct {
	cc grpc.ClientConnInterface
}

// NewSkinsPriceClient creates a client over an established connection.
func NewSkinsPriceClient(cc grpc.ClientConnInterface) SkinsPriceClient {
	return &skinsPriceClient{cc}
}

func (c *skinsPriceClient) SubscribeToPriceUpdates(ctx context.Context, in *PriceSubscriptionRequest, opts ...grpc.CallOption) (SkinsPrice_SubscribeToPriceUpdatesClient, error) {
	stream, err := c.cc.NewStream(ctx, &SkinsPrice_ServiceDesc.Streams[0], SkinsPrice_SubscribeToPriceUpdates_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &skinsPriceSubscribeToPriceUpdatesClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type SkinsPrice_SubscribeToPriceUpdatesClient interface {
	Recv() (*PriceUpdate, error)
	grpc.ClientStream
}

type skinsPriceSubscribeToPriceUpdatesClient struct {
	grpc.ClientStream
}

func (x *skinsPriceSubscribeToPriceUpdatesClient) Recv() (*PriceUpdate, error) {
	m := new(PriceUpdate)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *skinsPriceClient) GetPriceHistory(ctx context.Context, in *PriceHistoryRequest, opts ...grpc.CallOption) (*PriceHistoryResponse, error) {
	out := new(PriceHistoryResponse)
	if err := c.cc.Invoke(ctx, SkinsPrice_GetPriceHistory_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SkinsPriceServer is the server API for the SkinsPrice service. Embed
// UnimplementedSkinsPriceServer for forward compatibility.
type SkinsPriceServer interface {
	SubscribeToPriceUpdates(*PriceSubscriptionRequest, SkinsPrice_SubscribeToPriceUpdatesServer) error
	GetPriceHistory(context.Context, *PriceHistoryRequest) (*PriceHistoryResponse, error)
}

// UnimplementedSkinsPriceServer returns Unimplemented for every method.
type UnimplementedSkinsPriceServer struct{}

func (UnimplementedSkinsPriceServer) SubscribeToPriceUpdates(*PriceSubscriptionRequest, SkinsPrice_SubscribeToPriceUpdatesServer) error {
	return status.Errorf(codes.Unimplemented, "method SubscribeToPriceUpdates not implemented")
}

func (UnimplementedSkinsPriceServer) GetPriceHistory(context.Context, *PriceHistoryRequest) (*PriceHistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPriceHistory not implemented")
}

// RegisterSkinsPriceServer registers the implementation with a grpc.Server.
func RegisterSkinsPriceServer(s grpc.ServiceRegistrar, srv SkinsPriceServer) {
	s.RegisterService(&SkinsPrice_ServiceDesc, srv)
}

type SkinsPrice_SubscribeToPriceUpdatesServer interface {
	Send(*PriceUpdate) error
	grpc.ServerStream
}

type skinsPriceSubscribeToPriceUpdatesServer struct {
	grpc.ServerStream
}

func (x *skinsPriceSubscribeToPriceUpdatesServer) Send(m *PriceUpdate) error {
	return x.ServerStream.SendMsg(m)
}

func _SkinsPrice_SubscribeToPriceUpdates_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PriceSubscriptionRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SkinsPriceServer).SubscribeToPriceUpdates(m, &skinsPriceSubscribeToPriceUpdatesServer{ServerStream: stream})
}

func _SkinsPrice_GetPriceHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PriceHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SkinsPriceServer).GetPriceHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SkinsPrice_GetPriceHistory_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SkinsPriceServer).GetPriceHistory(ctx, req.(*PriceHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SkinsPrice_ServiceDesc is the grpc.ServiceDesc for the SkinsPrice service.
var SkinsPrice_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "skins.SkinsPrice",
	HandlerType: (*SkinsPriceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetPriceHistory",
			Handler:    _SkinsPrice_GetPriceHistory_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeToPriceUpdates",
			Handler:       _SkinsPrice_SubscribeToPriceUpdates_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "api/skins_price.proto",
}
