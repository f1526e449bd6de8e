package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "portfolio.v1.PortfolioService"

// PortfolioServiceServer is the read surface of the portfolio over gRPC.
// Requests and responses are google.protobuf.Struct values carrying the REST JSON shapes.
type PortfolioServiceServer interface {
	ListAssets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPerformance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAllocation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv PortfolioServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// serviceDesc describes PortfolioService without generated stubs
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAssets", Handler: unaryHandler("ListAssets", PortfolioServiceServer.ListAssets)},
		{MethodName: "GetAsset", Handler: unaryHandler("GetAsset", PortfolioServiceServer.GetAsset)},
		{MethodName: "GetSummary", Handler: unaryHandler("GetSummary", PortfolioServiceServer.GetSummary)},
		{MethodName: "GetPerformance", Handler: unaryHandler("GetPerformance", PortfolioServiceServer.GetPerformance)},
		{MethodName: "GetAllocation", Handler: unaryHandler("GetAllocation", PortfolioServiceServer.GetAllocation)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portfolio/v1/portfolio.proto",
}

// RegisterPortfolioServiceServer registers srv on a gRPC server
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Client calls PortfolioService on a connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a PortfolioService client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAssets(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListAssets", req, opts...)
}

func (c *Client) GetAsset(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetAsset", req, opts...)
}

func (c *Client) GetSummary(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSummary", req, opts...)
}

func (c *Client) GetPerformance(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetPerformance", req, opts...)
}

func (c *Client) GetAllocation(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetAllocation", req, opts...)
}
