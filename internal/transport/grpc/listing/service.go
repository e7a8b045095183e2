package listing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names of catalog.listing.v1.ListingService. Requests
// and responses are google.protobuf.Struct values carrying the same fields
// as the HTTP API.
const (
	ServiceName             = "catalog.listing.v1.ListingService"
	QueryFullMethodName     = "/" + ServiceName + "/Query"
	FacetsFullMethodName    = "/" + ServiceName + "/Facets"
	listingServiceProtoFile = "catalog/listing/v1/listing.proto"
)

// ListingServiceServer is the server API for ListingService.
type ListingServiceServer interface {
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Facets(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedListingServiceServer can be embedded for forward
// compatibility.
type UnimplementedListingServiceServer struct{}

func (UnimplementedListingServiceServer) Query(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Query not implemented")
}

func (UnimplementedListingServiceServer) Facets(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Facets not implemented")
}

// RegisterListingServiceServer registers srv with s.
func RegisterListingServiceServer(s grpc.ServiceRegistrar, srv ListingServiceServer) {
	s.RegisterService(&ListingServiceDesc, srv)
}

func queryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ListingServiceServer).Query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ListingServiceServer).Query(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func facetsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ListingServiceServer).Facets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FacetsFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ListingServiceServer).Facets(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ListingServiceDesc is the grpc.ServiceDesc for ListingService.
var ListingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ListingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: queryHandler},
		{MethodName: "Facets", Handler: facetsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: listingServiceProtoFile,
}

// ListingServiceClient calls ListingService over a client connection.
type ListingServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewListingServiceClient creates a client over cc.
func NewListingServiceClient(cc grpc.ClientConnInterface) *ListingServiceClient {
	return &ListingServiceClient{cc: cc}
}

// Query calls ListingService.Query.
func (c *ListingServiceClient) Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QueryFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Facets calls ListingService.Facets.
func (c *ListingServiceClient) Facets(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FacetsFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
