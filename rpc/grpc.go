package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
//
// Messages are protobuf well-known wrapper types, so no protoc/codegen
// toolchain is needed:
//
//	service Address {
//	  rpc ToGateway(google.protobuf.StringValue) returns (google.protobuf.StringValue);
//	  rpc ToIPFS(google.protobuf.StringValue) returns (google.protobuf.StringValue);
//	  rpc ToCID(google.protobuf.StringValue) returns (google.protobuf.StringValue);
//	  rpc Fetch(google.protobuf.StringValue) returns (google.protobuf.BytesValue);
//	  rpc Has(google.protobuf.StringValue) returns (google.protobuf.BoolValue);
//	}
const ServiceName = "xlog.ipfs.v1.Address"

// AddressServer is the server API for the Address service.
type AddressServer interface {
	ToGateway(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	ToIPFS(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	ToCID(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedAddressServer can be embedded to have forward compatible implementations.
type UnimplementedAddressServer struct{}

func (UnimplementedAddressServer) ToGateway(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ToGateway not implemented")
}
func (UnimplementedAddressServer) ToIPFS(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ToIPFS not implemented")
}
func (UnimplementedAddressServer) ToCID(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ToCID not implemented")
}
func (UnimplementedAddressServer) Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Fetch not implemented")
}
func (UnimplementedAddressServer) Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Has not implemented")
}

// RegisterAddressServer registers the Address service on a gRPC server.
func RegisterAddressServer(s grpc.ServiceRegistrar, srv AddressServer) {
	s.RegisterService(&Address_ServiceDesc, srv)
}

// AddressClient is the client API for the Address service.
type AddressClient interface {
	ToGateway(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	ToIPFS(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	ToCID(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type addressClient struct{ cc grpc.ClientConnInterface }

func NewAddressClient(cc grpc.ClientConnInterface) AddressClient { return &addressClient{cc: cc} }

func (c *addressClient) ToGateway(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ToGateway", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *addressClient) ToIPFS(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ToIPFS", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *addressClient) ToCID(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ToCID", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *addressClient) Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Fetch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *addressClient) Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Has", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// stringHandler adapts a StringValue->StringValue method to a grpc.MethodDesc handler.
func stringHandler(method string, call func(AddressServer, context.Context, *wrapperspb.StringValue) (interface{}, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(wrapperspb.StringValue)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AddressServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(AddressServer), ctx, req.(*wrapperspb.StringValue))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Address_ServiceDesc is the grpc.ServiceDesc for the Address service.
var Address_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AddressServer)(nil),
	Methods: []grpc.MethodDesc{
		stringHandler("ToGateway", func(s AddressServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.ToGateway(ctx, in)
		}),
		stringHandler("ToIPFS", func(s AddressServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.ToIPFS(ctx, in)
		}),
		stringHandler("ToCID", func(s AddressServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.ToCID(ctx, in)
		}),
		stringHandler("Fetch", func(s AddressServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.Fetch(ctx, in)
		}),
		stringHandler("Has", func(s AddressServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.Has(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "xlog/ipfs/v1/address.proto",
}
