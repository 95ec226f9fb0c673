package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "objcache.v1.CacheManager"

// CacheManagerServer is the management surface of a cache registry. Every request is
// a Struct carrying the target cache name under "cache" plus method specific fields.
type CacheManagerServer interface {
	Flush(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetMaxSize(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Resize(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Capacity(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	IsEmpty(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	ToMap(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Merge(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	PutAll(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetPolicy(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Put(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Get(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Remove(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Slice(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterCacheManagerServer(s grpc.ServiceRegistrar, srv CacheManagerServer) {
	s.RegisterService(&cacheManagerServiceDesc, srv)
}

type unaryCall func(CacheManagerServer, context.Context, *structpb.Struct) (proto.Message, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CacheManagerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CacheManagerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var cacheManagerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CacheManagerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Flush", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Flush(ctx, in)
		}),
		unaryMethod("SetMaxSize", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.SetMaxSize(ctx, in)
		}),
		unaryMethod("Resize", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Resize(ctx, in)
		}),
		unaryMethod("Capacity", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Capacity(ctx, in)
		}),
		unaryMethod("IsEmpty", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.IsEmpty(ctx, in)
		}),
		unaryMethod("ToMap", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.ToMap(ctx, in)
		}),
		unaryMethod("Merge", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Merge(ctx, in)
		}),
		unaryMethod("PutAll", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.PutAll(ctx, in)
		}),
		unaryMethod("SetPolicy", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.SetPolicy(ctx, in)
		}),
		unaryMethod("Put", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Put(ctx, in)
		}),
		unaryMethod("Get", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Get(ctx, in)
		}),
		unaryMethod("Remove", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Remove(ctx, in)
		}),
		unaryMethod("Slice", func(s CacheManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.Slice(ctx, in)
		}),
	},
	Streams: []grpc.StreamDesc{},
}
