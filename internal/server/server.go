package server

import (
	"context"
	"errors"
	"time"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/marvinlanhenke/go-object-cache/internal/config"
	"github.com/marvinlanhenke/go-object-cache/internal/registry"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type cacheServer struct {
	config   *config.Config
	registry *registry.Registry[string, string]
}

func New(cfg *config.Config, reg *registry.Registry[string, string]) *cacheServer {
	return &cacheServer{
		config:   cfg,
		registry: reg,
	}
}

// toStatus maps cache and registry errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cache.ErrInvalidPolicy):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, cache.ErrUnsupported):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, cache.ErrEmptyCache):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, registry.ErrCacheExists):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func field(in *structpb.Struct, name string) (*structpb.Value, bool) {
	v, ok := in.GetFields()[name]
	return v, ok
}

func stringField(in *structpb.Struct, name string) string {
	v, _ := field(in, name)
	return v.GetStringValue()
}

func intField(in *structpb.Struct, name string) (int, error) {
	v, ok := field(in, name)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return 0, status.Errorf(codes.InvalidArgument, "field %q must be a number", name)
	}
	return int(v.GetNumberValue()), nil
}

// timeField reads a unix millisecond timestamp; ok is false when the field is absent.
func timeField(in *structpb.Struct, name string) (time.Time, bool, error) {
	v, ok := field(in, name)
	if !ok {
		return time.Time{}, false, nil
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return time.Time{}, false, status.Errorf(codes.InvalidArgument, "field %q must be unix milliseconds", name)
	}
	return time.UnixMilli(int64(v.GetNumberValue())), true, nil
}

func toStruct(m map[string]string) (*structpb.Struct, error) {
	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (cs *cacheServer) lookup(name string) (*cache.Cache[string, string], error) {
	c, ok := cs.registry.Lookup(name)
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "cache %q is not managed here", name)
	}
	return c, nil
}

func (cs *cacheServer) Flush(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if err := cs.registry.Flush(stringField(req, "cache")); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) SetMaxSize(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	size, err := intField(req, "size")
	if err != nil {
		return nil, err
	}
	if err := cs.registry.SetMaxSize(stringField(req, "cache"), size); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) Resize(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	size, err := intField(req, "size")
	if err != nil {
		return nil, err
	}
	if err := cs.registry.Resize(stringField(req, "cache"), size); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) Capacity(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	capacity, err := cs.registry.Capacity(stringField(req, "cache"))
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Int64(int64(capacity)), nil
}

func (cs *cacheServer) IsEmpty(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	empty, err := cs.registry.IsEmpty(stringField(req, "cache"))
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(empty), nil
}

func (cs *cacheServer) ToMap(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := cs.registry.ToMap(stringField(req, "cache"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(m)
}

func (cs *cacheServer) Merge(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	src, err := cs.lookup(stringField(req, "source"))
	if err != nil {
		return nil, err
	}
	if err := cs.registry.Merge(stringField(req, "cache"), src); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) PutAll(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	v, _ := field(req, "entries")
	fields := v.GetStructValue().GetFields()

	entries := make(map[string]string, len(fields))
	for k, val := range fields {
		s, ok := val.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "entry %q must be a string", k)
		}
		entries[k] = s.StringValue
	}

	if err := cs.registry.PutAll(stringField(req, "cache"), entries); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) SetPolicy(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	policy, err := cache.ParsePolicy(stringField(req, "policy"))
	if err != nil {
		return nil, toStatus(err)
	}
	if err := cs.registry.SetPolicy(stringField(req, "cache"), policy); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) Put(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	c, err := cs.lookup(stringField(req, "cache"))
	if err != nil {
		return nil, err
	}
	key := stringField(req, "key")
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	c.Put(key, stringField(req, "value"))
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) Get(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	c, err := cs.lookup(stringField(req, "cache"))
	if err != nil {
		return nil, err
	}
	key := stringField(req, "key")
	v, ok := c.Get(key)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "key %q not found", key)
	}
	return wrapperspb.String(v), nil
}

func (cs *cacheServer) Remove(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	c, err := cs.lookup(stringField(req, "cache"))
	if err != nil {
		return nil, err
	}
	c.Remove(stringField(req, "key"))
	return &emptypb.Empty{}, nil
}

func (cs *cacheServer) Slice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	c, err := cs.lookup(stringField(req, "cache"))
	if err != nil {
		return nil, err
	}
	from, hasFrom, err := timeField(req, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := timeField(req, "to")
	if err != nil {
		return nil, err
	}

	var m map[string]string
	switch {
	case hasFrom && hasTo:
		m = c.Slice(from, to)
	case hasFrom:
		m = c.SliceFrom(from)
	case hasTo:
		m = c.SliceTo(to)
	default:
		m = c.ToMap()
	}
	return toStruct(m)
}
