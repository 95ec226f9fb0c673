package server

import (
	"context"
	"time"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a CacheManagerClient that owns its connection.
type Client struct {
	*CacheManagerClient
	*grpc.ClientConn
}

// Dial connects to a management server at addr without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{NewCacheManagerClient(cc), cc}, nil
}

// CacheManagerClient calls the management service with typed arguments. An empty
// cache name addresses the server's default cache.
type CacheManagerClient struct {
	cc grpc.ClientConnInterface
}

func NewCacheManagerClient(cc grpc.ClientConnInterface) *CacheManagerClient {
	return &CacheManagerClient{cc: cc}
}

func (c *CacheManagerClient) invoke(ctx context.Context, method string, fields map[string]any, out proto.Message) error {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out)
}

func (c *CacheManagerClient) Flush(ctx context.Context, name string) error {
	return c.invoke(ctx, "Flush", map[string]any{"cache": name}, new(emptypb.Empty))
}

func (c *CacheManagerClient) SetMaxSize(ctx context.Context, name string, size int) error {
	return c.invoke(ctx, "SetMaxSize", map[string]any{"cache": name, "size": size}, new(emptypb.Empty))
}

func (c *CacheManagerClient) Resize(ctx context.Context, name string, size int) error {
	return c.invoke(ctx, "Resize", map[string]any{"cache": name, "size": size}, new(emptypb.Empty))
}

func (c *CacheManagerClient) Capacity(ctx context.Context, name string) (int, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.invoke(ctx, "Capacity", map[string]any{"cache": name}, out); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

func (c *CacheManagerClient) IsEmpty(ctx context.Context, name string) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, "IsEmpty", map[string]any{"cache": name}, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *CacheManagerClient) ToMap(ctx context.Context, name string) (map[string]string, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "ToMap", map[string]any{"cache": name}, out); err != nil {
		return nil, err
	}
	return fromStruct(out), nil
}

// Merge copies the entries of the cache named source into the cache named name.
func (c *CacheManagerClient) Merge(ctx context.Context, name, source string) error {
	return c.invoke(ctx, "Merge", map[string]any{"cache": name, "source": source}, new(emptypb.Empty))
}

func (c *CacheManagerClient) PutAll(ctx context.Context, name string, entries map[string]string) error {
	m := make(map[string]any, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return c.invoke(ctx, "PutAll", map[string]any{"cache": name, "entries": m}, new(emptypb.Empty))
}

func (c *CacheManagerClient) SetPolicy(ctx context.Context, name string, policy cache.Policy) error {
	return c.invoke(ctx, "SetPolicy", map[string]any{"cache": name, "policy": policy.String()}, new(emptypb.Empty))
}

func (c *CacheManagerClient) Put(ctx context.Context, name, key, value string) error {
	return c.invoke(ctx, "Put", map[string]any{"cache": name, "key": key, "value": value}, new(emptypb.Empty))
}

// Get returns the value under key; ok is false when the key is absent.
func (c *CacheManagerClient) Get(ctx context.Context, name, key string) (string, bool, error) {
	out := new(wrapperspb.StringValue)
	err := c.invoke(ctx, "Get", map[string]any{"cache": name, "key": key}, out)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out.GetValue(), true, nil
}

func (c *CacheManagerClient) Remove(ctx context.Context, name, key string) error {
	return c.invoke(ctx, "Remove", map[string]any{"cache": name, "key": key}, new(emptypb.Empty))
}

// Slice returns the entries touched within [from, to]. A zero bound is left open.
func (c *CacheManagerClient) Slice(ctx context.Context, name string, from, to time.Time) (map[string]string, error) {
	fields := map[string]any{"cache": name}
	if !from.IsZero() {
		fields["from"] = from.UnixMilli()
	}
	if !to.IsZero() {
		fields["to"] = to.UnixMilli()
	}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Slice", fields, out); err != nil {
		return nil, err
	}
	return fromStruct(out), nil
}

func fromStruct(s *structpb.Struct) map[string]string {
	m := make(map[string]string, len(s.GetFields()))
	for k, v := range s.GetFields() {
		m[k] = v.GetStringValue()
	}
	return m
}
