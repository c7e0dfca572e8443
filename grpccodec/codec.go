package grpccodec

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"

	"github.com/structwire/bridge"
)

// Name is the content-subtype this codec registers under. The wire format
// is plain protobuf, so "application/grpc+bridge" payloads interoperate with
// generated-code peers.
const Name = "bridge"

type entry struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

// registry maps native struct types to their conversion entry points.
var registry sync.Map // reflect.Type -> entry

// Register makes the given codec handle values of type T and *T in gRPC
// calls. Later registrations for the same type replace earlier ones.
func Register[T any](c *bridge.Codec[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	registry.Store(t, entry{
		marshal: func(v any) ([]byte, error) {
			return c.ToBytes(context.Background(), v.(T))
		},
		unmarshal: func(data []byte, v any) error {
			out, err := c.FromBytes(context.Background(), data)
			if err != nil {
				return err
			}
			*(v.(*T)) = out
			return nil
		},
	})
}

type codec struct{}

func init() {
	encoding.RegisterCodec(codec{})
}

func (codec) Name() string { return Name }

func (codec) Marshal(v any) ([]byte, error) {
	t := reflect.TypeOf(v)
	if e, ok := registry.Load(t); ok {
		return e.(entry).marshal(v)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		if e, ok := registry.Load(t.Elem()); ok {
			return e.(entry).marshal(reflect.ValueOf(v).Elem().Interface())
		}
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("grpccodec: no codec registered for %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		if e, ok := registry.Load(t.Elem()); ok {
			return e.(entry).unmarshal(data, v)
		}
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("grpccodec: no codec registered for %T", v)
}
