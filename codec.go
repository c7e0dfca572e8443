package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Codec is the byte-level entry point for one top-level message type. It
// composes the compiled converter for T with proto serialization and error
// formatting into a flat "native struct <-> bytes" operation pair.
//
// A Codec is immutable after construction and safe for concurrent use; each
// call allocates its own wire message and conversion Context.
type Codec[T any] struct {
	desc protoreflect.MessageDescriptor
	conv *converter

	logger    *slog.Logger
	tracer    trace.Tracer
	validator Validator

	conversions metric.Int64Counter
	failures    metric.Int64Counter
}

// NewCodec compiles a codec binding the native struct type T to the given
// message descriptor. Binding problems (missing native fields, incompatible
// kinds) are reported here, once, so the per-call paths cannot hit them.
func NewCodec[T any](desc protoreflect.MessageDescriptor, opts ...Option) (*Codec[T], error) {
	cfg := codecConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T
	conv, err := compileConverter(reflect.TypeOf(zero), desc, make(map[converterKey]*converter))
	if err != nil {
		return nil, newBindingError("NewCodec", err)
	}

	c := &Codec[T]{
		desc:      desc,
		conv:      conv,
		logger:    cfg.logger,
		tracer:    cfg.tracer,
		validator: cfg.validator,
	}
	if cfg.meter != nil {
		c.conversions, err = cfg.meter.Int64Counter("bridge.conversions",
			metric.WithDescription("Completed conversion calls"))
		if err != nil {
			return nil, &Error{Op: "NewCodec", Kind: KindSchema, Err: err}
		}
		c.failures, err = cfg.meter.Int64Counter("bridge.conversion_failures",
			metric.WithDescription("Conversion calls that returned an error"))
		if err != nil {
			return nil, &Error{Op: "NewCodec", Kind: KindSchema, Err: err}
		}
	}
	return c, nil
}

// Descriptor returns the message descriptor the codec is bound to.
func (c *Codec[T]) Descriptor() protoreflect.MessageDescriptor {
	return c.desc
}

// ToBytes converts src to a wire message and serializes it.
//
// When any conversion error is recorded (a oneof multiplicity violation
// anywhere in the tree, or a validator violation), ToBytes fails with the
// formatted aggregate and does not attempt serialization. A serializer
// failure after successful conversion is reported as a distinct error kind.
func (c *Codec[T]) ToBytes(ctx context.Context, src T) ([]byte, error) {
	ctx, end := c.startSpan(ctx, "bridge.Codec.ToBytes")
	defer end()

	cc := NewContext()
	msg := dynamicpb.NewMessage(c.desc)
	c.conv.toMessage(reflect.ValueOf(src), msg, cc, "")

	if c.validator != nil && !cc.HasErrors() {
		for _, v := range c.validator.Validate(msg) {
			cc.AddError(v.FieldPath, v.Message)
		}
	}

	if cc.HasErrors() {
		c.count(ctx, "to_bytes", true)
		c.logger.Debug("forward conversion failed",
			"message", c.desc.FullName(),
			"context_id", cc.ID(),
			"errors", len(cc.Errors()))
		return nil, newConversionError("Codec.ToBytes", cc.Errors())
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		c.count(ctx, "to_bytes", true)
		return nil, newSerializeError("Codec.ToBytes", err)
	}
	c.count(ctx, "to_bytes", false)
	return data, nil
}

// FromBytes parses data into a wire message and converts it to a native
// struct.
//
// Malformed bytes fail with a parse error before any field conversion runs.
// Aggregated conversion errors fail the call and the partially populated
// native struct is discarded; callers must not rely on partial results.
func (c *Codec[T]) FromBytes(ctx context.Context, data []byte) (T, error) {
	ctx, end := c.startSpan(ctx, "bridge.Codec.FromBytes")
	defer end()

	var out T
	msg := dynamicpb.NewMessage(c.desc)
	if err := proto.Unmarshal(data, msg); err != nil {
		c.count(ctx, "from_bytes", true)
		return out, newParseError("Codec.FromBytes", err)
	}

	cc := NewContext()
	if ok := c.conv.fromMessage(msg, reflect.ValueOf(&out).Elem(), cc, ""); !ok {
		c.count(ctx, "from_bytes", true)
		c.logger.Debug("reverse conversion failed",
			"message", c.desc.FullName(),
			"context_id", cc.ID(),
			"errors", len(cc.Errors()))
		var zero T
		return zero, newConversionError("Codec.FromBytes", cc.Errors())
	}
	c.count(ctx, "from_bytes", false)
	return out, nil
}

// ToMessage runs the forward conversion only, for callers that hold wire
// message objects themselves. Errors are recorded in cc when it is non-nil;
// a nil cc declines aggregation, matching the converter contract.
func (c *Codec[T]) ToMessage(src T, cc *Context) *dynamicpb.Message {
	msg := dynamicpb.NewMessage(c.desc)
	c.conv.toMessage(reflect.ValueOf(src), msg, cc, "")
	return msg
}

// FromMessage runs the reverse conversion only. The message's descriptor
// must match the codec's. The boolean result is false when a nested
// conversion failed or cc recorded errors; with a nil cc only the local
// result matters.
func (c *Codec[T]) FromMessage(m proto.Message, cc *Context) (T, error) {
	var out T
	md := m.ProtoReflect().Descriptor()
	if md.FullName() != c.desc.FullName() {
		return out, &Error{
			Op:   "Codec.FromMessage",
			Kind: KindSchema,
			Err:  fmt.Errorf("%w: have %s, want %s", ErrSchema, md.FullName(), c.desc.FullName()),
		}
	}
	if ok := c.conv.fromMessage(m.ProtoReflect(), reflect.ValueOf(&out).Elem(), cc, ""); !ok {
		var zero T
		if cc != nil {
			return zero, newConversionError("Codec.FromMessage", cc.Errors())
		}
		return zero, newConversionError("Codec.FromMessage", nil)
	}
	return out, nil
}

// startSpan opens a tracing span when a tracer is configured; the returned
// func ends it.
func (c *Codec[T]) startSpan(ctx context.Context, name string) (context.Context, func()) {
	if c.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := c.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

func (c *Codec[T]) count(ctx context.Context, direction string, failed bool) {
	if c.conversions == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("direction", direction))
	c.conversions.Add(ctx, 1, attrs)
	if failed {
		c.failures.Add(ctx, 1, attrs)
	}
}
