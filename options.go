package bridge

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/proto"
)

// Validator checks a converted wire message and returns field-level problems
// to aggregate into the conversion Context. The validate subpackage provides
// a CEL-based implementation.
type Validator interface {
	Validate(m proto.Message) []ConversionError
}

// Option configures a Codec.
type Option func(*codecConfig)

// codecConfig holds configuration shared by all Codec instantiations.
type codecConfig struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	validator Validator
}

// WithLogger sets a custom logger for the codec. If not provided, the
// default slog logger is used. Conversion failures are logged at debug
// level with the conversion context ID.
func WithLogger(logger *slog.Logger) Option {
	return func(c *codecConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. When present, ToBytes and
// FromBytes each run inside a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *codecConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter. When present, the codec records
// conversion and conversion-error counters labeled by direction.
func WithMeter(meter metric.Meter) Option {
	return func(c *codecConfig) {
		c.meter = meter
	}
}

// WithValidator attaches a Validator that runs against the wire message
// after a successful forward conversion. Violations are aggregated into the
// conversion Context and fail ToBytes the same way field errors do.
func WithValidator(v Validator) Option {
	return func(c *codecConfig) {
		c.validator = v
	}
}
