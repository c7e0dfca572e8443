// Package bridge provides schema-driven, bidirectional conversion between
// presence-aware native Go structs and protocol buffer wire messages.
//
// The engine is parameterized over a message descriptor: one compiled
// converter per (native type, descriptor) pair handles scalar, optional,
// repeated, nested-message, oneof, and map fields in both directions. There
// is no generated per-message code.
//
// # Presence
//
// Native optional fields keep explicit presence: "was this field set?" is
// distinct from "does it hold the zero value?". The canonical wrapper is
// Optional[T], but the engine dispatches on shape, not on a concrete type.
// In priority order, a field is considered provided when:
//
//  1. its type has an IsSet() bool method (Optional[T] and friends),
//  2. it is a struct with an exported bool Valid or Set field,
//  3. it is a slice, array, or map with nonzero length,
//  4. it is a non-nil pointer or interface,
//  5. it is comparable and not equal to its zero value.
//
// Unknown shapes are treated as absent rather than erroring. The explicit
// capabilities win over value inference because value inference cannot tell
// "explicitly set to zero" apart from "never set".
//
// # Error aggregation
//
// A single Context is threaded through every recursive conversion step.
// Problems never short-circuit the traversal: every field is attempted and
// every error is recorded with a qualified field path (for example
// "labels[2].value.contact"), so one call surfaces the complete diagnostic
// picture. Oneof groups are validated on the way in: when more than one
// member of a group is provided, the first declared member wins, the
// violation is recorded, and the byte-producing entry point fails.
//
// # Entry points
//
// Codec[T] is the facade for one top-level message type:
//
//	codec, err := bridge.NewCodec[Person](personDescriptor)
//	if err != nil { ... }
//
//	data, err := codec.ToBytes(ctx, person)   // native -> bytes
//	person, err = codec.FromBytes(ctx, data)  // bytes -> native
//
// ToBytes refuses to serialize when conversion recorded errors; FromBytes
// reports malformed input as a parse failure before any field conversion
// runs, and discards partial results on conversion failure. Both error
// kinds are distinct from conversion errors and matchable with errors.Is
// against ErrSerialize and ErrParse.
//
// # Concurrency
//
// Codecs are immutable after construction and safe for concurrent use. Each
// call allocates a fresh wire message and Context; the engine introduces no
// shared mutable state and requires no locking as long as the caller does
// not mutate the input concurrently.
//
// # Subpackages
//
//   - schema: descriptor-set loading and YAML-configured schema sets
//   - store: etcd- and redis-backed distribution of serialized schemas
//   - grpccodec: a gRPC encoding.Codec that speaks native structs
//   - validate: CEL rules evaluated against converted messages
package bridge
