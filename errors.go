package bridge

import (
	"errors"
	"fmt"
)

// Sentinel errors for common bridge failure conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrConversion indicates that field conversion between the native and
	// wire representations failed. The wrapped error carries the formatted
	// list of per-field conversion errors.
	ErrConversion = errors.New("conversion failed")

	// ErrSerialize indicates the wire library could not encode a converted
	// message to bytes. This is distinct from conversion errors: it is only
	// reported after conversion succeeded.
	ErrSerialize = errors.New("failed to serialize message")

	// ErrParse indicates the input bytes could not be decoded into a wire
	// message. Reported before any field conversion is attempted.
	ErrParse = errors.New("failed to parse message bytes")

	// ErrBinding indicates a native struct type could not be bound to a
	// message descriptor (missing field, incompatible kinds).
	ErrBinding = errors.New("invalid field binding")

	// ErrSchema indicates a requested message type was not found in a
	// schema set, or a descriptor did not match the expected message.
	ErrSchema = errors.New("unknown schema message")
)

// Error kinds categorize errors by their type.
const (
	// KindConversion represents aggregated per-field conversion errors.
	KindConversion = "conversion"

	// KindSerialize represents wire-library encode failures.
	KindSerialize = "serialize"

	// KindParse represents malformed-bytes decode failures.
	KindParse = "parse"

	// KindBinding represents native-type/descriptor binding failures.
	KindBinding = "binding"

	// KindSchema represents schema lookup or descriptor mismatch failures.
	KindSchema = "schema"
)

// Error is a structured error type that wraps underlying errors with the
// operation that failed and the category of error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g., "Codec.ToBytes").
	Op string

	// Kind categorizes the error (e.g., KindParse, KindConversion).
	Kind string

	// Err is the underlying error that caused this error.
	Err error
}

// Error implements the error interface, returning a formatted message that
// includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bridge: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("bridge: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on the
// underlying error or on another *Error's Kind and Op.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// newConversionError creates an Error with KindConversion whose underlying
// error wraps ErrConversion together with the formatted field errors.
func newConversionError(op string, errs []ConversionError) *Error {
	return &Error{
		Op:   op,
		Kind: KindConversion,
		Err:  fmt.Errorf("%w: %s", ErrConversion, FormatErrors(errs)),
	}
}

// newSerializeError creates an Error with KindSerialize.
func newSerializeError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindSerialize,
		Err:  fmt.Errorf("%w: %v", ErrSerialize, err),
	}
}

// newParseError creates an Error with KindParse.
func newParseError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindParse,
		Err:  fmt.Errorf("%w: %v", ErrParse, err),
	}
}

// newBindingError creates an Error with KindBinding.
func newBindingError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindBinding,
		Err:  fmt.Errorf("%w: %v", ErrBinding, err),
	}
}
