package bridge

import (
	"strings"

	"github.com/google/uuid"
)

// ConversionError is a single field-level conversion problem, located by a
// dotted field path (with [i] qualifiers for repeated and map elements).
type ConversionError struct {
	// FieldPath locates the failing field within the message tree
	// (e.g., "labels[2].value.contact"). Empty for message-level errors.
	FieldPath string

	// Message is the human-readable description of the problem.
	Message string
}

// Context accumulates ConversionErrors during a single top-level conversion
// call. It is created fresh per call, threaded by pointer through every
// recursive step, and discarded when the call returns.
//
// A Context is not safe for concurrent use; concurrent conversions must each
// supply their own.
type Context struct {
	id   string
	errs []ConversionError
}

// NewContext returns an empty Context with a unique correlation ID, used to
// tie log records from one conversion call together.
func NewContext() *Context {
	return &Context{id: uuid.NewString()}
}

// ID returns the correlation ID assigned at construction.
func (c *Context) ID() string {
	return c.id
}

// AddError appends a ConversionError. It never fails, never deduplicates,
// and preserves insertion order.
func (c *Context) AddError(fieldPath, message string) {
	c.errs = append(c.errs, ConversionError{FieldPath: fieldPath, Message: message})
}

// HasErrors reports whether any errors have been recorded.
func (c *Context) HasErrors() bool {
	return len(c.errs) > 0
}

// Errors returns a copy of the recorded errors in insertion order.
func (c *Context) Errors() []ConversionError {
	out := make([]ConversionError, len(c.errs))
	copy(out, c.errs)
	return out
}

// FormatErrors renders a sequence of ConversionErrors as one human-readable
// string: each entry as "fieldPath: message" (the path prefix is omitted when
// the path is empty), entries joined by "; ", in input order.
//
// An empty sequence formats to a fixed fallback message. That path should be
// unreachable through the public entry points, which only format when errors
// were recorded.
func FormatErrors(errs []ConversionError) string {
	var b strings.Builder
	for _, e := range errs {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		if e.FieldPath != "" {
			b.WriteString(e.FieldPath)
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
	}
	if b.Len() == 0 {
		return "unknown conversion error"
	}
	return b.String()
}
