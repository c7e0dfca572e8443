package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextAddErrorPreservesOrder(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.HasErrors())

	ctx.AddError("a.b", "first")
	ctx.AddError("a.b", "first") // duplicates are kept
	ctx.AddError("c", "second")

	assert.True(t, ctx.HasErrors())
	errs := ctx.Errors()
	assert.Equal(t, []ConversionError{
		{FieldPath: "a.b", Message: "first"},
		{FieldPath: "a.b", Message: "first"},
		{FieldPath: "c", Message: "second"},
	}, errs)
}

func TestContextErrorsReturnsCopy(t *testing.T) {
	ctx := NewContext()
	ctx.AddError("x", "boom")

	errs := ctx.Errors()
	errs[0].Message = "mutated"

	assert.Equal(t, "boom", ctx.Errors()[0].Message)
}

func TestContextIDsAreUnique(t *testing.T) {
	a := NewContext()
	b := NewContext()

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		errs     []ConversionError
		expected string
	}{
		{
			name:     "single error with path",
			errs:     []ConversionError{{FieldPath: "contact", Message: "multiple values provided for oneof"}},
			expected: "contact: multiple values provided for oneof",
		},
		{
			name: "multiple errors joined in order",
			errs: []ConversionError{
				{FieldPath: "labels[2].value.contact", Message: "multiple values provided for oneof"},
				{FieldPath: "contact", Message: "multiple values provided for oneof"},
			},
			expected: "labels[2].value.contact: multiple values provided for oneof; contact: multiple values provided for oneof",
		},
		{
			name:     "empty path omits the prefix",
			errs:     []ConversionError{{FieldPath: "", Message: "something went wrong"}},
			expected: "something went wrong",
		},
		{
			name:     "no errors yields the fallback message",
			errs:     nil,
			expected: "unknown conversion error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatErrors(tt.errs))
		})
	}
}
