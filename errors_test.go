package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	e := &Error{Op: "Codec.ToBytes", Kind: KindConversion, Err: errors.New("boom")}
	assert.Equal(t, "bridge: Codec.ToBytes (conversion): boom", e.Error())

	bare := &Error{Op: "Codec.ToBytes", Kind: KindConversion}
	assert.Equal(t, "bridge: Codec.ToBytes: conversion", bare.Error())
}

func TestErrorUnwrapAndIs(t *testing.T) {
	e := newConversionError("Codec.ToBytes", []ConversionError{{FieldPath: "contact", Message: "conflict"}})

	assert.ErrorIs(t, e, ErrConversion)
	assert.NotErrorIs(t, e, ErrParse)
	assert.Contains(t, e.Error(), "contact: conflict")

	var structured *Error
	assert.ErrorAs(t, error(e), &structured)
	assert.Equal(t, KindConversion, structured.Kind)
}

func TestErrorIsMatchesKindAndOp(t *testing.T) {
	e := newParseError("Codec.FromBytes", errors.New("truncated"))

	assert.ErrorIs(t, e, &Error{Kind: KindParse})
	assert.ErrorIs(t, e, &Error{Kind: KindParse, Op: "Codec.FromBytes"})
	assert.NotErrorIs(t, e, &Error{Kind: KindParse, Op: "Codec.ToBytes"})
	assert.NotErrorIs(t, e, &Error{Kind: KindSerialize})
}

func TestKindConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
		kind     string
	}{
		{"serialize", newSerializeError("op", errors.New("x")), ErrSerialize, KindSerialize},
		{"parse", newParseError("op", errors.New("x")), ErrParse, KindParse},
		{"binding", newBindingError("op", errors.New("x")), ErrBinding, KindBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}
