package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionalZeroValueIsUnset(t *testing.T) {
	var o Optional[int]

	assert.False(t, o.IsSet())
	assert.Equal(t, 0, o.Get())
}

func TestNewOptional(t *testing.T) {
	o := NewOptional("hello")

	assert.True(t, o.IsSet())
	assert.Equal(t, "hello", o.Get())
}

func TestOptionalSetToZeroValueIsStillSet(t *testing.T) {
	// Explicit presence: zero payload and absent are different states.
	o := NewOptional(0)

	assert.True(t, o.IsSet())
	assert.Equal(t, 0, o.Get())
}

func TestOptionalSetAndClear(t *testing.T) {
	var o Optional[string]

	o.Set("value")
	assert.True(t, o.IsSet())
	assert.Equal(t, "value", o.Get())

	o.Clear()
	assert.False(t, o.IsSet())
	assert.Equal(t, "", o.Get())
}

func TestOptionalGetOr(t *testing.T) {
	var unset Optional[int]
	assert.Equal(t, 42, unset.GetOr(42))

	set := NewOptional(7)
	assert.Equal(t, 7, set.GetOr(42))
}
