package bridge

// Optional is a presence-aware wrapper around a value of type T.
//
// The zero value of Optional is unset. An unset Optional must never be read
// as holding a meaningful payload: Get returns the zero value of T when the
// marker is unset, and callers that need the distinction should check IsSet
// first (or use GetOr).
//
// Optional is the canonical native-side representation for proto fields with
// explicit presence. The conversion engine recognizes it through its IsSet,
// Get, and Set methods, so any type exposing the same shape works as well.
type Optional[T any] struct {
	value T
	set   bool
}

// NewOptional returns an Optional holding v with its presence marker set.
func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet reports whether the value was explicitly set. This is distinct from
// holding a non-zero value: NewOptional(0) is set, while the zero Optional
// is not.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the wrapped value. When the Optional is unset it returns the
// zero value of T; the result is only meaningful when IsSet reports true.
func (o Optional[T]) Get() T {
	return o.value
}

// GetOr returns the wrapped value when set, or def otherwise.
func (o Optional[T]) GetOr(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Set stores v and marks the Optional as set.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Clear resets the Optional to its unset state.
func (o *Optional[T]) Clear() {
	var zero T
	o.value = zero
	o.set = false
}
