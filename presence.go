package bridge

import (
	"fmt"
	"reflect"
)

// isSetter is the capability used first when deciding whether a native field
// is populated. Optional[T] satisfies it; so does any user type with the
// same method.
type isSetter interface {
	IsSet() bool
}

var isSetterType = reflect.TypeOf((*isSetter)(nil)).Elem()

// presenceMode selects how "is this field provided?" is answered for one
// native field shape. The order of the constants mirrors the dispatch
// priority: an explicit presence capability always wins over value-based
// inference, because value-based inference cannot distinguish "explicitly
// set to the zero value" from "never set".
type presenceMode uint8

const (
	presenceMethod    presenceMode = iota // type has an IsSet() bool method
	presenceFlagField                     // struct has an exported bool Valid/Set field
	presenceLen                           // slice/array/map: provided means non-empty
	presenceNil                           // pointer/interface: provided means non-nil
	presenceZero                          // comparable: provided means != zero value
	presenceNever                         // unknown shape: treated as absent
)

// unwrapMode selects how the raw payload is extracted from a provided field.
type unwrapMode uint8

const (
	unwrapMethod     unwrapMode = iota // Get() T accessor
	unwrapValueField                   // exported Value struct field
	unwrapDeref                        // pointer indirection
	unwrapIdentity                     // the field itself is the raw value
)

// assignMode selects how the reverse conversion writes a raw payload back
// into a native field, marking presence where the shape supports it.
type assignMode uint8

const (
	assignMethod assignMode = iota // Set(T) on the pointer type
	assignFields                   // write Value field, raise the bool flag
	assignPtr                      // allocate and point at the raw value
	assignDirect                   // plain assignment
)

// fieldAccess is the resolved presence/unwrap/assignment strategy for one
// native field type. It is computed once when a converter is compiled, never
// re-derived per call.
type fieldAccess struct {
	presence presenceMode
	unwrap   unwrapMode
	assign   assignMode

	flagIndex  int // struct index of the bool presence field
	valueIndex int // struct index of the raw value field
	getIndex   int // method index of Get on the value type
	setIndex   int // method index of Set on the pointer type

	// raw is the unwrapped payload type the wire conversion operates on.
	raw reflect.Type
}

// resolveAccess inspects the shape of a native field type and fixes the
// strategies for presence testing, unwrapping, and reverse assignment.
func resolveAccess(t reflect.Type) fieldAccess {
	a := fieldAccess{flagIndex: -1, valueIndex: -1, getIndex: -1, setIndex: -1, raw: t}

	switch {
	case t.Implements(isSetterType):
		a.presence = presenceMethod
	case flagField(t) >= 0:
		a.presence = presenceFlagField
		a.flagIndex = flagField(t)
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map:
		a.presence = presenceLen
	case t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface:
		a.presence = presenceNil
	case t.Comparable():
		a.presence = presenceZero
	default:
		a.presence = presenceNever
	}

	if m, ok := t.MethodByName("Get"); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
		a.unwrap = unwrapMethod
		a.getIndex = m.Index
		a.raw = m.Type.Out(0)
	} else if f := valueField(t); f >= 0 {
		a.unwrap = unwrapValueField
		a.valueIndex = f
		a.raw = t.Field(f).Type
	} else if t.Kind() == reflect.Pointer {
		a.unwrap = unwrapDeref
		a.raw = t.Elem()
	} else {
		a.unwrap = unwrapIdentity
	}

	if m, ok := reflect.PointerTo(t).MethodByName("Set"); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 {
		a.assign = assignMethod
		a.setIndex = m.Index
	} else if a.presence == presenceFlagField && a.unwrap == unwrapValueField {
		a.assign = assignFields
	} else if t.Kind() == reflect.Pointer {
		a.assign = assignPtr
	} else {
		a.assign = assignDirect
	}

	return a
}

// valueField returns the struct index of an exported Value payload field,
// or -1.
func valueField(t reflect.Type) int {
	if t.Kind() != reflect.Struct {
		return -1
	}
	if f, ok := t.FieldByName("Value"); ok && f.IsExported() && len(f.Index) == 1 {
		return f.Index[0]
	}
	return -1
}

// flagField returns the struct index of an exported bool presence flag
// ("Valid" preferred, database/sql style, then "Set"), or -1.
func flagField(t reflect.Type) int {
	if t.Kind() != reflect.Struct {
		return -1
	}
	for _, name := range []string{"Valid", "Set"} {
		if f, ok := t.FieldByName(name); ok && f.IsExported() && f.Type.Kind() == reflect.Bool && len(f.Index) == 1 {
			return f.Index[0]
		}
	}
	return -1
}

// isProvided answers whether the native field value is populated, using the
// strategy resolved at compile time.
func (a fieldAccess) isProvided(v reflect.Value) bool {
	switch a.presence {
	case presenceMethod:
		return v.Interface().(isSetter).IsSet()
	case presenceFlagField:
		return v.Field(a.flagIndex).Bool()
	case presenceLen:
		return v.Len() > 0
	case presenceNil:
		return !v.IsNil()
	case presenceZero:
		return !v.IsZero()
	default:
		return false
	}
}

// rawValue extracts the unwrapped payload. Only meaningful when isProvided
// reported true; the result for an unprovided field is undefined by contract.
func (a fieldAccess) rawValue(v reflect.Value) reflect.Value {
	switch a.unwrap {
	case unwrapMethod:
		return v.Method(a.getIndex).Call(nil)[0]
	case unwrapValueField:
		return v.Field(a.valueIndex)
	case unwrapDeref:
		return v.Elem()
	default:
		return v
	}
}

// setRaw writes raw into the addressable native field dst, marking presence
// for shapes that track it explicitly.
func (a fieldAccess) setRaw(dst, raw reflect.Value) {
	switch a.assign {
	case assignMethod:
		dst.Addr().Method(a.setIndex).Call([]reflect.Value{raw})
	case assignFields:
		dst.Field(a.valueIndex).Set(raw)
		dst.Field(a.flagIndex).SetBool(true)
	case assignPtr:
		p := reflect.New(raw.Type())
		p.Elem().Set(raw)
		dst.Set(p)
	default:
		dst.Set(raw)
	}
}

func (m presenceMode) String() string {
	switch m {
	case presenceMethod:
		return "method"
	case presenceFlagField:
		return "flag-field"
	case presenceLen:
		return "length"
	case presenceNil:
		return "nil-check"
	case presenceZero:
		return "zero-compare"
	case presenceNever:
		return "never"
	default:
		return fmt.Sprintf("presenceMode(%d)", uint8(m))
	}
}
