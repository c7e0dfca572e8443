package bridge

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// oneofConflictMessage is recorded when more than one member of the same
// oneof group is provided on the native side during forward conversion.
const oneofConflictMessage = "multiple values provided for oneof"

// fieldClass is the structural category of one bound field.
type fieldClass uint8

const (
	classScalar  fieldClass = iota // singular scalar or enum
	classMessage                   // singular nested message
	classList                      // repeated scalar or message
	classMap                       // proto map field, native entry slice
)

// binding ties one proto field descriptor to one native struct field,
// together with everything the engine needs to move values across: the
// resolved presence/unwrap/assignment strategy and, for message-typed
// fields, the child converter.
type binding struct {
	fd     protoreflect.FieldDescriptor
	name   string
	index  int
	class  fieldClass
	access fieldAccess

	child *converter   // nested message converter, nil for scalar fields
	slice reflect.Type // native slice type for lists and maps
	elem  reflect.Type // native element type for lists and maps

	key   *entryBinding // map key binding, classMap only
	value *entryBinding // map value binding, classMap only
}

// entryBinding binds one field of a map entry struct (key or value).
type entryBinding struct {
	fd     protoreflect.FieldDescriptor
	index  int
	access fieldAccess
	child  *converter
}

// oneofGroup is one non-synthetic oneof declaration with the indexes of its
// member bindings, in declaration order.
type oneofGroup struct {
	od      protoreflect.OneofDescriptor
	name    string
	members []int
}

// converter is the compiled two-directional mapping between one native
// struct type and one message descriptor. Compilation resolves every
// per-field strategy once; the conversion calls themselves do no shape
// re-derivation.
type converter struct {
	typ    reflect.Type
	desc   protoreflect.MessageDescriptor
	fields []binding
	oneofs []oneofGroup
	byName map[protoreflect.Name]int
}

type converterKey struct {
	typ  reflect.Type
	name protoreflect.FullName
}

// compileConverter builds (or reuses from cache) a converter for the given
// native struct type and message descriptor. The cache entry is registered
// before children are compiled so recursive schemas terminate.
func compileConverter(t reflect.Type, desc protoreflect.MessageDescriptor, cache map[converterKey]*converter) (*converter, error) {
	key := converterKey{typ: t, name: desc.FullName()}
	if c, ok := cache[key]; ok {
		return c, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("message %s requires a native struct type, got %s", desc.FullName(), t)
	}

	c := &converter{
		typ:    t,
		desc:   desc,
		byName: make(map[protoreflect.Name]int),
	}
	cache[key] = c

	fds := desc.Fields()
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		sf, err := nativeField(t, fd)
		if err != nil {
			return nil, err
		}

		b := binding{fd: fd, name: string(fd.Name()), index: sf.Index[0]}

		switch {
		case fd.IsMap():
			if err := compileMapBinding(&b, sf, fd, cache); err != nil {
				return nil, err
			}
		case fd.IsList():
			if err := compileListBinding(&b, sf, fd, cache); err != nil {
				return nil, err
			}
		case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
			b.class = classMessage
			b.access = resolveAccess(sf.Type)
			child, err := compileConverter(b.access.raw, fd.Message(), cache)
			if err != nil {
				return nil, err
			}
			b.child = child
		default:
			b.class = classScalar
			b.access = resolveAccess(sf.Type)
			if err := checkScalarBinding(fd, b.access.raw); err != nil {
				return nil, err
			}
		}

		c.byName[fd.Name()] = len(c.fields)
		c.fields = append(c.fields, b)
	}

	ods := desc.Oneofs()
	for i := 0; i < ods.Len(); i++ {
		od := ods.Get(i)
		if od.IsSynthetic() {
			continue
		}
		g := oneofGroup{od: od, name: string(od.Name())}
		mfds := od.Fields()
		for j := 0; j < mfds.Len(); j++ {
			g.members = append(g.members, c.byName[mfds.Get(j).Name()])
		}
		c.oneofs = append(c.oneofs, g)
	}

	return c, nil
}

func compileListBinding(b *binding, sf reflect.StructField, fd protoreflect.FieldDescriptor, cache map[converterKey]*converter) error {
	b.class = classList
	if sf.Type.Kind() != reflect.Slice {
		return fmt.Errorf("repeated field %s requires a native slice, got %s", fd.FullName(), sf.Type)
	}
	b.slice = sf.Type
	b.elem = sf.Type.Elem()
	b.access = resolveAccess(sf.Type)
	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		child, err := compileConverter(b.elem, fd.Message(), cache)
		if err != nil {
			return err
		}
		b.child = child
		return nil
	}
	return checkScalarBinding(fd, b.elem)
}

func compileMapBinding(b *binding, sf reflect.StructField, fd protoreflect.FieldDescriptor, cache map[converterKey]*converter) error {
	b.class = classMap
	if sf.Type.Kind() != reflect.Slice || sf.Type.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("map field %s requires a native entry slice, got %s", fd.FullName(), sf.Type)
	}
	b.slice = sf.Type
	b.elem = sf.Type.Elem()
	b.access = resolveAccess(sf.Type)

	entry := fd.Message()
	kb, err := compileEntryBinding(b.elem, entry.Fields().ByName("key"), cache)
	if err != nil {
		return err
	}
	vb, err := compileEntryBinding(b.elem, entry.Fields().ByName("value"), cache)
	if err != nil {
		return err
	}
	b.key = kb
	b.value = vb
	return nil
}

func compileEntryBinding(entryType reflect.Type, fd protoreflect.FieldDescriptor, cache map[converterKey]*converter) (*entryBinding, error) {
	sf, err := nativeField(entryType, fd)
	if err != nil {
		return nil, err
	}
	eb := &entryBinding{fd: fd, index: sf.Index[0], access: resolveAccess(sf.Type)}
	if fd.Kind() == protoreflect.MessageKind {
		child, err := compileConverter(eb.access.raw, fd.Message(), cache)
		if err != nil {
			return nil, err
		}
		eb.child = child
		return eb, nil
	}
	return eb, checkScalarBinding(fd, eb.access.raw)
}

// nativeField locates the struct field bound to a proto field: first by an
// explicit `bridge:"<proto_name>"` tag, then by the CamelCase form of the
// proto field name.
func nativeField(t reflect.Type, fd protoreflect.FieldDescriptor) (reflect.StructField, error) {
	name := string(fd.Name())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag, ok := f.Tag.Lookup("bridge"); ok && tag == name {
			if !f.IsExported() {
				return reflect.StructField{}, fmt.Errorf("field %s.%s bound to %s must be exported", t, f.Name, fd.FullName())
			}
			return f, nil
		}
	}
	if f, ok := t.FieldByName(camelCase(name)); ok && f.IsExported() && len(f.Index) == 1 {
		if _, tagged := f.Tag.Lookup("bridge"); !tagged {
			return f, nil
		}
	}
	return reflect.StructField{}, fmt.Errorf("no native field on %s for %s", t, fd.FullName())
}

// camelCase converts a snake_case proto field name to the exported Go form
// ("created_by" becomes "CreatedBy").
func camelCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// checkScalarBinding verifies at compile time that a native raw type can
// carry the proto field's scalar kind, so the per-call conversion functions
// cannot fail.
func checkScalarBinding(fd protoreflect.FieldDescriptor, raw reflect.Type) error {
	ok := false
	switch fd.Kind() {
	case protoreflect.BoolKind:
		ok = raw.Kind() == reflect.Bool
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		ok = isSignedInt(raw.Kind())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		ok = isUnsignedInt(raw.Kind())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		ok = raw.Kind() == reflect.Float32 || raw.Kind() == reflect.Float64
	case protoreflect.StringKind:
		ok = raw.Kind() == reflect.String
	case protoreflect.BytesKind:
		ok = raw.Kind() == reflect.Slice && raw.Elem().Kind() == reflect.Uint8
	case protoreflect.EnumKind:
		ok = isSignedInt(raw.Kind())
	default:
		return fmt.Errorf("unsupported field kind %v for %s", fd.Kind(), fd.FullName())
	}
	if !ok {
		return fmt.Errorf("native type %s cannot carry %v field %s", raw, fd.Kind(), fd.FullName())
	}
	return nil
}

func isSignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// scalarToProto converts an unwrapped native value to a protoreflect value.
// Binding compilation guarantees the kinds line up, so this cannot fail.
func scalarToProto(fd protoreflect.FieldDescriptor, raw reflect.Value) protoreflect.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return protoreflect.ValueOfBool(raw.Bool())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return protoreflect.ValueOfInt32(int32(raw.Int()))
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return protoreflect.ValueOfInt64(raw.Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return protoreflect.ValueOfUint32(uint32(raw.Uint()))
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return protoreflect.ValueOfUint64(raw.Uint())
	case protoreflect.FloatKind:
		return protoreflect.ValueOfFloat32(float32(raw.Float()))
	case protoreflect.DoubleKind:
		return protoreflect.ValueOfFloat64(raw.Float())
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(sanitizeUTF8(raw.String()))
	case protoreflect.BytesKind:
		return protoreflect.ValueOfBytes(append([]byte(nil), raw.Bytes()...))
	default: // EnumKind, by elimination
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(raw.Int()))
	}
}

// protoToScalar converts a protoreflect value to the native raw type.
func protoToScalar(fd protoreflect.FieldDescriptor, pv protoreflect.Value, target reflect.Type) reflect.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return reflect.ValueOf(pv.Bool()).Convert(target)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return reflect.ValueOf(pv.Int()).Convert(target)
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return reflect.ValueOf(pv.Uint()).Convert(target)
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return reflect.ValueOf(pv.Float()).Convert(target)
	case protoreflect.StringKind:
		return reflect.ValueOf(pv.String()).Convert(target)
	case protoreflect.BytesKind:
		return reflect.ValueOf(append([]byte(nil), pv.Bytes()...)).Convert(target)
	default:
		return reflect.ValueOf(int64(pv.Enum())).Convert(target)
	}
}

// toMessage runs the forward direction: native struct into wire message.
// Fields are processed in descriptor declaration order. The only errors the
// forward direction can produce are oneof multiplicity violations, recorded
// in ctx; conversion always completes.
func (c *converter) toMessage(src reflect.Value, msg protoreflect.Message, ctx *Context, path string) {
	clearMessage(msg)

	var selected map[string]bool
	if len(c.oneofs) > 0 {
		selected = make(map[string]bool, len(c.oneofs))
	}

	for i := range c.fields {
		b := &c.fields[i]
		fv := src.Field(b.index)

		if od := b.fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
			if !b.access.isProvided(fv) {
				continue
			}
			group := string(od.Name())
			if selected[group] {
				if ctx != nil {
					ctx.AddError(joinPath(path, group), oneofConflictMessage)
				}
				continue
			}
			selected[group] = true
			c.writeSingular(b, fv, msg, ctx, joinPath(path, b.name))
			continue
		}

		switch b.class {
		case classList:
			c.writeList(b, fv, msg, ctx, joinPath(path, b.name))
		case classMap:
			c.writeMap(b, fv, msg, ctx, joinPath(path, b.name))
		default:
			if !b.access.isProvided(fv) {
				continue
			}
			c.writeSingular(b, fv, msg, ctx, joinPath(path, b.name))
		}
	}
}

func (c *converter) writeSingular(b *binding, fv reflect.Value, msg protoreflect.Message, ctx *Context, path string) {
	raw := b.access.rawValue(fv)
	if b.child != nil {
		sub := msg.NewField(b.fd)
		b.child.toMessage(raw, sub.Message(), ctx, path)
		msg.Set(b.fd, sub)
		return
	}
	msg.Set(b.fd, scalarToProto(b.fd, raw))
}

func (c *converter) writeList(b *binding, fv reflect.Value, msg protoreflect.Message, ctx *Context, path string) {
	n := fv.Len()
	if n == 0 {
		return
	}
	lv := msg.NewField(b.fd)
	list := lv.List()
	for i := 0; i < n; i++ {
		if b.child != nil {
			ev := list.NewElement()
			b.child.toMessage(fv.Index(i), ev.Message(), ctx, elemPath(path, i))
			list.Append(ev)
		} else {
			list.Append(scalarToProto(b.fd, fv.Index(i)))
		}
	}
	msg.Set(b.fd, lv)
}

// writeMap writes native entries through the wire map. Wire map semantics
// apply: a duplicated key keeps the last entry's value. Entry-list schemas
// (an explicit repeated entry message) go through writeList instead and keep
// duplicates.
func (c *converter) writeMap(b *binding, fv reflect.Value, msg protoreflect.Message, ctx *Context, path string) {
	n := fv.Len()
	if n == 0 {
		return
	}
	mv := msg.NewField(b.fd)
	m := mv.Map()
	for i := 0; i < n; i++ {
		entry := fv.Index(i)

		kf := entry.Field(b.key.index)
		kraw := reflect.Zero(b.key.access.raw)
		if b.key.access.isProvided(kf) {
			kraw = b.key.access.rawValue(kf)
		}
		mk := scalarToProto(b.key.fd, kraw).MapKey()

		vf := entry.Field(b.value.index)
		if b.value.child != nil {
			ev := m.NewValue()
			if b.value.access.isProvided(vf) {
				b.value.child.toMessage(b.value.access.rawValue(vf), ev.Message(), ctx, mapPath(path, mk))
			}
			m.Set(mk, ev)
		} else {
			vraw := reflect.Zero(b.value.access.raw)
			if b.value.access.isProvided(vf) {
				vraw = b.value.access.rawValue(vf)
			}
			m.Set(mk, scalarToProto(b.value.fd, vraw))
		}
	}
	msg.Set(b.fd, mv)
}

// fromMessage runs the reverse direction: wire message into native struct.
// dst must be an addressable value of the converter's native type; it is
// reset to the zero value first so absent wire fields come out unset.
//
// The return value is true iff every nested conversion succeeded and ctx (if
// non-nil) recorded no errors. A failure does not stop sibling fields from
// being converted; errors aggregate so the caller sees every problem in one
// pass.
func (c *converter) fromMessage(msg protoreflect.Message, dst reflect.Value, ctx *Context, path string) bool {
	dst.Set(reflect.Zero(c.typ))
	ok := true

	for _, g := range c.oneofs {
		active := msg.WhichOneof(g.od)
		if active == nil {
			continue
		}
		i, found := c.byName[active.Name()]
		if !found {
			continue
		}
		b := &c.fields[i]
		ok = c.readSingular(b, msg, dst.Field(b.index), ctx, joinPath(path, b.name)) && ok
	}

	for i := range c.fields {
		b := &c.fields[i]
		if od := b.fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
			continue
		}
		fp := joinPath(path, b.name)
		switch b.class {
		case classList:
			ok = c.readList(b, msg, dst.Field(b.index), ctx, fp) && ok
		case classMap:
			ok = c.readMap(b, msg, dst.Field(b.index), ctx, fp) && ok
		default:
			if !msg.Has(b.fd) {
				continue
			}
			ok = c.readSingular(b, msg, dst.Field(b.index), ctx, fp) && ok
		}
	}

	return ok && (ctx == nil || !ctx.HasErrors())
}

func (c *converter) readSingular(b *binding, msg protoreflect.Message, dstField reflect.Value, ctx *Context, path string) bool {
	if b.child != nil {
		sub := reflect.New(b.child.typ).Elem()
		ok := b.child.fromMessage(msg.Get(b.fd).Message(), sub, ctx, path)
		b.access.setRaw(dstField, sub)
		return ok
	}
	b.access.setRaw(dstField, protoToScalar(b.fd, msg.Get(b.fd), b.access.raw))
	return true
}

func (c *converter) readList(b *binding, msg protoreflect.Message, dstField reflect.Value, ctx *Context, path string) bool {
	list := msg.Get(b.fd).List()
	n := list.Len()
	if n == 0 {
		return true
	}
	out := reflect.MakeSlice(b.slice, 0, n)
	ok := true
	for i := 0; i < n; i++ {
		if b.child != nil {
			sub := reflect.New(b.elem).Elem()
			ok = b.child.fromMessage(list.Get(i).Message(), sub, ctx, elemPath(path, i)) && ok
			out = reflect.Append(out, sub)
		} else {
			out = reflect.Append(out, protoToScalar(b.fd, list.Get(i), b.elem))
		}
	}
	dstField.Set(out)
	return ok
}

// readMap materializes a wire map as a native entry slice. Wire maps carry
// no order, so keys are visited in sorted order for deterministic output.
func (c *converter) readMap(b *binding, msg protoreflect.Message, dstField reflect.Value, ctx *Context, path string) bool {
	m := msg.Get(b.fd).Map()
	if m.Len() == 0 {
		return true
	}

	keys := make([]protoreflect.MapKey, 0, m.Len())
	m.Range(func(k protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, k)
		return true
	})
	sortMapKeys(b.fd.MapKey().Kind(), keys)

	out := reflect.MakeSlice(b.slice, 0, len(keys))
	ok := true
	for _, k := range keys {
		entry := reflect.New(b.elem).Elem()
		b.key.access.setRaw(entry.Field(b.key.index), protoToScalar(b.key.fd, k.Value(), b.key.access.raw))

		v := m.Get(k)
		if b.value.child != nil {
			sub := reflect.New(b.value.child.typ).Elem()
			ok = b.value.child.fromMessage(v.Message(), sub, ctx, mapPath(path, k)) && ok
			b.value.access.setRaw(entry.Field(b.value.index), sub)
		} else {
			b.value.access.setRaw(entry.Field(b.value.index), protoToScalar(b.value.fd, v, b.value.access.raw))
		}
		out = reflect.Append(out, entry)
	}
	dstField.Set(out)
	return ok
}

func sortMapKeys(kind protoreflect.Kind, keys []protoreflect.MapKey) {
	sort.Slice(keys, func(i, j int) bool {
		switch kind {
		case protoreflect.BoolKind:
			return !keys[i].Bool() && keys[j].Bool()
		case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
			protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
			return keys[i].Int() < keys[j].Int()
		case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
			protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
			return keys[i].Uint() < keys[j].Uint()
		default:
			return keys[i].String() < keys[j].String()
		}
	})
}

func clearMessage(msg protoreflect.Message) {
	msg.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		msg.Clear(fd)
		return true
	})
}

// joinPath joins a parent path and field name with a dot, omitting the dot
// when the parent is the message root.
func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func elemPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func mapPath(base string, k protoreflect.MapKey) string {
	return fmt.Sprintf("%s[%s]", base, k.String())
}
