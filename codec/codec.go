package codec

import (
	"reflect"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/errors"
)

// Kind is the conversion category a native type compiles to.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindUser
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindString:  "string",
	KindUser:    "user",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Compiled is the conversion strategy for one native type, resolved once at
// registration time. The per-call path dispatches on the precompiled Kind
// with no further type inspection.
type Compiled struct {
	typ  reflect.Type
	kind Kind
}

// Compile resolves the conversion strategy for a native type. Named integer
// types (enumerations) compile to their underlying integer category; there
// is no symbolic round-trip. Structs and pointers to structs compile to the
// boxed user-value category.
func Compile(t reflect.Type) (*Compiled, error) {
	switch t.Kind() {
	case reflect.Bool:
		return &Compiled{typ: t, kind: KindBool}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Compiled{typ: t, kind: KindInt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Compiled{typ: t, kind: KindUint}, nil
	case reflect.Float32, reflect.Float64:
		return &Compiled{typ: t, kind: KindFloat}, nil
	case reflect.String:
		return &Compiled{typ: t, kind: KindString}, nil
	case reflect.Struct:
		return &Compiled{typ: t, kind: KindUser}, nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return &Compiled{typ: t, kind: KindUser}, nil
		}
	}
	return nil, errors.New(errors.PhaseRegister, errors.KindUnsupported).
		GoType(t.String()).
		Detail("no conversion for this type").
		Build()
}

// Kind returns the compiled conversion category.
func (c *Compiled) Kind() Kind {
	return c.kind
}

// Type returns the native type this codec was compiled for.
func (c *Compiled) Type() reflect.Type {
	return c.typ
}

// Write pushes one value onto the runtime stack and returns the number of
// slots produced, always 1. Numeric values convert directly with no range
// checking. For the user category the value must already be boxed; the
// policy layer decides copy versus reference before writing.
func (c *Compiled) Write(st scriptbridge.State, v reflect.Value) (int, error) {
	switch c.kind {
	case KindBool:
		if v.Bool() {
			st.PushInteger(1)
		} else {
			st.PushInteger(0)
		}
	case KindInt:
		st.PushInteger(v.Int())
	case KindUint:
		st.PushInteger(int64(v.Uint()))
	case KindFloat:
		st.PushNumber(v.Float())
	case KindString:
		st.PushString(v.String())
	case KindUser:
		b, ok := v.Interface().(*box.Box)
		if !ok {
			return 0, errors.New(errors.PhaseReturn, errors.KindTypeMismatch).
				GoType(c.typ.String()).
				Detail("user value written without boxing").
				Build()
		}
		st.PushUserData(b)
	default:
		return 0, errors.Unsupported(errors.PhaseReturn, c.typ.String())
	}
	return 1, nil
}

// Read converts the runtime stack slot into a value of the compiled type.
// slot is the 1-based runtime position. Text reads borrow the runtime's
// storage; the result must be used before the next stack mutation, or
// copied. A user-category slot that does not hold a boxed value fails with
// an argument-type-mismatch carrying the slot index.
func (c *Compiled) Read(st scriptbridge.State, slot int) (reflect.Value, error) {
	if c.kind == KindUser {
		return c.readUser(st, slot)
	}

	out := reflect.New(c.typ).Elem()
	switch c.kind {
	case KindBool:
		out.SetBool(st.ToInteger(slot) != 0)
	case KindInt:
		out.SetInt(st.ToInteger(slot))
	case KindUint:
		out.SetUint(uint64(st.ToInteger(slot)))
	case KindFloat:
		out.SetFloat(st.ToNumber(slot))
	case KindString:
		out.SetString(st.ToString(slot))
	default:
		return reflect.Value{}, errors.Unsupported(errors.PhaseConvert, c.typ.String())
	}
	return out, nil
}

func (c *Compiled) readUser(st scriptbridge.State, slot int) (reflect.Value, error) {
	if !st.IsUserData(slot) {
		return reflect.Value{}, errors.ExpectingUserData(slot)
	}
	b, ok := st.ToUserData(slot).(*box.Box)
	if !ok {
		return reflect.Value{}, errors.ExpectingUserData(slot)
	}

	if c.typ.Kind() == reflect.Pointer {
		if b.Type() != c.typ.Elem() {
			return reflect.Value{}, errors.BoxMismatch(slot, c.typ.String(), b.Type().String())
		}
		// Alias the box's storage so mutations through the parameter are
		// visible through the box.
		return b.Value().Addr(), nil
	}

	if b.Type() != c.typ {
		return reflect.Value{}, errors.BoxMismatch(slot, c.typ.String(), b.Type().String())
	}
	return b.Value(), nil
}
