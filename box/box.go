package box

import (
	"reflect"
)

// Box wraps a user-defined native value for transport across the runtime
// boundary. A box either owns an independent copy of the value or references
// storage that lives elsewhere in the native program. The distinction is
// fixed at creation and never changes.
//
// A reference box must not outlive the value it refers to. The bridge does
// not track lifetimes; this is the obligation of whoever created the
// reference.
type Box struct {
	v     reflect.Value // addressable storage of the wrapped value
	isRef bool
}

// MakeCopy boxes an independent copy of v. Pointers are dereferenced so the
// box always owns a copy of the pointed-to value.
func MakeCopy(v any) *Box {
	return MakeCopyValue(reflect.ValueOf(v))
}

// MakeCopyValue is MakeCopy for an already-reflected value. A nil pointer
// boxes the zero value of the pointed-to type.
func MakeCopyValue(rv reflect.Value) *Box {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &Box{v: reflect.New(rv.Type().Elem()).Elem(), isRef: false}
		}
		rv = rv.Elem()
	}
	storage := reflect.New(rv.Type())
	storage.Elem().Set(rv)
	return &Box{v: storage.Elem(), isRef: false}
}

// MakeRef boxes a reference to the value v points to. Mutations through the
// box are visible through the original pointer and vice versa. A non-pointer
// v has no aliasable identity; the value itself becomes the box's storage.
func MakeRef(v any) *Box {
	return MakeRefValue(reflect.ValueOf(v))
}

// MakeRefValue is MakeRef for an already-reflected value. A nil pointer
// boxes the zero value of the pointed-to type.
func MakeRefValue(rv reflect.Value) *Box {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &Box{v: reflect.New(rv.Type().Elem()).Elem(), isRef: true}
		}
		return &Box{v: rv.Elem(), isRef: true}
	}
	storage := reflect.New(rv.Type())
	storage.Elem().Set(rv)
	return &Box{v: storage.Elem(), isRef: true}
}

// IsRef reports whether the box references external storage rather than
// owning a copy.
func (b *Box) IsRef() bool {
	return b.isRef
}

// Type returns the type of the wrapped value.
func (b *Box) Type() reflect.Type {
	return b.v.Type()
}

// Value returns the wrapped value as addressable storage. For a reference
// box this aliases the original value's storage; for a copy box it is the
// box's own.
func (b *Box) Value() reflect.Value {
	return b.v
}

// Interface returns a copy of the wrapped value as an interface.
func (b *Box) Interface() any {
	return b.v.Interface()
}

// As returns a pointer to the box's storage as *T, or false if the box does
// not hold a T. For a reference box the pointer aliases the original value.
func As[T any](b *Box) (*T, bool) {
	if b == nil || !b.v.IsValid() {
		return nil, false
	}
	if b.v.Type() != reflect.TypeFor[T]() {
		return nil, false
	}
	return b.v.Addr().Interface().(*T), true
}
