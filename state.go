package scriptbridge

// NativeFunc is the uniform entry point every registered callable exposes to
// the host runtime. The runtime invokes it with its arguments already on the
// stack at slots 1..n and receives back the number of result values pushed
// (0 or 1).
type NativeFunc func(State) int

// State is the minimal stack surface of a host scripting runtime. The bridge
// communicates with the runtime exclusively through this interface: it reads
// call arguments from 1-based slots, pushes result values, and raises
// runtime-level errors. Implementations decide how values are actually
// represented; the bridge never looks behind this surface.
//
// Slot numbering follows the runtime convention: the first argument of a call
// lives at slot 1.
type State interface {
	// PushInteger pushes an integer result value.
	PushInteger(v int64)

	// PushNumber pushes a floating-point result value.
	PushNumber(v float64)

	// PushString pushes a text result value. The runtime owns the storage it
	// copies the text into.
	PushString(s string)

	// PushUserData pushes an opaque boxed user value. The runtime stores the
	// reference as-is and hands it back through ToUserData.
	PushUserData(ud any)

	// ToInteger reads the slot as an integer. Reading a non-numeric slot
	// yields the runtime's conversion behavior, typically zero.
	ToInteger(slot int) int64

	// ToNumber reads the slot as a floating-point number.
	ToNumber(slot int) float64

	// ToString reads the slot as text. The result borrows the runtime's
	// internal storage and is only valid until the next stack mutation.
	ToString(slot int) string

	// ToUserData reads the slot as an opaque boxed user value, or nil if the
	// slot does not hold one.
	ToUserData(slot int) any

	// IsUserData reports whether the slot holds an opaque boxed user value.
	IsUserData(slot int) bool

	// PushClosure installs a native closure: a fixed-signature entry point
	// plus an opaque context reference the runtime must preserve and expose
	// through Context on every invocation of fn.
	PushClosure(fn NativeFunc, ctx any)

	// Context returns the opaque reference stored with the currently
	// executing closure.
	Context() any

	// RaiseError marks the current call as failed with a runtime-level
	// error. The bridge returns to the runtime immediately after raising;
	// how the error unwinds from there is the runtime's concern.
	RaiseError(err error)
}
