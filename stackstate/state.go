package stackstate

import (
	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/errors"
)

type kind uint8

const (
	kindNil kind = iota
	kindInt
	kindFloat
	kindString
	kindUserData
	kindClosure
)

type closure struct {
	fn  scriptbridge.NativeFunc
	ctx any
}

type value struct {
	ud any
	cl closure
	s  string
	i  int64
	f  float64
	k  kind
}

// State is an in-memory value stack implementing the runtime surface the
// bridge calls against. Arguments of the executing call live at slots 1..n;
// negative slots address from the top of the stack (-1 is the top).
//
// Not safe for concurrent use; a State models one call stack.
type State struct {
	stack []value
	base  int // index of slot 1 for the executing call
	ctx   any
	err   error
}

// New creates an empty stack.
func New() *State {
	return &State{}
}

// PushInteger pushes an integer value.
func (s *State) PushInteger(v int64) {
	s.stack = append(s.stack, value{k: kindInt, i: v})
}

// PushNumber pushes a floating-point value.
func (s *State) PushNumber(v float64) {
	s.stack = append(s.stack, value{k: kindFloat, f: v})
}

// PushString pushes a text value. The stack keeps its own reference.
func (s *State) PushString(v string) {
	s.stack = append(s.stack, value{k: kindString, s: v})
}

// PushUserData pushes an opaque boxed user value.
func (s *State) PushUserData(ud any) {
	s.stack = append(s.stack, value{k: kindUserData, ud: ud})
}

// PushClosure pushes a native closure: entry point plus opaque context.
func (s *State) PushClosure(fn scriptbridge.NativeFunc, ctx any) {
	s.stack = append(s.stack, value{k: kindClosure, cl: closure{fn: fn, ctx: ctx}})
}

func (s *State) at(slot int) value {
	var idx int
	switch {
	case slot > 0:
		idx = s.base + slot - 1
	case slot < 0:
		idx = len(s.stack) + slot
	default:
		return value{}
	}
	if idx < 0 || idx >= len(s.stack) {
		return value{}
	}
	return s.stack[idx]
}

// ToInteger reads the slot as an integer, converting from float if needed.
// Non-numeric slots read as 0.
func (s *State) ToInteger(slot int) int64 {
	switch v := s.at(slot); v.k {
	case kindInt:
		return v.i
	case kindFloat:
		return int64(v.f)
	}
	return 0
}

// ToNumber reads the slot as a floating-point number. Non-numeric slots read
// as 0.
func (s *State) ToNumber(slot int) float64 {
	switch v := s.at(slot); v.k {
	case kindFloat:
		return v.f
	case kindInt:
		return float64(v.i)
	}
	return 0
}

// ToString reads the slot as text. The result borrows the stack's storage;
// it stays valid only until the next stack mutation.
func (s *State) ToString(slot int) string {
	if v := s.at(slot); v.k == kindString {
		return v.s
	}
	return ""
}

// ToUserData reads the slot as an opaque boxed user value, or nil.
func (s *State) ToUserData(slot int) any {
	if v := s.at(slot); v.k == kindUserData {
		return v.ud
	}
	return nil
}

// IsUserData reports whether the slot holds an opaque boxed user value.
func (s *State) IsUserData(slot int) bool {
	return s.at(slot).k == kindUserData
}

// Context returns the opaque reference stored with the executing closure.
func (s *State) Context() any {
	return s.ctx
}

// RaiseError marks the executing call as failed. The first raise wins.
func (s *State) RaiseError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Top returns the number of values on the stack.
func (s *State) Top() int {
	return len(s.stack)
}

// Pop removes the top n values.
func (s *State) Pop(n int) {
	if n > len(s.stack) {
		n = len(s.stack)
	}
	s.stack = s.stack[:len(s.stack)-n]
}

// Call invokes the closure sitting below nargs argument values: the stack
// must look like [... closure a1 .. an]. The closure and arguments are
// consumed; on success the call's results (0 or 1 values) replace them and
// their count is returned. On a raised runtime error the stack is truncated
// to where the closure sat and no results remain.
func (s *State) Call(nargs int) (int, error) {
	fnIdx := len(s.stack) - nargs - 1
	if fnIdx < 0 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindNotAFunction).
			Detail("stack underflow: %d values for %d arguments", len(s.stack), nargs).
			Build()
	}
	fn := s.stack[fnIdx]
	if fn.k != kindClosure {
		return 0, errors.New(errors.PhaseRuntime, errors.KindNotAFunction).
			Detail("value below arguments is not callable").
			Build()
	}

	prevBase, prevCtx, prevErr := s.base, s.ctx, s.err
	s.base = fnIdx + 1
	s.ctx = fn.cl.ctx
	s.err = nil

	n := fn.cl.fn(s)
	raised := s.err

	s.base, s.ctx, s.err = prevBase, prevCtx, prevErr

	if raised != nil {
		s.stack = s.stack[:fnIdx]
		return 0, raised
	}

	results := s.stack[len(s.stack)-n:]
	s.stack = append(s.stack[:fnIdx], results...)
	return n, nil
}
