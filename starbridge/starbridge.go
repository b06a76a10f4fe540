package starbridge

import (
	"fmt"

	"go.starlark.net/starlark"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/call"
)

// UserValue carries a boxed native value through a Starlark program. The
// script can pass it back into other bridged functions; it is opaque to
// Starlark itself.
type UserValue struct {
	Box *box.Box
}

func (u UserValue) String() string {
	return fmt.Sprintf("<native %s>", u.Box.Type())
}

func (u UserValue) Type() string { return "native" }

func (u UserValue) Freeze() {}

func (u UserValue) Truth() starlark.Bool { return starlark.True }

func (u UserValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: native")
}

// state adapts one builtin invocation to the bridge's stack surface: the
// positional args tuple backs slots 1..n and pushed values collect as the
// builtin's results.
type state struct {
	args    starlark.Tuple
	results []starlark.Value
	ctx     any
	err     error
}

func (s *state) PushInteger(v int64) { s.results = append(s.results, starlark.MakeInt64(v)) }

func (s *state) PushNumber(v float64) { s.results = append(s.results, starlark.Float(v)) }

func (s *state) PushString(v string) { s.results = append(s.results, starlark.String(v)) }

func (s *state) PushUserData(ud any) {
	if b, ok := ud.(*box.Box); ok {
		s.results = append(s.results, UserValue{Box: b})
		return
	}
	s.results = append(s.results, starlark.None)
}

func (s *state) arg(slot int) starlark.Value {
	if slot < 1 || slot > len(s.args) {
		return nil
	}
	return s.args[slot-1]
}

func (s *state) ToInteger(slot int) int64 {
	switch v := s.arg(slot).(type) {
	case starlark.Int:
		i, _ := v.Int64()
		return i
	case starlark.Float:
		return int64(v)
	case starlark.Bool:
		if v {
			return 1
		}
		return 0
	}
	return 0
}

func (s *state) ToNumber(slot int) float64 {
	switch v := s.arg(slot).(type) {
	case starlark.Float:
		return float64(v)
	case starlark.Int:
		f, _ := starlark.AsFloat(v)
		return f
	}
	return 0
}

func (s *state) ToString(slot int) string {
	if v, ok := s.arg(slot).(starlark.String); ok {
		return string(v)
	}
	return ""
}

func (s *state) ToUserData(slot int) any {
	if v, ok := s.arg(slot).(UserValue); ok {
		return v.Box
	}
	return nil
}

func (s *state) IsUserData(slot int) bool {
	_, ok := s.arg(slot).(UserValue)
	return ok
}

// PushClosure has no meaning inside a builtin invocation; the context is
// bound when the builtin is constructed.
func (s *state) PushClosure(fn scriptbridge.NativeFunc, ctx any) {
	s.ctx = ctx
}

func (s *state) Context() any { return s.ctx }

func (s *state) RaiseError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Builtin exposes a registered caller as a Starlark builtin. Positional
// arguments map to the bridge's 1-based stack slots; keyword arguments are
// rejected. A void call returns None; a raised runtime error becomes the
// builtin's error.
func Builtin(c *call.Caller) *starlark.Builtin {
	return starlark.NewBuiltin(c.Name(), func(th *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}

		st := &state{args: args, ctx: c}
		n := call.Trampoline(st)
		if st.err != nil {
			return nil, st.err
		}
		if n == 0 {
			return starlark.None, nil
		}
		return st.results[len(st.results)-1], nil
	})
}

// Bind registers a caller into a Starlark global environment under its
// registered name.
func Bind(globals starlark.StringDict, c *call.Caller) {
	globals[c.Name()] = Builtin(c)
}
