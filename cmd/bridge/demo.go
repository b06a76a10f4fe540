package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/call"
	"github.com/wippyai/script-bridge/codec"
	"github.com/wippyai/script-bridge/stackstate"
)

// Counter is the demo's mutable native object. new_counter hands it to the
// runtime by reference, so counter_add mutations are visible on later calls;
// counter_snapshot returns a detached copy.
type Counter struct {
	N int64
}

// session holds the demo callable set and the value stack the calls run
// over. User values returned by earlier calls are retained and addressed in
// later arguments as #1, #2, ... in call order.
type session struct {
	st      *stackstate.State
	callers map[string]*call.Caller
	order   []string
	objects []*box.Box
}

func newSession() (*session, error) {
	s := &session{
		st:      stackstate.New(),
		callers: make(map[string]*call.Caller),
	}

	entries := []struct {
		fn       any
		name     string
		policies []call.Policy
	}{
		{name: "add", fn: func(a, b int64) int64 { return a + b }},
		{name: "scale", fn: func(x, factor float64) float64 { return x * factor }},
		{name: "greet", fn: func(name string) string { return "hello, " + name }},
		{name: "div", fn: func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return a / b, nil
		}},
		{name: "new_counter", fn: func() *Counter { return &Counter{} },
			policies: []call.Policy{call.ReturnRef}},
		{name: "counter_add", fn: func(c *Counter, by int64) { c.N += by }},
		{name: "counter_value", fn: func(c *Counter) int64 { return c.N }},
		{name: "counter_snapshot", fn: func(c *Counter) Counter { return *c }},
	}

	for _, e := range entries {
		c, err := call.NewCaller(e.name, e.fn, e.policies...)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", e.name, err)
		}
		s.callers[e.name] = c
		s.order = append(s.order, e.name)
	}

	return s, nil
}

// names returns the registered function names in registration order.
func (s *session) names() []string {
	return s.order
}

// callByName drives one call over the session stack: closure, arguments in
// declaration order, then Call. Raw arguments are parsed against the declared
// parameter kinds before anything runs. The rendered result is returned;
// user-value results are retained in the session and reported by object
// number.
func (s *session) callByName(name string, rawArgs []string) (string, error) {
	c, ok := s.callers[name]
	if !ok {
		return "", fmt.Errorf("unknown function %q", name)
	}
	if len(rawArgs) != c.NumParams() {
		return "", fmt.Errorf("%s takes %d arguments, got %d", name, c.NumParams(), len(rawArgs))
	}

	c.PushFunction(s.st)
	for i, raw := range rawArgs {
		if err := s.pushArg(strings.TrimSpace(raw), c.ParamKind(i)); err != nil {
			s.st.Pop(i + 1)
			return "", fmt.Errorf("argument %d: %w", i+1, err)
		}
	}

	n, err := s.st.Call(len(rawArgs))
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "ok", nil
	}
	defer s.st.Pop(n)

	k, _ := c.ReturnKind()
	switch k {
	case codec.KindBool:
		if s.st.ToInteger(-1) != 0 {
			return "true", nil
		}
		return "false", nil
	case codec.KindInt, codec.KindUint:
		return strconv.FormatInt(s.st.ToInteger(-1), 10), nil
	case codec.KindFloat:
		return strconv.FormatFloat(s.st.ToNumber(-1), 'g', -1, 64), nil
	case codec.KindString:
		return s.st.ToString(-1), nil
	case codec.KindUser:
		b, ok := s.st.ToUserData(-1).(*box.Box)
		if !ok {
			return "", fmt.Errorf("%s returned an unboxed user value", name)
		}
		s.objects = append(s.objects, b)
		return fmt.Sprintf("#%d (%s)", len(s.objects), b.Type()), nil
	}
	return fmt.Sprintf("%d values", n), nil
}

func (s *session) pushArg(raw string, k codec.Kind) error {
	switch k {
	case codec.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%q is not a bool", raw)
		}
		if v {
			s.st.PushInteger(1)
		} else {
			s.st.PushInteger(0)
		}
	case codec.KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not an integer", raw)
		}
		s.st.PushInteger(v)
	case codec.KindUint:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not an unsigned integer", raw)
		}
		s.st.PushInteger(int64(v))
	case codec.KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		s.st.PushNumber(v)
	case codec.KindString:
		s.st.PushString(raw)
	case codec.KindUser:
		idx, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
		if err != nil || idx < 1 || idx > len(s.objects) {
			return fmt.Errorf("%q does not name an object; reference earlier results as #1, #2, ...", raw)
		}
		s.st.PushUserData(s.objects[idx-1])
	default:
		return fmt.Errorf("unsupported parameter kind %s", k)
	}
	return nil
}

func formatSignature(c *call.Caller) string {
	var params []string
	for i := 0; i < c.NumParams(); i++ {
		params = append(params, fmt.Sprintf("arg%d: %s", i+1, c.ParamType(i).String()))
	}
	sig := c.Name() + "(" + strings.Join(params, ", ") + ")"
	if t, ok := c.ReturnType(); ok {
		sig += " -> " + t.String()
	}
	return sig
}
