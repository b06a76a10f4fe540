package starbridge

import (
	"strings"
	"testing"

	"go.starlark.net/starlark"

	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/call"
)

type counter struct {
	N int
}

func mustCaller(t *testing.T, name string, fn any, policies ...call.Policy) *call.Caller {
	t.Helper()
	c, err := call.NewCaller(name, fn, policies...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func exec(t *testing.T, src string, globals starlark.StringDict) starlark.StringDict {
	t.Helper()
	thread := &starlark.Thread{Name: "test"}
	out, err := starlark.ExecFile(thread, "test.star", src, globals)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBuiltin_Add(t *testing.T) {
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "add", func(a, b int) int { return a + b }))

	out := exec(t, "x = add(3, 4)", globals)
	got, ok := out["x"].(starlark.Int)
	if !ok {
		t.Fatalf("x = %T", out["x"])
	}
	if v, _ := got.Int64(); v != 7 {
		t.Fatalf("x = %v", got)
	}
}

func TestBuiltin_FloatAndString(t *testing.T) {
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "scale", func(x float64) float64 { return x * 2 }))
	Bind(globals, mustCaller(t, "shout", func(s string) string { return strings.ToUpper(s) }))

	out := exec(t, "y = scale(1.5)\nz = shout('hi')", globals)
	if out["y"] != starlark.Float(3.0) {
		t.Fatalf("y = %v", out["y"])
	}
	if out["z"] != starlark.String("HI") {
		t.Fatalf("z = %v", out["z"])
	}
}

func TestBuiltin_VoidReturnsNone(t *testing.T) {
	ran := false
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "touch", func() { ran = true }))

	out := exec(t, "r = touch()", globals)
	if out["r"] != starlark.None {
		t.Fatalf("r = %v", out["r"])
	}
	if !ran {
		t.Fatal("callable did not run")
	}
}

func TestBuiltin_UserValueRoundTrip(t *testing.T) {
	orig := &counter{N: 1}
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "get_counter", func() *counter { return orig }, call.ReturnRef))
	Bind(globals, mustCaller(t, "bump", func(c *counter, by int) int {
		c.N += by
		return c.N
	}))

	out := exec(t, "c = get_counter()\nr = bump(c, 5)", globals)
	if v, _ := out["r"].(starlark.Int).Int64(); v != 6 {
		t.Fatalf("r = %v", out["r"])
	}
	if orig.N != 6 {
		t.Fatalf("mutation not visible on native side: N = %d", orig.N)
	}

	uv, ok := out["c"].(UserValue)
	if !ok {
		t.Fatalf("c = %T", out["c"])
	}
	if !uv.Box.IsRef() {
		t.Fatal("ReturnRef should produce a reference box")
	}
}

func TestBuiltin_CopyReturnIndependent(t *testing.T) {
	orig := &counter{N: 1}
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "snapshot", func() *counter { return orig }))

	out := exec(t, "c = snapshot()", globals)
	orig.N = 99

	got, _ := box.As[counter](out["c"].(UserValue).Box)
	if got.N != 1 {
		t.Fatalf("copy box changed with original: N = %d", got.N)
	}
}

func TestBuiltin_TypeMismatchError(t *testing.T) {
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "use", func(c counter) {}))

	thread := &starlark.Thread{Name: "test"}
	_, err := starlark.ExecFile(thread, "test.star", "use(42)", globals)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "expecting user data") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuiltin_KwargsRejected(t *testing.T) {
	globals := starlark.StringDict{}
	Bind(globals, mustCaller(t, "add", func(a, b int) int { return a + b }))

	thread := &starlark.Thread{Name: "test"}
	_, err := starlark.ExecFile(thread, "test.star", "add(a=1, b=2)", globals)
	if err == nil {
		t.Fatal("expected error for keyword arguments")
	}
}

func TestUserValue_StarlarkProtocol(t *testing.T) {
	uv := UserValue{Box: box.MakeCopy(counter{N: 1})}
	if uv.Type() != "native" {
		t.Fatalf("Type = %q", uv.Type())
	}
	if uv.Truth() != starlark.True {
		t.Fatal("Truth")
	}
	if _, err := uv.Hash(); err == nil {
		t.Fatal("user values must be unhashable")
	}
	if !strings.Contains(uv.String(), "native") {
		t.Fatalf("String = %q", uv.String())
	}
}
