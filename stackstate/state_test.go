package stackstate

import (
	"fmt"
	"testing"

	scriptbridge "github.com/wippyai/script-bridge"
)

func TestState_SlotIndexing(t *testing.T) {
	st := New()
	st.PushInteger(10)
	st.PushNumber(2.5)
	st.PushString("hi")

	if got := st.ToInteger(1); got != 10 {
		t.Fatalf("slot 1 = %d", got)
	}
	if got := st.ToNumber(2); got != 2.5 {
		t.Fatalf("slot 2 = %v", got)
	}
	if got := st.ToString(3); got != "hi" {
		t.Fatalf("slot 3 = %q", got)
	}
	if got := st.ToString(-1); got != "hi" {
		t.Fatalf("slot -1 = %q", got)
	}
	if got := st.ToInteger(-3); got != 10 {
		t.Fatalf("slot -3 = %d", got)
	}
}

func TestState_NumericCoercion(t *testing.T) {
	st := New()
	st.PushNumber(3.9)
	st.PushInteger(4)

	if got := st.ToInteger(1); got != 3 {
		t.Fatalf("float as integer = %d", got)
	}
	if got := st.ToNumber(2); got != 4.0 {
		t.Fatalf("integer as number = %v", got)
	}
}

func TestState_MissingSlotsReadZero(t *testing.T) {
	st := New()
	if st.ToInteger(1) != 0 || st.ToNumber(5) != 0 || st.ToString(2) != "" {
		t.Fatal("out-of-range slots should read as zero values")
	}
	if st.IsUserData(1) {
		t.Fatal("empty slot is not user data")
	}
	if st.ToUserData(1) != nil {
		t.Fatal("empty slot user data should be nil")
	}
}

func TestState_Call(t *testing.T) {
	st := New()
	st.PushClosure(func(s scriptbridge.State) int {
		s.PushInteger(s.ToInteger(1) + s.ToInteger(2))
		return 1
	}, nil)
	st.PushInteger(3)
	st.PushInteger(4)

	n, err := st.Call(2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("n = %d", n)
	}
	if st.Top() != 1 || st.ToInteger(-1) != 7 {
		t.Fatalf("stack after call: top=%d value=%d", st.Top(), st.ToInteger(-1))
	}
}

func TestState_CallContext(t *testing.T) {
	type ctxType struct{ tag string }
	ctx := &ctxType{tag: "x"}

	st := New()
	st.PushClosure(func(s scriptbridge.State) int {
		if s.Context() != ctx {
			t.Error("closure context not preserved")
		}
		return 0
	}, ctx)

	if _, err := st.Call(0); err != nil {
		t.Fatal(err)
	}
	if st.Context() != nil {
		t.Fatal("context should not leak past the call")
	}
}

func TestState_CallRaisedError(t *testing.T) {
	st := New()
	st.PushInteger(999) // value below the frame must survive
	st.PushClosure(func(s scriptbridge.State) int {
		s.RaiseError(fmt.Errorf("boom"))
		return 0
	}, nil)
	st.PushInteger(1)

	n, err := st.Call(1)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v", err)
	}
	if n != 0 {
		t.Fatalf("failed call produced %d values", n)
	}
	if st.Top() != 1 || st.ToInteger(1) != 999 {
		t.Fatal("failed call should truncate only its own frame")
	}
}

func TestState_FirstRaiseWins(t *testing.T) {
	st := New()
	st.PushClosure(func(s scriptbridge.State) int {
		s.RaiseError(fmt.Errorf("first"))
		s.RaiseError(fmt.Errorf("second"))
		return 0
	}, nil)

	_, err := st.Call(0)
	if err == nil || err.Error() != "first" {
		t.Fatalf("err = %v", err)
	}
}

func TestState_CallNonFunction(t *testing.T) {
	st := New()
	st.PushInteger(1)
	st.PushInteger(2)
	if _, err := st.Call(1); err == nil {
		t.Fatal("calling a non-closure should fail")
	}

	empty := New()
	if _, err := empty.Call(0); err == nil {
		t.Fatal("calling on an empty stack should fail")
	}
}

func TestState_NestedCall(t *testing.T) {
	inner := func(s scriptbridge.State) int {
		s.PushInteger(s.ToInteger(1) * 2)
		return 1
	}

	st := New()
	st.PushClosure(func(s scriptbridge.State) int {
		// Arguments of the outer call stay addressable at slots 1..n while
		// the nested call runs in its own frame.
		outerArg := s.ToInteger(1)

		ss := s.(*State)
		ss.PushClosure(inner, nil)
		ss.PushInteger(outerArg)
		if _, err := ss.Call(1); err != nil {
			s.RaiseError(err)
			return 0
		}

		s.PushInteger(s.ToInteger(-1) + 1)
		return 1
	}, nil)
	st.PushInteger(10)

	n, err := st.Call(1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("n = %d", n)
	}
	if got := st.ToInteger(-1); got != 21 {
		t.Fatalf("nested result = %d, want 21", got)
	}
}

func TestState_Pop(t *testing.T) {
	st := New()
	st.PushInteger(1)
	st.PushInteger(2)
	st.Pop(1)
	if st.Top() != 1 || st.ToInteger(-1) != 1 {
		t.Fatal("Pop removed the wrong value")
	}
	st.Pop(5)
	if st.Top() != 0 {
		t.Fatal("over-Pop should clamp")
	}
}
