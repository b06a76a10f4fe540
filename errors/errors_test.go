package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseConvert,
				Kind:     KindTypeMismatch,
				ArgIndex: 2,
				GoType:   "int",
				Detail:   "expecting user data",
			},
			contains: []string{"[convert]", "type_mismatch", "argument 2", "int", "expecting user data"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRegister,
				Kind:  KindUnsupported,
			},
			contains: []string{"[register]", "unsupported"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindCallableFailed,
				Detail: "add",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[call]", "callable_failed", "add", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(PhaseCall, KindCallableFailed).Cause(cause).Build()

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := New(PhaseConvert, KindTypeMismatch).Arg(1).Build()
	b := New(PhaseConvert, KindTypeMismatch).Arg(3).Build()
	c := New(PhaseConvert, KindUnsupported).Build()

	if !errors.Is(a, b) {
		t.Error("same phase and kind should match regardless of context")
	}
	if errors.Is(a, c) {
		t.Error("different kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseConvert, KindTypeMismatch).
		Arg(2).
		GoType("main.Counter").
		Value(42).
		Detail("boxed value has type %s", "main.Other").
		Cause(cause).
		Build()

	if err.Phase != PhaseConvert {
		t.Errorf("Phase = %q", err.Phase)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %q", err.Kind)
	}
	if err.ArgIndex != 2 {
		t.Errorf("ArgIndex = %d", err.ArgIndex)
	}
	if err.GoType != "main.Counter" {
		t.Errorf("GoType = %q", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v", err.Value)
	}
	if err.Detail != "boxed value has type main.Other" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("Cause not set")
	}
}

func TestExpectingUserData(t *testing.T) {
	err := ExpectingUserData(3)
	msg := err.Error()
	if !strings.Contains(msg, "argument 3") || !strings.Contains(msg, "expecting user data") {
		t.Errorf("unexpected message: %q", msg)
	}
	if err.Phase != PhaseConvert || err.Kind != KindTypeMismatch {
		t.Error("wrong phase or kind")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := Unsupported(PhaseRegister, "variadic functions"); e.Kind != KindUnsupported {
		t.Error("Unsupported kind")
	}
	if e := NotAFunction("int"); e.Kind != KindNotAFunction || e.GoType != "int" {
		t.Error("NotAFunction fields")
	}
	e := BoxMismatch(1, "pkg.A", "pkg.B")
	if !strings.Contains(e.Error(), "pkg.B") {
		t.Error("BoxMismatch should name the actual boxed type")
	}
}
