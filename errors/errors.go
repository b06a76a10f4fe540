package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // callable registration
	PhaseConvert  Phase = "convert"  // stack slot to native value
	PhaseReturn   Phase = "return"   // native value to stack slot
	PhaseCall     Phase = "call"     // native callable invocation
	PhaseBox      Phase = "box"      // boxing service operations
	PhaseRuntime  Phase = "runtime"  // runtime dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindNotAFunction   Kind = "not_a_function"
	KindInvalidHandle  Kind = "invalid_handle"
	KindNilValue       Kind = "nil_value"
	KindCallableFailed Kind = "callable_failed"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	Detail   string
	ArgIndex int // 1-based argument position, 0 when not argument-specific
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.ArgIndex > 0 {
		fmt.Fprintf(&b, ": argument %d", e.ArgIndex)
	}

	if e.GoType != "" {
		if e.ArgIndex > 0 {
			b.WriteString(" (Go type ")
			b.WriteString(e.GoType)
			b.WriteByte(')')
		} else {
			b.WriteString(": Go type ")
			b.WriteString(e.GoType)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Arg sets the 1-based argument position
func (b *Builder) Arg(index int) *Builder {
	b.err.ArgIndex = index
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ExpectingUserData creates the argument-type-mismatch error raised when a
// boxed-value parameter slot does not hold an opaque user value.
func ExpectingUserData(index int) *Error {
	return &Error{
		Phase:    PhaseConvert,
		Kind:     KindTypeMismatch,
		ArgIndex: index,
		Detail:   "expecting user data",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotAFunction creates a registration error for non-function values
func NotAFunction(goType string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindNotAFunction,
		GoType: goType,
		Detail: "callable must be a Go function",
	}
}

// BoxMismatch creates an error for a box holding a different type than the
// compiled parameter or return type expects.
func BoxMismatch(index int, wantType, gotType string) *Error {
	return &Error{
		Phase:    PhaseConvert,
		Kind:     KindTypeMismatch,
		ArgIndex: index,
		GoType:   wantType,
		Detail:   fmt.Sprintf("boxed value has type %s", gotType),
	}
}
