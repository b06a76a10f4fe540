// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where in call processing the error
// occurred) and Kind (error category). The Error type includes rich context:
// the 1-based argument position, the Go type involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Arg(2).
//		GoType("int").
//		Detail("expecting user data").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ExpectingUserData(2)
//	err := errors.NotAFunction("int")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
