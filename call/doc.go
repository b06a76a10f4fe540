// Package call turns native Go functions into runtime-callable entry points.
//
// NewCaller compiles a function's signature once: each parameter gets a
// codec, the return type and declared policy set resolve to a return
// strategy, and a trailing error result is recognized per the Go convention.
// The resulting Caller is installed into a runtime with PushFunction and
// invoked through Trampoline, the one fixed-signature entry point all
// callables share.
//
// A call reads arguments from stack slots 1..n in declaration order,
// invokes the native function, and pushes the converted result. Argument
// conversion failures abort before invocation; errors from the callable
// itself propagate as runtime errors. Panics are not caught.
//
// Return-handling policies control ownership of user-defined return values:
// ReturnCopy (default) gives the scripting side an independent copy,
// ReturnRef aliases the live native object and is an explicit opt-in with a
// manual lifetime contract.
package call
