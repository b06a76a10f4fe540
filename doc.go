// Package scriptbridge exposes native Go functions to stack-based scripting
// runtimes through a uniform calling convention.
//
// Given an arbitrary Go function with a statically known signature, the
// bridge produces a single fixed-signature entry point a dynamic runtime can
// call: arguments are read from the runtime's stack slots, converted to the
// declared native types, the function is invoked, and the result is pushed
// back according to an explicit ownership policy (independent copy or live
// reference into the native object graph).
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	scriptbridge/        Root package with the State runtime interface
//	├── codec/           Per-type value conversion between native values and
//	│                    runtime stack slots, compiled once at registration
//	├── call/            Return policies, argument unpacking, and the Caller
//	│                    registration object with its trampoline
//	├── box/             Boxing of user-defined values as owned copies or
//	│                    live references, plus a handle registry
//	├── stackstate/      In-memory value-stack State for direct embedding
//	├── starbridge/      Starlark adapter exposing callers as builtins
//	├── wasmbridge/      WASM adapter exposing callers as wazero host
//	│                    functions over a flat uint64 stack
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Register a function and call it through an in-memory stack:
//
//	caller, err := call.NewCaller("add", func(a, b int) int { return a + b })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	st := stackstate.New()
//	caller.PushFunction(st)
//	st.PushInteger(3)
//	st.PushInteger(4)
//	n, err := st.Call(2)
//	// n == 1, st.ToInteger(-1) == 7
//
// Return-handling policies are declared at registration. The default makes
// an independent copy of user-defined return values; reference-return
// aliases the live native object instead and is an explicit opt-in:
//
//	caller, err := call.NewCaller("state", game.State, call.ReturnRef)
//
// With reference-return the native object must outlive every use of the
// reference on the scripting side. The bridge does not track lifetimes.
package scriptbridge
