// Package box wraps user-defined native values for transport across the
// runtime boundary.
//
// A Box holds either an owned copy of a value (MakeCopy) or a live reference
// to storage elsewhere in the native program (MakeRef). Copy boxes give the
// scripting side an independent value; reference boxes alias native memory,
// so mutations are visible on both sides and the referenced value must
// outlive the reference's use.
//
// Registry stores boxes under integer handles for runtimes whose stack slots
// can only carry numbers, such as the WASM bridge.
package box
