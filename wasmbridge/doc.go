// Package wasmbridge exposes registered callers to WASM guests as wazero
// host functions.
//
// Each caller is exported from a host module under its registered name with
// a flattened signature: integers as i64, floats as f64, strings as
// (pointer, length) i32 pairs read from guest memory, and boxed user values
// as i32 handles into a shared box registry. The bridge still sees one
// logical stack slot per value; the flattening is local to this package.
//
// String results are rejected at registration: writing one back would
// require a guest-side allocator, which this bridge does not assume.
package wasmbridge
