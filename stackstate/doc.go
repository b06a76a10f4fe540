// Package stackstate provides an in-memory value-stack State for driving
// bridge calls directly, without a host scripting engine.
//
// It follows the runtime convention the bridge expects: a call's arguments
// occupy 1-based slots, results are pushed on top, and a raised error
// unwinds the call frame. Embedders push a registered closure, push its
// arguments, and invoke Call. Tests and the demo CLI use it as the
// reference runtime.
package stackstate
