// Package starbridge exposes registered callers to Starlark programs.
//
// Each caller becomes a starlark.Builtin whose positional arguments back the
// bridge's stack slots. Boxed native values travel through scripts as opaque
// UserValue objects and can be handed back to other bridged functions.
package starbridge
