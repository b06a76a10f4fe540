package wasmbridge

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/call"
	"github.com/wippyai/script-bridge/codec"
	"github.com/wippyai/script-bridge/errors"
)

// signature is the flattened wasm shape of one caller: the wasm value types
// for parameters and results plus the physical offset and category of each
// logical slot.
type signature struct {
	params  []api.ValueType
	results []api.ValueType
	offsets []int
	kinds   []codec.Kind
}

// compileSignature flattens a caller's compiled parameter list onto the wasm
// stack layout. Integers widen to i64, floats to f64, strings become a
// (pointer, length) pair of i32s, and boxed user values travel as i32
// registry handles. String results have nowhere to live without a guest
// allocator and are rejected.
func compileSignature(c *call.Caller) (*signature, error) {
	sig := &signature{
		kinds:   make([]codec.Kind, c.NumParams()),
		offsets: make([]int, c.NumParams()),
	}

	offset := 0
	for i := 0; i < c.NumParams(); i++ {
		k := c.ParamKind(i)
		sig.kinds[i] = k
		sig.offsets[i] = offset
		switch k {
		case codec.KindBool, codec.KindInt, codec.KindUint:
			sig.params = append(sig.params, api.ValueTypeI64)
			offset++
		case codec.KindFloat:
			sig.params = append(sig.params, api.ValueTypeF64)
			offset++
		case codec.KindString:
			sig.params = append(sig.params, api.ValueTypeI32, api.ValueTypeI32)
			offset += 2
		case codec.KindUser:
			sig.params = append(sig.params, api.ValueTypeI32)
			offset++
		default:
			return nil, errors.Unsupported(errors.PhaseRegister, k.String())
		}
	}

	if k, ok := c.ReturnKind(); ok {
		switch k {
		case codec.KindBool, codec.KindInt, codec.KindUint:
			sig.results = append(sig.results, api.ValueTypeI64)
		case codec.KindFloat:
			sig.results = append(sig.results, api.ValueTypeF64)
		case codec.KindUser:
			sig.results = append(sig.results, api.ValueTypeI32)
		case codec.KindString:
			return nil, errors.Unsupported(errors.PhaseRegister,
				"string results over the wasm bridge")
		default:
			return nil, errors.Unsupported(errors.PhaseRegister, k.String())
		}
	}

	return sig, nil
}

// makeHostFunc builds the uniform host-side trampoline for one caller. The
// wazero stack carries parameters in and results out of the same slice; the
// parameters are copied aside before the bridge runs so result writes cannot
// clobber unread slots.
func makeHostFunc(c *call.Caller, sig *signature, reg *box.Registry) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		params := make([]uint64, len(sig.params))
		copy(params, stack)

		st := newCallState(params, sig, guestMemory{mem: mod.Memory()}, reg)
		st.ctx = c

		n := call.Trampoline(st)

		if st.err != nil {
			Logger().Warn("host call failed",
				zap.String("func", c.Name()),
				zap.Error(st.err))
			for i := range sig.results {
				stack[i] = 0
			}
			return
		}
		if n > 0 && len(sig.results) > 0 {
			stack[0] = st.results[len(st.results)-1]
		}
	}
}

// Options configure host-module construction.
type Options struct {
	// ModuleName is the name the host module instantiates under.
	ModuleName string

	// Registry stores boxed user values crossing the boundary. Share one
	// registry between modules when guests exchange handles.
	Registry *box.Registry
}

// DefaultOptions returns options with the conventional "env" module name and
// a fresh box registry.
func DefaultOptions() Options {
	return Options{
		ModuleName: "env",
		Registry:   box.NewRegistry(),
	}
}

// BuildHostModule exposes callers as host functions in one wazero module,
// each exported under its registered name. Boxed user values pushed during
// calls are stored in the options' registry; guests address them by handle.
func BuildHostModule(ctx context.Context, rt wazero.Runtime, opts Options, callers ...*call.Caller) (api.Module, error) {
	if opts.ModuleName == "" {
		opts.ModuleName = "env"
	}
	if opts.Registry == nil {
		opts.Registry = box.NewRegistry()
	}

	builder := rt.NewHostModuleBuilder(opts.ModuleName)

	for _, c := range callers {
		sig, err := compileSignature(c)
		if err != nil {
			return nil, errors.New(errors.PhaseRegister, errors.KindUnsupported).
				Detail("%s", c.Name()).
				Cause(err).
				Build()
		}

		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(makeHostFunc(c, sig, opts.Registry), sig.params, sig.results).
			Export(c.Name())

		Logger().Debug("exported host function",
			zap.String("module", opts.ModuleName),
			zap.String("func", c.Name()),
			zap.Int("params", len(sig.params)),
			zap.Int("results", len(sig.results)))
	}

	return builder.Instantiate(ctx)
}
