package call

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/codec"
	"github.com/wippyai/script-bridge/errors"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Caller owns one native callable and exposes it to a scripting runtime
// through the package's single fixed-signature trampoline. Argument codecs,
// the return strategy, and the trailing-error convention are all resolved
// once in NewCaller; per-call dispatch runs against the precompiled state.
//
// A Caller must not be copied or moved after PushFunction: the runtime holds
// its address as the closure context, and identity is part of the contract.
// Allocate it once and keep it alive for as long as the runtime can call it.
type Caller struct {
	name     string
	fn       reflect.Value
	params   []*codec.Compiled
	ret      *codec.Compiled // nil for void-returning callables
	retFn    returner        // nil when ret is nil
	errIndex int             // trailing error result, -1 if none
	argsPool sync.Pool
}

// NewCaller compiles a native callable for runtime dispatch. fn may be any
// non-variadic Go function: free functions, method values, and closures all
// work. Its parameter and return types must compile under the codec's
// categories. A trailing error result follows the Go convention: a non-nil
// error raises a runtime error instead of pushing a value.
//
// policies is the callable's declared policy set; the first return-handling
// tag wins and absence implies ReturnCopy.
func NewCaller(name string, fn any, policies ...Policy) (*Caller, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return nil, errors.NotAFunction(fmt.Sprintf("%T", fn))
	}

	t := fnVal.Type()
	if t.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseRegister, "variadic functions")
	}

	params := make([]*codec.Compiled, t.NumIn())
	for i := range params {
		p, err := codec.Compile(t.In(i))
		if err != nil {
			return nil, errors.New(errors.PhaseRegister, errors.KindUnsupported).
				Arg(i + 1).
				GoType(t.In(i).String()).
				Cause(err).
				Detail("parameter does not compile").
				Build()
		}
		params[i] = p
	}

	errIndex := -1
	numOut := t.NumOut()
	if numOut > 0 && t.Out(numOut-1).Implements(errType) {
		errIndex = numOut - 1
	}

	numVals := numOut
	if errIndex >= 0 {
		numVals--
	}
	if numVals > 1 {
		return nil, errors.Unsupported(errors.PhaseRegister, "multi-value returns")
	}

	c := &Caller{
		name:     name,
		fn:       fnVal,
		params:   params,
		errIndex: errIndex,
	}

	if numVals == 1 {
		ret, err := codec.Compile(t.Out(0))
		if err != nil {
			return nil, errors.New(errors.PhaseRegister, errors.KindUnsupported).
				GoType(t.Out(0).String()).
				Cause(err).
				Detail("return type does not compile").
				Build()
		}
		c.ret = ret
		c.retFn = newReturner(choosePolicy(policies), ret)
	}

	c.argsPool.New = func() any {
		s := make([]reflect.Value, len(c.params))
		return &s
	}

	Logger().Debug("registered native callable",
		zap.String("name", name),
		zap.Int("params", len(params)),
		zap.Bool("returns", c.ret != nil))

	return c, nil
}

// Name returns the registered identifier, fixed at construction.
func (c *Caller) Name() string {
	return c.name
}

// NumParams returns the number of declared parameters.
func (c *Caller) NumParams() int {
	return len(c.params)
}

// ParamKind returns the compiled category of parameter i (0-based).
func (c *Caller) ParamKind(i int) codec.Kind {
	return c.params[i].Kind()
}

// ParamType returns the native type of parameter i (0-based).
func (c *Caller) ParamType(i int) reflect.Type {
	return c.params[i].Type()
}

// ReturnKind returns the compiled category of the return value and whether
// the callable produces one.
func (c *Caller) ReturnKind() (codec.Kind, bool) {
	if c.ret == nil {
		return codec.KindInvalid, false
	}
	return c.ret.Kind(), true
}

// ReturnType returns the native return type and whether the callable
// produces a value. A trailing error result does not count as a value.
func (c *Caller) ReturnType() (reflect.Type, bool) {
	if c.ret == nil {
		return nil, false
	}
	return c.ret.Type(), true
}

// PushFunction installs the callable into the runtime as a closure: the
// Caller's own address as the opaque context plus the package's fixed
// trampoline. The runtime may invoke the closure arbitrarily many times over
// the Caller's lifetime.
func (c *Caller) PushFunction(st scriptbridge.State) {
	st.PushClosure(Trampoline, c)
}

// Trampoline is the single entry point shared by every registered callable.
// It recovers the owning Caller from the runtime's closure context and
// dispatches to that Caller's precompiled argument codecs and return
// strategy. The uniform signature is what lets heterogeneous native
// functions share one registration mechanism in a runtime with a single
// function-pointer shape per callable.
func Trampoline(st scriptbridge.State) int {
	c, ok := st.Context().(*Caller)
	if !ok {
		st.RaiseError(errors.New(errors.PhaseRuntime, errors.KindInvalidHandle).
			Detail("closure context does not hold a registered callable").
			Build())
		return 0
	}
	return c.call(st)
}

// call reads every argument, invokes, and pushes the converted result.
// Argument reads run in strict declaration order and all complete before the
// callable is invoked; the first failed read aborts the call with no
// invocation and no pushed result. Parameter position i reads runtime slot
// i+1.
func (c *Caller) call(st scriptbridge.State) int {
	argsp := c.argsPool.Get().(*[]reflect.Value)
	args := *argsp
	defer func() {
		for i := range args {
			args[i] = reflect.Value{}
		}
		c.argsPool.Put(argsp)
	}()

	for i, p := range c.params {
		v, err := p.Read(st, i+1)
		if err != nil {
			st.RaiseError(err)
			return 0
		}
		args[i] = v
	}

	results := c.fn.Call(args)

	if c.errIndex >= 0 {
		if e := results[c.errIndex]; !e.IsNil() {
			st.RaiseError(errors.New(errors.PhaseCall, errors.KindCallableFailed).
				Detail("%s", c.name).
				Cause(e.Interface().(error)).
				Build())
			return 0
		}
	}

	if c.retFn == nil {
		return 0
	}

	n, err := c.retFn(st, results[0])
	if err != nil {
		st.RaiseError(err)
		return 0
	}
	return n
}
