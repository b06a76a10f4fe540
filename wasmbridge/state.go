package wasmbridge

import (
	"math"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/codec"
	"github.com/wippyai/script-bridge/errors"
)

// callState adapts one host-function invocation to the bridge's stack
// surface. Logical 1-based slots map onto the flat uint64 parameter area;
// strings occupy two physical slots (pointer, length) but remain one logical
// slot to the bridge. Boxed user values travel as registry handles.
type callState struct {
	params  []uint64
	sig     *signature
	mem     Memory
	reg     *box.Registry
	results []uint64
	ctx     any
	err     error
}

func newCallState(params []uint64, sig *signature, mem Memory, reg *box.Registry) *callState {
	return &callState{
		params: params,
		sig:    sig,
		mem:    mem,
		reg:    reg,
	}
}

func (s *callState) slot(slot int) (offset int, kind codec.Kind, ok bool) {
	if slot < 1 || slot > len(s.sig.kinds) {
		return 0, codec.KindInvalid, false
	}
	return s.sig.offsets[slot-1], s.sig.kinds[slot-1], true
}

func (s *callState) PushInteger(v int64) {
	s.results = append(s.results, uint64(v))
}

func (s *callState) PushNumber(v float64) {
	s.results = append(s.results, math.Float64bits(v))
}

// PushString is rejected at registration time; reaching it means a codec
// bypassed the signature compiler.
func (s *callState) PushString(v string) {
	s.RaiseError(errors.Unsupported(errors.PhaseReturn, "string results over the wasm bridge"))
}

func (s *callState) PushUserData(ud any) {
	b, ok := ud.(*box.Box)
	if !ok {
		s.RaiseError(errors.New(errors.PhaseReturn, errors.KindTypeMismatch).
			Detail("user data is not a box").
			Build())
		return
	}
	s.results = append(s.results, uint64(s.reg.Insert(b)))
}

func (s *callState) ToInteger(slot int) int64 {
	off, kind, ok := s.slot(slot)
	if !ok {
		return 0
	}
	switch kind {
	case codec.KindBool, codec.KindInt, codec.KindUint:
		return int64(s.params[off])
	case codec.KindFloat:
		return int64(math.Float64frombits(s.params[off]))
	}
	return 0
}

func (s *callState) ToNumber(slot int) float64 {
	off, kind, ok := s.slot(slot)
	if !ok {
		return 0
	}
	switch kind {
	case codec.KindFloat:
		return math.Float64frombits(s.params[off])
	case codec.KindBool, codec.KindInt, codec.KindUint:
		return float64(int64(s.params[off]))
	}
	return 0
}

func (s *callState) ToString(slot int) string {
	off, kind, ok := s.slot(slot)
	if !ok || kind != codec.KindString {
		return ""
	}
	ptr := uint32(s.params[off])
	length := uint32(s.params[off+1])
	data, err := s.mem.Read(ptr, length)
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *callState) ToUserData(slot int) any {
	off, kind, ok := s.slot(slot)
	if !ok || kind != codec.KindUser {
		return nil
	}
	b, ok := s.reg.Get(box.Handle(uint32(s.params[off])))
	if !ok {
		return nil
	}
	return b
}

func (s *callState) IsUserData(slot int) bool {
	off, kind, ok := s.slot(slot)
	if !ok || kind != codec.KindUser {
		return false
	}
	_, ok = s.reg.Get(box.Handle(uint32(s.params[off])))
	return ok
}

// PushClosure has no meaning here; the caller is bound when the host module
// is built.
func (s *callState) PushClosure(fn scriptbridge.NativeFunc, ctx any) {
	s.ctx = ctx
}

func (s *callState) Context() any { return s.ctx }

func (s *callState) RaiseError(err error) {
	if s.err == nil {
		s.err = err
	}
}
