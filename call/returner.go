package call

import (
	"reflect"

	scriptbridge "github.com/wippyai/script-bridge"
	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/codec"
)

// returner converts one native return value into a stack value, reporting
// how many slots were produced. The strategy is resolved once per callable
// from its declared policy set and return type.
type returner func(st scriptbridge.State, v reflect.Value) (int, error)

var boxPtrType = reflect.TypeOf((*box.Box)(nil))

// newReturner selects the return strategy. Plain kinds push directly under
// either policy; there is nothing to alias. User kinds box first: an owned
// copy under ReturnCopy, a live reference under ReturnRef. A callable that
// already returns *box.Box has made its ownership decision itself and the
// box is pushed as-is.
func newReturner(p Policy, ret *codec.Compiled) returner {
	if ret.Kind() != codec.KindUser {
		return func(st scriptbridge.State, v reflect.Value) (int, error) {
			return ret.Write(st, v)
		}
	}

	if ret.Type() == boxPtrType {
		return func(st scriptbridge.State, v reflect.Value) (int, error) {
			st.PushUserData(v.Interface().(*box.Box))
			return 1, nil
		}
	}

	if p == ReturnRef {
		return func(st scriptbridge.State, v reflect.Value) (int, error) {
			st.PushUserData(box.MakeRefValue(v))
			return 1, nil
		}
	}

	return func(st scriptbridge.State, v reflect.Value) (int, error) {
		st.PushUserData(box.MakeCopyValue(v))
		return 1, nil
	}
}
