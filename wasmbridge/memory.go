package wasmbridge

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/script-bridge/errors"
)

// Memory is the slice of guest linear memory the bridge reads string
// arguments from.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
}

// guestMemory adapts wazero's module memory to the bridge's Memory surface.
type guestMemory struct {
	mem api.Memory
}

func (g guestMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if g.mem == nil {
		return nil, errors.New(errors.PhaseConvert, errors.KindNilValue).
			Detail("calling module has no memory").
			Build()
	}
	data, ok := g.mem.Read(offset, length)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidHandle).
			Detail("memory read out of range: offset %d length %d", offset, length).
			Build()
	}
	return data, nil
}
