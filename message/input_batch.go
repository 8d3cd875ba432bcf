package message

import (
	"fmt"

	"github.com/oomph-ac/rewind/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// InputBatch is sent by the client every tick. It carries every input from the last tick acknowledged
// by the authority up to the newest predicted tick, so that a lost batch is covered by the next one.
type InputBatch struct {
	// Inputs holds the inputs of consecutive ticks in ascending order.
	Inputs []game.Input
}

// ID ...
func (*InputBatch) ID() uint8 {
	return IDInputBatch
}

// Marshal ...
func (pk *InputBatch) Marshal(io protocol.IO) {
	count := uint8(len(pk.Inputs))
	io.Uint8(&count)
	if int(count) != len(pk.Inputs) {
		pk.Inputs = make([]game.Input, count)
	}
	for i := range pk.Inputs {
		marshalInput(io, &pk.Inputs[i])
	}
}

// Validate checks that the inputs of the batch cover a contiguous span of ticks, which is the same as
// the span between the first and last tick being equal to the input count.
func (pk *InputBatch) Validate() error {
	for i := 1; i < len(pk.Inputs); i++ {
		if prev, curr := pk.Inputs[i-1].Tick, pk.Inputs[i].Tick; curr != prev.Next() {
			return fmt.Errorf("%w: tick %d follows tick %d", ErrMalformedBatch, curr, prev)
		}
	}
	return nil
}

// First returns the tick of the oldest input in the batch.
func (pk *InputBatch) First() game.Tick {
	if len(pk.Inputs) == 0 {
		return 0
	}
	return pk.Inputs[0].Tick
}

// Last returns the tick of the newest input in the batch.
func (pk *InputBatch) Last() game.Tick {
	if len(pk.Inputs) == 0 {
		return 0
	}
	return pk.Inputs[len(pk.Inputs)-1].Tick
}

func marshalInput(io protocol.IO, in *game.Input) {
	io.Float32(&in.Horizontal)
	io.Float32(&in.Vertical)
	io.Bool(&in.Jump)
	marshalTick(io, &in.Tick)
}

func marshalTick(io protocol.IO, t *game.Tick) {
	v := uint16(*t)
	io.Uint16(&v)
	*t = game.Tick(v)
}
