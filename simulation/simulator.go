package simulation

import (
	"encoding/binary"
	"math"

	"github.com/oomph-ac/rewind/game"
	"github.com/zeebo/xxh3"
)

// Simulator advances a state by one tick using the input of that tick. Implementations must be
// deterministic: the result may depend on nothing but the state and input given, as reconciliation
// replays the same inputs through Simulate repeatedly and expects the exact same results.
type Simulator interface {
	Simulate(state game.State, input game.Input) game.State
}

// SimulatorFunc is a function implementing Simulator.
type SimulatorFunc func(state game.State, input game.Input) game.State

// Simulate ...
func (f SimulatorFunc) Simulate(state game.State, input game.Input) game.State {
	return f(state, input)
}

// Checksum returns a hash of every field of the state, comparing float values bit for bit.
func Checksum(state game.State) uint64 {
	var buf [27]byte
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(state.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(state.Velocity[i]))
	}
	if state.OnGround {
		buf[24] = 1
	}
	binary.LittleEndian.PutUint16(buf[25:], uint16(state.Tick))
	return xxh3.Hash(buf[:])
}

// Deterministic runs the simulator twice on the same state and input, and returns true if both
// results are bit for bit identical.
func Deterministic(sim Simulator, state game.State, input game.Input) bool {
	return Checksum(sim.Simulate(state, input)) == Checksum(sim.Simulate(state, input))
}
