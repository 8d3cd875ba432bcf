package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Input is the input the agent applied on a single tick. Horizontal and Vertical are movement axes
// within [-1, 1].
type Input struct {
	Horizontal float32
	Vertical   float32
	Jump       bool

	Tick Tick
}

// Clamped returns a copy of the input with both movement axes clamped to [-1, 1]. An axis that is not a
// number is zeroed.
func (in Input) Clamped() Input {
	in.Horizontal = clampAxis(in.Horizontal)
	in.Vertical = clampAxis(in.Vertical)
	return in
}

func clampAxis(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return ClampFloat(v, -1, 1)
}

// State is the simulated state of the agent at a tick. States are values: history slots are replaced
// with new states, never mutated through a shared reference.
type State struct {
	Position mgl32.Vec3
	// Velocity and OnGround carry the movement continuation between ticks, so that a simulation
	// step depends on nothing but its state and input.
	Velocity mgl32.Vec3
	OnGround bool

	Tick Tick
}

// WithPosition returns a copy of the state moved to the given position.
func (s State) WithPosition(pos mgl32.Vec3) State {
	s.Position = pos
	return s
}
