package simulation

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
)

// MovementOptions define the movement characteristics of the simulated agent. Speed is in units per
// second, Gravity in units per second squared.
type MovementOptions struct {
	TickRate int

	Speed      float32
	JumpHeight float32
	Gravity    float32

	Width  float32
	Height float32
}

// DefaultMovementOptions returns the movement options used when none are configured.
func DefaultMovementOptions() MovementOptions {
	return MovementOptions{
		TickRate:   game.DefaultTickRate,
		Speed:      game.DefaultMovementSpeed,
		JumpHeight: game.DefaultJumpHeight,
		Gravity:    game.DefaultGravity,
		Width:      game.DefaultAgentWidth,
		Height:     game.DefaultAgentHeight,
	}
}

// MovementSimulator is a character controller: the agent walks on the horizontal plane, jumps when
// grounded, falls under gravity and is stopped by static colliders.
type MovementSimulator struct {
	Options   MovementOptions
	Colliders []cube.BBox
}

// NewMovementSimulator returns a MovementSimulator with the given options colliding with the colliders
// passed. The slice of colliders is copied and must not change afterwards.
func NewMovementSimulator(opts MovementOptions, colliders ...cube.BBox) *MovementSimulator {
	return &MovementSimulator{
		Options:   opts,
		Colliders: append([]cube.BBox(nil), colliders...),
	}
}

// GroundPlane returns a wide, one unit thick collider whose top face lies at y=0.
func GroundPlane() cube.BBox {
	return cube.Box(-1e4, -1, -1e4, 1e4, 0, 1e4)
}

// BoundingBox returns the box of the agent standing at the given position. The position is the center
// of the bottom face of the box.
func (s *MovementSimulator) BoundingBox(pos mgl32.Vec3) cube.BBox {
	return game.AABBFromDimensions(s.Options.Width, s.Options.Height).Translate(pos)
}

// Simulate ...
func (s *MovementSimulator) Simulate(state game.State, input game.Input) game.State {
	dt := 1 / float32(s.Options.TickRate)
	vel := state.Velocity
	if state.OnGround && vel[1] < 0 {
		vel[1] = 0
	}

	move := mgl32.Vec3{input.Horizontal, 0, input.Vertical}.Mul(s.Options.Speed * dt)
	if input.Jump && state.OnGround {
		if impulse := s.Options.JumpHeight * game.JumpImpulseMultiplier * s.Options.Gravity; impulse > 0 {
			vel[1] += math32.Sqrt(impulse)
		}
	}
	vel[1] += s.Options.Gravity * dt

	delta := move.Add(vel.Mul(dt))
	clipped := collide(s.BoundingBox(state.Position), delta, s.Colliders)

	next := state
	next.Position = state.Position.Add(clipped)
	next.OnGround = delta[1] < 0 && clipped[1] != delta[1]
	if clipped[1] != delta[1] {
		vel[1] = 0
	}
	next.Velocity = game.ZeroSmall(vel)
	next.Tick = input.Tick
	return next
}
