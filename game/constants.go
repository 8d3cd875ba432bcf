package game

const (
	DefaultTickRate          = 60
	DefaultHistoryCapacity   = 1024
	DefaultDivergenceEpsilon = float32(0.001)

	// MaxBatchInputs is the largest number of inputs a single input batch can carry, as the count is
	// sent as one byte.
	MaxBatchInputs = 255
	// MaxTickAge is the largest distance a tick may trail the newest tick of its side before it is
	// considered lost. Older acknowledgements are moved up to it so they stay comparable.
	MaxTickAge = TickWindow / 2
)

const (
	DefaultMovementSpeed = float32(2.0)
	DefaultJumpHeight    = float32(1.0)
	DefaultGravity       = float32(-9.81)
	DefaultAgentWidth    = float32(0.6)
	DefaultAgentHeight   = float32(1.8)
	// JumpImpulseMultiplier is applied to JumpHeight*Gravity to get the squared jump velocity.
	JumpImpulseMultiplier = float32(-3.0)
)
