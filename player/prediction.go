package player

import (
	"time"

	"github.com/oomph-ac/rewind/game"
)

// PredictionComponent is the component of the player that simulates its movement ahead of the
// authority. Every tick it samples input, simulates it, records both in the history of the player and
// sends the unacknowledged inputs to the authority.
type PredictionComponent interface {
	// Advance accumulates the elapsed time passed and runs one tick for every full tick interval held by
	// the accumulator. It returns the amount of ticks ran.
	Advance(dt time.Duration) int
	// CurrentTick returns the tick that will be predicted next.
	CurrentTick() game.Tick
	// State returns the live predicted state: the state produced by the newest predicted tick.
	State() game.State
	// SetState replaces the live predicted state. It is used by reconciliation after rewinding.
	SetState(s game.State)
	// Reset discards the prediction and restarts it from the state passed, which is treated as confirmed
	// by the authority at its tick. The history is cleared, as it belongs to the discarded prediction.
	// The next tick predicted is the one after the state passed.
	Reset(s game.State)
	// Acknowledge marks every input up to and including the tick passed as processed by the authority,
	// so that it is no longer sent.
	Acknowledge(tick game.Tick)
	// LastAcknowledged returns the newest tick acknowledged by the authority.
	LastAcknowledged() game.Tick
	// Flush sends an input batch holding every unacknowledged input to the authority.
	Flush() error
}

// SetPrediction sets the prediction component of the player.
func (p *Player) SetPrediction(c PredictionComponent) {
	p.prediction = c
}

// Prediction returns the prediction component of the player.
func (p *Player) Prediction() PredictionComponent {
	return p.prediction
}
