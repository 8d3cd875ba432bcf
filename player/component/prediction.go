package component

import (
	"time"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/player"
)

// PredictionComponent runs the fixed timestep loop of the player. Every tick it samples input,
// simulates it and records the result, then sends every input not yet acknowledged by the authority.
type PredictionComponent struct {
	mPlayer *player.Player

	state       game.State
	currentTick game.Tick
	lastAcked   game.Tick

	interval    time.Duration
	accumulator time.Duration
}

// NewPredictionComponent returns a PredictionComponent predicting from the spawn state of the player.
func NewPredictionComponent(p *player.Player) *PredictionComponent {
	return &PredictionComponent{
		mPlayer:     p,
		state:       p.Spawn(),
		currentTick: p.Spawn().Tick.Next(),
		lastAcked:   p.Spawn().Tick,
		interval:    p.Opts().TickInterval(),
	}
}

// Advance ...
func (pc *PredictionComponent) Advance(dt time.Duration) int {
	if dt > 0 {
		pc.accumulator += dt
	}

	var ticks int
	for pc.accumulator >= pc.interval {
		pc.accumulator -= pc.interval
		pc.tick()
		ticks++
	}
	return ticks
}

// tick predicts a single tick.
func (pc *PredictionComponent) tick() {
	// Reports that arrived during the previous tick are applied before the next one starts.
	pc.mPlayer.ProcessReports()

	tick := pc.currentTick
	input := pc.mPlayer.SampleInput(tick)
	next := pc.mPlayer.Simulator().Simulate(pc.state, input)
	next.Tick = tick

	pc.mPlayer.History().Record(tick, input, next)
	pc.state = next
	pc.currentTick = tick.Next()
	pc.trimAcknowledged()
	pc.mPlayer.Reconciliation().Expire(pc.currentTick)
	pc.mPlayer.Stats().Ticks.Inc()
	pc.mPlayer.Dbg.Notify(player.DebugModeTicks, true, "tick %d: input=%+v pos=%v", tick, input, game.RoundVec32(next.Position, 4))

	if err := pc.Flush(); err != nil {
		pc.mPlayer.Stats().SendsDropped.Inc()
		pc.mPlayer.Log().Debugf("unable to send inputs for tick %d: %v", tick, err)
	}
}

// trimAcknowledged moves the last acknowledged tick up to just before the oldest tick held in history.
// Inputs older than that can no longer be sent, and an acknowledgement left further behind would stop
// being comparable with the current tick once the tick window is exceeded.
func (pc *PredictionComponent) trimAcknowledged() {
	limit := min(pc.mPlayer.History().Capacity(), game.TickWindow-2)
	if d := pc.currentTick.Diff(pc.lastAcked); d <= 0 || d > limit+1 {
		pc.lastAcked = pc.currentTick.Add(-limit - 1)
	}
}

// CurrentTick ...
func (pc *PredictionComponent) CurrentTick() game.Tick {
	return pc.currentTick
}

// State ...
func (pc *PredictionComponent) State() game.State {
	return pc.state
}

// SetState ...
func (pc *PredictionComponent) SetState(s game.State) {
	pc.state = s
}

// Reset ...
func (pc *PredictionComponent) Reset(s game.State) {
	h := pc.mPlayer.History()
	h.Clear()
	h.Record(s.Tick, game.Input{}, s)
	pc.state = s
	pc.currentTick = s.Tick.Next()
	pc.lastAcked = s.Tick
}

// Acknowledge ...
func (pc *PredictionComponent) Acknowledge(tick game.Tick) {
	if tick.After(pc.lastAcked) {
		pc.lastAcked = tick
	}
}

// LastAcknowledged ...
func (pc *PredictionComponent) LastAcknowledged() game.Tick {
	return pc.lastAcked
}

// Batch returns an input batch holding every recorded input after the last acknowledged tick, oldest
// first. Only the oldest game.MaxBatchInputs inputs are included, so the authority never has to skip a
// tick. Inputs that are no longer held in history are left out.
func (pc *PredictionComponent) Batch() *message.InputBatch {
	h := pc.mPlayer.History()

	start := pc.lastAcked.Next()
	if oldest := pc.currentTick.Add(-h.Capacity()); oldest.After(start) {
		start = oldest
	}

	batch := &message.InputBatch{}
	for t := start; t.Before(pc.currentTick) && len(batch.Inputs) < game.MaxBatchInputs; t = t.Next() {
		input, ok := h.Input(t)
		if !ok {
			break
		}
		batch.Inputs = append(batch.Inputs, input)
	}
	return batch
}

// Flush ...
func (pc *PredictionComponent) Flush() error {
	batch := pc.Batch()
	if len(batch.Inputs) == 0 {
		return nil
	}
	pc.mPlayer.Dbg.Notify(player.DebugModeBatches, true, "sending inputs %d..%d", batch.First(), batch.Last())
	return pc.mPlayer.WriteMessage(batch)
}
