package authority

import (
	"fmt"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sirupsen/logrus"
)

// Authority holds the canonical state of a single agent. It applies the inputs it receives from the
// predicting client through the same simulator the client predicts with, exactly once and in tick
// order, and reports the resulting position back.
// Authority is not safe for concurrent use.
type Authority struct {
	log *logrus.Logger
	sim simulation.Simulator

	state     game.State
	watermark game.Tick
}

// New returns an Authority for an agent spawned in the state passed. Like the client, the spawn state
// is the state at tick 0.
func New(log *logrus.Logger, sim simulation.Simulator, spawn game.State) *Authority {
	spawn.Tick = 0
	return &Authority{log: log, sim: sim, state: spawn}
}

// HandleBatch applies every input of the batch newer than the last input applied, in tick order, and
// returns a report holding the canonical position after the newest input. A batch holding only inputs
// that were already applied returns the current report again. Batches whose ticks are not contiguous
// are rejected whole with an error wrapping message.ErrMalformedBatch.
//
// A batch starting more than game.MaxTickAge ticks behind the watermark is taken as a client resuming
// after a silence longer than the tick window, and is applied from its first input onwards.
func (a *Authority) HandleBatch(batch *message.InputBatch) (message.AuthorityReport, error) {
	if len(batch.Inputs) > game.MaxBatchInputs {
		return message.AuthorityReport{}, fmt.Errorf("%w: %d inputs exceeds the limit of %d", message.ErrMalformedBatch, len(batch.Inputs), game.MaxBatchInputs)
	}
	if err := batch.Validate(); err != nil {
		return message.AuthorityReport{}, err
	}

	if len(batch.Inputs) > 0 && batch.First().Diff(a.watermark) < -game.MaxTickAge {
		a.log.Debugf("inputs resume at tick %d, far behind watermark %d, rebasing", batch.First(), a.watermark)
		a.watermark = batch.First().Prev()
	}

	var applied int
	for _, input := range batch.Inputs {
		if !input.Tick.After(a.watermark) {
			continue
		}
		if applied == 0 && input.Tick != a.watermark.Next() {
			a.log.Debugf("inputs %d..%d never arrived, continuing from tick %d", a.watermark.Next(), input.Tick.Prev(), input.Tick)
		}

		next := a.sim.Simulate(a.state, input.Clamped())
		next.Tick = input.Tick
		a.state, a.watermark = next, input.Tick
		applied++
	}
	return a.Report(), nil
}

// Report returns the report describing the canonical state.
func (a *Authority) Report() message.AuthorityReport {
	return message.AuthorityReport{Tick: a.watermark, Position: a.state.Position}
}

// State returns the canonical state of the agent.
func (a *Authority) State() game.State {
	return a.state
}

// Watermark returns the tick of the newest input applied.
func (a *Authority) Watermark() game.Tick {
	return a.watermark
}
