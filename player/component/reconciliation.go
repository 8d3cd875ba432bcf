package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/player"
)

// ReconciliationComponent compares authority reports against the predicted history of the player. When
// the two diverge, the report tick is rewritten with the reported position and every tick predicted
// after it is simulated again from its cached input.
type ReconciliationComponent struct {
	mPlayer      *player.Player
	lastAccepted game.Tick
}

// NewReconciliationComponent ...
func NewReconciliationComponent(p *player.Player) *ReconciliationComponent {
	return &ReconciliationComponent{
		mPlayer:      p,
		lastAccepted: p.Spawn().Tick,
	}
}

// LastAcceptedTick ...
func (rc *ReconciliationComponent) LastAcceptedTick() game.Tick {
	return rc.lastAccepted
}

// Expire ...
func (rc *ReconciliationComponent) Expire(current game.Tick) {
	if d := current.Diff(rc.lastAccepted); d <= 0 || d > game.MaxTickAge {
		rc.lastAccepted = current.Add(-game.MaxTickAge)
	}
}

// Reconcile ...
func (rc *ReconciliationComponent) Reconcile(report message.AuthorityReport) player.Correction {
	pred := rc.mPlayer.Prediction()
	c := player.Correction{Tick: report.Tick}
	if !report.Tick.After(rc.lastAccepted) {
		c.Outcome = player.OutcomeStale
		c.Position = pred.State().Position
		return c
	}
	rc.lastAccepted = report.Tick
	pred.Acknowledge(report.Tick)

	current := pred.CurrentTick()
	if !report.Tick.Before(current) {
		// The authority is ahead of anything predicted, so there is no history to rewind into.
		reset := pred.State().WithPosition(report.Position)
		reset.Tick = report.Tick
		pred.Reset(reset)

		c.Outcome, c.Position = player.OutcomeSnapped, report.Position
		rc.mPlayer.Log().Warnf("report for tick %d is ahead of predicted tick %d, resetting prediction %s", report.Tick, current, c)
		return c
	}

	h := rc.mPlayer.History()
	cached, ok := h.State(report.Tick)
	if !ok {
		return rc.fallback(report, c)
	}

	c.Divergence = game.Distance(cached.Position, report.Position)
	if c.Divergence <= rc.mPlayer.Opts().DivergenceEpsilon {
		c.Outcome, c.Position = player.OutcomeConfirmed, pred.State().Position
		return c
	}

	// The cached state at the report tick already includes the input of that tick, so the corrected base
	// replaces it in place and replay continues with the tick after.
	input, _ := h.Input(report.Tick)
	base := cached.WithPosition(report.Position)
	h.Record(report.Tick, input, base)

	c.Outcome = player.OutcomeCorrected
	c.Replayed, c.Skipped, c.Position = rc.replay(base, report.Tick, current)
	rc.mPlayer.Dbg.Notify(player.DebugModeCorrections, true, "corrected %s", c)
	return c
}

// fallback applies a report whose tick is no longer held in history, following the fallback policy of
// the player.
func (rc *ReconciliationComponent) fallback(report message.AuthorityReport, c player.Correction) player.Correction {
	pred := rc.mPlayer.Prediction()
	base := pred.State().WithPosition(report.Position)
	c.Outcome = player.OutcomeSnapped

	switch rc.mPlayer.Opts().Fallback {
	case player.FallbackResimulate:
		c.Replayed, c.Skipped, c.Position = rc.replay(base, report.Tick, pred.CurrentTick())
	default:
		pred.SetState(base)
		c.Position = base.Position
	}
	rc.mPlayer.Log().Warnf("tick %d is no longer held in history, degraded correction (%s) %s", report.Tick, rc.mPlayer.Opts().Fallback, c)
	return c
}

// replay simulates every tick after the tick passed up to the newest predicted tick again, starting
// from the state passed, and records the results. Ticks whose input is no longer held in history are
// skipped. The final state becomes the live predicted state and its position is returned.
func (rc *ReconciliationComponent) replay(running game.State, from, current game.Tick) (replayed, skipped int, pos mgl32.Vec3) {
	h, sim := rc.mPlayer.History(), rc.mPlayer.Simulator()
	for t := from.Next(); t.Before(current); t = t.Next() {
		input, ok := h.Input(t)
		if !ok {
			skipped++
			continue
		}
		running = sim.Simulate(running, input)
		running.Tick = t
		h.Record(t, input, running)
		replayed++
	}

	running.Tick = current.Prev()
	rc.mPlayer.Prediction().SetState(running)
	return replayed, skipped, running.Position
}
