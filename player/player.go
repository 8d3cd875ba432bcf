package player

import (
	"io"
	"time"

	"github.com/oomph-ac/rewind/assert"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/history"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// InputSource provides the input of the player for a tick.
type InputSource interface {
	Sample(tick game.Tick) game.Input
}

// InputSourceFunc is a function implementing InputSource.
type InputSourceFunc func(tick game.Tick) game.Input

// Sample ...
func (f InputSourceFunc) Sample(tick game.Tick) game.Input {
	return f(tick)
}

// Player is an agent whose movement is predicted locally and reconciled with the state reported by a
// remote authority. It owns the history, simulator and components used to do so.
//
// Apart from QueueReport and Stats, the methods of a Player must be called from a single goroutine.
type Player struct {
	log  *logrus.Logger
	opts Opts

	history *history.History
	sim     simulation.Simulator
	spawn   game.State

	inputs InputSource
	conn   io.Writer

	prediction     PredictionComponent
	reconciliation ReconciliationComponent

	reportMu       deadlock.Mutex
	pendingReports []message.AuthorityReport

	stats Stats
	Dbg   *Debugger
}

// New creates a new player spawned in the state passed. The spawn state is recorded as tick 0, so the
// first tick predicted is tick 1. The components of the player must be registered before it is updated.
func New(log *logrus.Logger, opts Opts, sim simulation.Simulator, spawn game.State) (*Player, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, oerror.New(game.ErrorMissingSimulator)
	}
	h, err := history.New(opts.HistoryCapacity)
	if err != nil {
		return nil, err
	}

	spawn.Tick = 0
	if opts.VerifySimulator {
		in := game.Input{Horizontal: 1, Vertical: 1, Jump: true, Tick: 1}
		a, b := simulation.Checksum(sim.Simulate(spawn, in)), simulation.Checksum(sim.Simulate(spawn, in))
		assert.IsTrue(a == b, game.ErrorNondeterministic, a, b)
	}
	h.Record(0, game.Input{}, spawn)

	return &Player{
		log:     log,
		opts:    opts,
		history: h,
		sim:     sim,
		spawn:   spawn,
		Dbg:     NewDebugger(log),
	}, nil
}

// Log returns the logger of the player.
func (p *Player) Log() *logrus.Logger {
	return p.log
}

// Opts returns the options of the player.
func (p *Player) Opts() Opts {
	return p.opts
}

// History returns the history of inputs and predicted states of the player.
func (p *Player) History() *history.History {
	return p.history
}

// Simulator returns the simulator the player predicts and resimulates with.
func (p *Player) Simulator() simulation.Simulator {
	return p.sim
}

// Spawn returns the state the player was spawned in.
func (p *Player) Spawn() game.State {
	return p.spawn
}

// Stats returns the statistics of the player.
func (p *Player) Stats() *Stats {
	return &p.stats
}

// SetInputSource sets the source the input of every tick is sampled from.
func (p *Player) SetInputSource(src InputSource) {
	p.inputs = src
}

// SampleInput samples the input of the tick passed. Without an input source, the input is empty. The
// axes of the input are clamped and the input is stamped with the tick.
func (p *Player) SampleInput(tick game.Tick) game.Input {
	var in game.Input
	if p.inputs != nil {
		in = p.inputs.Sample(tick)
	}
	in = in.Clamped()
	in.Tick = tick
	return in
}

// SetConn sets the writer messages to the authority are written to.
func (p *Player) SetConn(conn io.Writer) {
	p.conn = conn
}

// WriteMessage encodes the message passed and writes it to the connection of the player.
func (p *Player) WriteMessage(pk message.Message) error {
	if p.conn == nil {
		return oerror.New("player has no connection to write %T to", pk)
	}
	b, err := message.Encode(pk)
	if err != nil {
		return err
	}
	_, err = p.conn.Write(b)
	return err
}

// QueueReport queues an authority report to be reconciled with between two ticks. It may be called from
// any goroutine.
func (p *Player) QueueReport(report message.AuthorityReport) {
	p.reportMu.Lock()
	p.pendingReports = append(p.pendingReports, report)
	p.reportMu.Unlock()
}

// ProcessReports reconciles the player with every queued authority report, in the order they were
// queued, and returns the resulting corrections.
func (p *Player) ProcessReports() []Correction {
	p.reportMu.Lock()
	reports := p.pendingReports
	p.pendingReports = nil
	p.reportMu.Unlock()

	if len(reports) == 0 {
		return nil
	}
	assert.IsTrue(p.reconciliation != nil, game.ErrorMissingComponents)

	corrections := make([]Correction, 0, len(reports))
	for _, report := range reports {
		c := p.reconciliation.Reconcile(report)
		p.stats.Record(c)
		p.Dbg.Notify(DebugModeReports, true, "report for tick %d: %s", report.Tick, c)
		corrections = append(corrections, c)
	}
	return corrections
}

// Update runs a single frame of the player: every tick that fits in the elapsed time passed is
// predicted, after which queued reports are reconciled. It returns the amount of ticks predicted.
func (p *Player) Update(dt time.Duration) int {
	assert.IsTrue(p.prediction != nil && p.reconciliation != nil, game.ErrorMissingComponents)

	n := p.prediction.Advance(dt)
	p.ProcessReports()
	return n
}
