package player

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sirupsen/logrus"
)

var still = simulation.SimulatorFunc(func(state game.State, _ game.Input) game.State {
	return state
})

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOptsValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(o *Opts)
		valid bool
	}{
		{"default", func(*Opts) {}, true},
		{"capacity one", func(o *Opts) { o.HistoryCapacity = 1 }, true},
		{"capacity window", func(o *Opts) { o.HistoryCapacity = game.TickWindow }, true},
		{"capacity not power of two", func(o *Opts) { o.HistoryCapacity = 1000 }, false},
		{"capacity above window", func(o *Opts) { o.HistoryCapacity = game.TickWindow * 2 }, false},
		{"zero tick rate", func(o *Opts) { o.TickRate = 0 }, false},
		{"negative epsilon", func(o *Opts) { o.DivergenceEpsilon = -1 }, false},
		{"unknown fallback", func(o *Opts) { o.Fallback = 9 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOpts()
			tt.edit(&o)
			if err := o.Validate(); (err == nil) != tt.valid {
				t.Fatalf("expected valid=%v, got error %v", tt.valid, err)
			}
		})
	}
}

func TestOptsTickInterval(t *testing.T) {
	o := DefaultOpts()
	if o.TickInterval() != time.Second/60 {
		t.Fatalf("expected a 60th of a second, got %v", o.TickInterval())
	}
}

func TestParseFallback(t *testing.T) {
	for name, expected := range map[string]FallbackPolicy{"": FallbackSnap, "snap": FallbackSnap, " Resimulate ": FallbackResimulate} {
		f, err := ParseFallback(name)
		if err != nil || f != expected {
			t.Fatalf("%q: expected %v, got %v (%v)", name, expected, f, err)
		}
	}
	if _, err := ParseFallback("teleport"); err == nil {
		t.Fatalf("expected unknown policy to fail")
	}
}

func TestNewRecordsSpawn(t *testing.T) {
	spawn := game.State{Position: mgl32.Vec3{1, 2, 3}, Tick: 40}
	p, err := New(testLogger(), DefaultOpts(), still, spawn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, ok := p.History().State(0)
	if !ok || state.Position != spawn.Position {
		t.Fatalf("expected spawn to be recorded at tick 0, got %+v", state)
	}
	if p.Spawn().Tick != 0 {
		t.Fatalf("expected spawn to be moved to tick 0")
	}

	if _, err := New(testLogger(), DefaultOpts(), nil, spawn); err == nil {
		t.Fatalf("expected missing simulator to fail")
	}
	opts := DefaultOpts()
	opts.HistoryCapacity = 3
	if _, err := New(testLogger(), opts, still, spawn); err == nil {
		t.Fatalf("expected invalid options to fail")
	}
}

func TestVerifySimulator(t *testing.T) {
	var calls float32
	drifting := simulation.SimulatorFunc(func(state game.State, _ game.Input) game.State {
		calls++
		state.Position[0] += calls
		return state
	})

	opts := DefaultOpts()
	opts.VerifySimulator = true
	if _, err := New(testLogger(), opts, still, game.State{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a nondeterministic simulator to panic")
		}
	}()
	_, _ = New(testLogger(), opts, drifting, game.State{})
}

func TestSampleInput(t *testing.T) {
	p, _ := New(testLogger(), DefaultOpts(), still, game.State{})
	if in := p.SampleInput(5); in != (game.Input{Tick: 5}) {
		t.Fatalf("expected empty input without a source, got %+v", in)
	}

	p.SetInputSource(InputSourceFunc(func(game.Tick) game.Input {
		return game.Input{Horizontal: 3, Vertical: -2, Jump: true, Tick: 99}
	}))
	if in := p.SampleInput(6); in != (game.Input{Horizontal: 1, Vertical: -1, Jump: true, Tick: 6}) {
		t.Fatalf("expected clamped input stamped with tick 6, got %+v", in)
	}
}

func TestWriteMessage(t *testing.T) {
	p, _ := New(testLogger(), DefaultOpts(), still, game.State{})
	if err := p.WriteMessage(&message.AuthorityReport{}); err == nil {
		t.Fatalf("expected write without a connection to fail")
	}

	var buf bytes.Buffer
	p.SetConn(&buf)
	if err := p.WriteMessage(&message.AuthorityReport{Tick: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pk, err := message.Decode(buf.Bytes())
	if err != nil || pk.(*message.AuthorityReport).Tick != 3 {
		t.Fatalf("expected report for tick 3 to be written, got %v (%v)", pk, err)
	}
}

func TestStatsRecord(t *testing.T) {
	var s Stats
	s.Record(Correction{Outcome: OutcomeCorrected, Divergence: 0.5, Replayed: 4, Skipped: 1})
	s.Record(Correction{Outcome: OutcomeConfirmed, Divergence: 0.0005})
	s.Record(Correction{Outcome: OutcomeSnapped, Divergence: 2})
	s.Record(Correction{Outcome: OutcomeStale, Divergence: 10})

	snap := s.Snapshot()
	expected := StatsSnapshot{
		Confirmations: 1,
		Corrections:   1,
		Snaps:         1,
		Stale:         1,
		ReplayedTicks: 4,
		SkippedTicks:  1,
		MaxDivergence: 2,
	}
	if snap != expected {
		t.Fatalf("expected %+v, got %+v", expected, snap)
	}
}

func TestCorrectionString(t *testing.T) {
	c := Correction{Tick: 12, Outcome: OutcomeCorrected, Divergence: 0.123456, Replayed: 3}
	str := c.String()
	if !strings.HasPrefix(str, "[tick=12 outcome=corrected divergence=0.1235 replayed=3 skipped=0") {
		t.Fatalf("unexpected correction string %q", str)
	}
}

func TestDebugModes(t *testing.T) {
	modes, err := ParseDebugModes("ticks, corrections")
	if err != nil || len(modes) != 2 || modes[0] != DebugModeTicks || modes[1] != DebugModeCorrections {
		t.Fatalf("unexpected modes %v (%v)", modes, err)
	}
	if _, err := ParseDebugModes("ticks,unknown"); err == nil || err.Error() != `unknown debug mode "unknown"` {
		t.Fatalf("expected unknown mode to fail, got %v", err)
	}

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	d := NewDebugger(log)
	d.Notify(DebugModeReports, true, "hidden")
	d.Enable(modes...)
	d.Notify(DebugModeTicks, false, "hidden")
	d.Notify(DebugModeTicks, true, "tick %d", 4)
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "(ticks) tick 4") {
		t.Fatalf("unexpected debug output %q", out)
	}
	if d.Toggle(DebugModeTicks) || d.Enabled(DebugModeTicks) {
		t.Fatalf("expected toggle to disable ticks")
	}
}
