package authority

import (
	"errors"
	"io"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sirupsen/logrus"
)

// counter moves the agent by the horizontal input along X and counts how often it was called.
type counter struct {
	calls int
}

func (c *counter) Simulate(state game.State, input game.Input) game.State {
	c.calls++
	state.Position = state.Position.Add(mgl32.Vec3{input.Horizontal, 0, 0})
	return state
}

func newAuthority(sim simulation.Simulator) *Authority {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log, sim, game.State{})
}

func batch(first, last game.Tick, horizontal float32) *message.InputBatch {
	b := &message.InputBatch{}
	for t := first; ; t = t.Next() {
		b.Inputs = append(b.Inputs, game.Input{Horizontal: horizontal, Tick: t})
		if t == last {
			return b
		}
	}
}

func TestAuthorityAppliesInOrder(t *testing.T) {
	sim := &counter{}
	a := newAuthority(sim)

	report, err := a.HandleBatch(batch(1, 3, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Tick != 3 || report.Position != (mgl32.Vec3{3, 0, 0}) {
		t.Fatalf("unexpected report %+v", report)
	}
	if a.State().Tick != 3 {
		t.Fatalf("expected canonical state at tick 3, got %d", a.State().Tick)
	}
}

func TestAuthorityDedupe(t *testing.T) {
	sim := &counter{}
	a := newAuthority(sim)

	_, _ = a.HandleBatch(batch(1, 3, 1))
	report, err := a.HandleBatch(batch(1, 5, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.calls != 5 {
		t.Fatalf("expected every input to be simulated exactly once, got %d calls", sim.calls)
	}
	if report.Tick != 5 || report.Position != (mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("unexpected report %+v", report)
	}

	// A batch made only of processed inputs republishes the same report.
	again, err := a.HandleBatch(batch(2, 4, -1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != report || sim.calls != 5 {
		t.Fatalf("expected stale batch to leave the authority untouched, got %+v after %d calls", again, sim.calls)
	}
}

func TestAuthorityGap(t *testing.T) {
	a := newAuthority(&counter{})
	report, err := a.HandleBatch(batch(4, 6, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Tick != 6 || report.Position != (mgl32.Vec3{3, 0, 0}) {
		t.Fatalf("unexpected report %+v", report)
	}
	if a.Watermark() != 6 {
		t.Fatalf("expected watermark 6, got %d", a.Watermark())
	}
}

func TestAuthorityRejectsMalformed(t *testing.T) {
	sim := &counter{}
	a := newAuthority(sim)

	b := batch(1, 3, 1)
	b.Inputs[1].Tick = 7
	if _, err := a.HandleBatch(b); !errors.Is(err, message.ErrMalformedBatch) {
		t.Fatalf("expected malformed batch error, got %v", err)
	}
	if sim.calls != 0 || a.Watermark() != 0 {
		t.Fatalf("expected malformed batch to be discarded whole")
	}

	if _, err := a.HandleBatch(batch(1, game.MaxBatchInputs+1, 1)); !errors.Is(err, message.ErrMalformedBatch) {
		t.Fatalf("expected oversized batch error, got %v", err)
	}
}

func TestAuthorityAcrossWrap(t *testing.T) {
	a := newAuthority(&counter{})
	a.watermark = game.Tick(game.TickModulus - 2)

	report, err := a.HandleBatch(batch(game.Tick(game.TickModulus-3), 2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only ticks 65535, 0, 1 and 2 follow the watermark.
	if report.Tick != 2 || report.Position != (mgl32.Vec3{4, 0, 0}) {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestAuthorityResumesAfterLongSilence(t *testing.T) {
	a := newAuthority(&counter{})
	if _, err := a.HandleBatch(batch(1, 10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A client silent for more than the tick window resumes with ticks that appear to precede the
	// watermark.
	first := game.Tick(10).Add(40000)
	report, err := a.HandleBatch(batch(first, first.Add(4), 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Tick != first.Add(4) || report.Position != (mgl32.Vec3{15, 0, 0}) {
		t.Fatalf("expected inputs after the silence to be applied, got %+v", report)
	}

	// Batches that are merely late are still ignored.
	if report, _ = a.HandleBatch(batch(first, first.Add(2), 1)); report.Tick != first.Add(4) {
		t.Fatalf("expected late batch to be ignored, got %+v", report)
	}
}

func TestAuthorityIgnoresNaNAxes(t *testing.T) {
	a := newAuthority(&counter{})
	b := batch(1, 2, 1)
	b.Inputs[0].Horizontal = math32.NaN()

	report, err := a.HandleBatch(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected NaN axis to be treated as no movement, got %v", report.Position)
	}
}
