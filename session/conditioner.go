package session

import (
	"bytes"
	"io"
	"math/rand/v2"
	"time"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

// Conditions describe the network conditions a Conditioner simulates.
type Conditions struct {
	// LossChance is the chance between 0 and 1 that a message is dropped.
	LossChance float64
	// Delay is the time every message is held back before it is written.
	Delay time.Duration
}

// Conditioner wraps a writer to simulate a lossy, delayed network. Dropped messages are reported as
// written, the way an unreliable transport would.
type Conditioner struct {
	w    io.Writer
	c    Conditions
	rand *rand.Rand

	mu      deadlock.Mutex
	dropped atomic.Uint64
}

// NewConditioner returns a Conditioner writing to w under the conditions passed.
func NewConditioner(w io.Writer, c Conditions) *Conditioner {
	return NewSeededConditioner(w, c, rand.Uint64())
}

// NewSeededConditioner returns a Conditioner whose messages are dropped following the seed passed.
func NewSeededConditioner(w io.Writer, c Conditions, seed uint64) *Conditioner {
	return &Conditioner{
		w:    w,
		c:    c,
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Write ...
func (c *Conditioner) Write(b []byte) (int, error) {
	c.mu.Lock()
	drop := c.c.LossChance > 0 && c.rand.Float64() < c.c.LossChance
	c.mu.Unlock()
	if drop {
		c.dropped.Inc()
		return len(b), nil
	}

	if c.c.Delay <= 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.w.Write(b)
	}

	delayed := bytes.Clone(b)
	time.AfterFunc(c.c.Delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, _ = c.w.Write(delayed)
	})
	return len(b), nil
}

// Dropped returns the amount of messages dropped so far.
func (c *Conditioner) Dropped() uint64 {
	return c.dropped.Load()
}
