package player

import (
	"go.uber.org/atomic"
)

// Stats holds counters about the prediction and reconciliation of a player. The counters are written
// by the goroutine ticking the player and may be read from any goroutine.
type Stats struct {
	Ticks atomic.Uint64

	Confirmations atomic.Uint64
	Corrections   atomic.Uint64
	Snaps         atomic.Uint64
	StaleReports  atomic.Uint64

	ReplayedTicks atomic.Uint64
	SkippedTicks  atomic.Uint64
	SendsDropped  atomic.Uint64

	MaxDivergence atomic.Float32
}

// StatsSnapshot is a copy of the counters of Stats at one point in time.
type StatsSnapshot struct {
	Ticks                                     uint64
	Confirmations, Corrections, Snaps, Stale  uint64
	ReplayedTicks, SkippedTicks, SendsDropped uint64
	MaxDivergence                             float32
}

// Record folds the correction passed into the counters.
func (s *Stats) Record(c Correction) {
	switch c.Outcome {
	case OutcomeStale:
		s.StaleReports.Inc()
		return
	case OutcomeConfirmed:
		s.Confirmations.Inc()
	case OutcomeCorrected:
		s.Corrections.Inc()
	case OutcomeSnapped:
		s.Snaps.Inc()
	}
	s.ReplayedTicks.Add(uint64(c.Replayed))
	s.SkippedTicks.Add(uint64(c.Skipped))
	for {
		old := s.MaxDivergence.Load()
		if c.Divergence <= old || s.MaxDivergence.CompareAndSwap(old, c.Divergence) {
			break
		}
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Ticks:         s.Ticks.Load(),
		Confirmations: s.Confirmations.Load(),
		Corrections:   s.Corrections.Load(),
		Snaps:         s.Snaps.Load(),
		Stale:         s.StaleReports.Load(),
		ReplayedTicks: s.ReplayedTicks.Load(),
		SkippedTicks:  s.SkippedTicks.Load(),
		SendsDropped:  s.SendsDropped.Load(),
		MaxDivergence: s.MaxDivergence.Load(),
	}
}
