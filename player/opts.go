package player

import (
	"strconv"
	"strings"
	"time"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/oerror"
)

// FallbackPolicy decides what the reconciliation component does when an authority report arrives for a
// tick that is no longer held in the history of the player.
type FallbackPolicy uint8

const (
	// FallbackSnap teleports the player to the position of the report without resimulating anything.
	FallbackSnap FallbackPolicy = iota
	// FallbackResimulate moves the live state of the player to the position of the report and replays
	// whatever cached inputs remain after the report tick.
	FallbackResimulate
)

// ParseFallback parses a fallback policy from its name, as used in configuration files.
func ParseFallback(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snap":
		return FallbackSnap, nil
	case "resimulate":
		return FallbackResimulate, nil
	}
	return 0, oerror.New(game.ErrorUnknownFallback, s)
}

// String ...
func (f FallbackPolicy) String() string {
	switch f {
	case FallbackSnap:
		return "snap"
	case FallbackResimulate:
		return "resimulate"
	}
	return "unknown"
}

// Opts holds the options a player predicts and reconciles with.
type Opts struct {
	// TickRate is the amount of ticks simulated per second.
	TickRate int
	// HistoryCapacity is the amount of ticks held in the history. It must be a power of two.
	HistoryCapacity int
	// DivergenceEpsilon is the distance between a predicted and an authoritative position above which a
	// correction is applied.
	DivergenceEpsilon float32
	// Fallback is the policy used when the history no longer holds the tick of a report.
	Fallback FallbackPolicy
	// VerifySimulator makes the player assert that its simulator is deterministic on creation.
	VerifySimulator bool
}

// DefaultOpts returns the default options of a player.
func DefaultOpts() Opts {
	return Opts{
		TickRate:          game.DefaultTickRate,
		HistoryCapacity:   game.DefaultHistoryCapacity,
		DivergenceEpsilon: game.DefaultDivergenceEpsilon,
		Fallback:          FallbackSnap,
	}
}

// Validate returns an error if the options cannot be used by a player.
func (o Opts) Validate() error {
	if o.TickRate <= 0 {
		return oerror.New(game.ErrorInvalidTickRate, o.TickRate)
	}
	if c := o.HistoryCapacity; c <= 0 || c > game.TickWindow || c&(c-1) != 0 {
		return oerror.New(game.ErrorHistoryCapacity, c, game.TickWindow)
	}
	if o.DivergenceEpsilon < 0 {
		return oerror.New(game.ErrorInvalidEpsilon, o.DivergenceEpsilon)
	}
	if o.Fallback > FallbackResimulate {
		return oerror.New(game.ErrorUnknownFallback, strconv.Itoa(int(o.Fallback)))
	}
	return nil
}

// TickInterval returns the duration of a single tick.
func (o Opts) TickInterval() time.Duration {
	return time.Second / time.Duration(o.TickRate)
}
