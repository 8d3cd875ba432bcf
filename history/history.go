package history

import (
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/oerror"
)

// slot is a single entry of the history. tick is the tick that last wrote the slot, and is compared
// against the requested tick on every read so that a reused slot is never mistaken for an older one.
type slot struct {
	tick    game.Tick
	written bool

	input game.Input
	state game.State
}

// History is a fixed-capacity circular record of the input applied and the state produced at every
// tick. Writing a tick overwrites whatever tick previously occupied the same slot, so only the last
// Capacity() ticks written can be read back.
// History is not safe for concurrent use; it is owned by a single player.
type History struct {
	slots []slot
	mask  int
	size  int
}

// New creates a new History with the given capacity. The capacity must be a power of two no larger
// than game.TickWindow, so that slot indices stay consistent when the tick counter wraps.
func New(capacity int) (*History, error) {
	if capacity <= 0 || capacity > game.TickWindow || capacity&(capacity-1) != 0 {
		return nil, oerror.New(game.ErrorHistoryCapacity, capacity, game.TickWindow)
	}
	return &History{
		slots: make([]slot, capacity),
		mask:  capacity - 1,
	}, nil
}

// Slot returns the index of the slot the given tick is stored in.
func (h *History) Slot(tick game.Tick) int {
	return int(tick) & h.mask
}

// Record stores the input and resulting state of the given tick, replacing whatever occupied its slot.
func (h *History) Record(tick game.Tick, input game.Input, state game.State) {
	s := &h.slots[h.Slot(tick)]
	if !s.written {
		h.size++
	}

	input.Tick, state.Tick = tick, tick
	*s = slot{
		tick:    tick,
		written: true,
		input:   input,
		state:   state,
	}
}

// Get returns the input and state recorded at the given tick. The boolean is false if the tick was never
// recorded or its slot has since been reused by a newer tick.
func (h *History) Get(tick game.Tick) (game.Input, game.State, bool) {
	s := h.slots[h.Slot(tick)]
	if !s.written || s.tick != tick {
		return game.Input{}, game.State{}, false
	}
	return s.input, s.state, true
}

// Input returns the input recorded at the given tick.
func (h *History) Input(tick game.Tick) (game.Input, bool) {
	input, _, ok := h.Get(tick)
	return input, ok
}

// State returns the state recorded at the given tick.
func (h *History) State(tick game.Tick) (game.State, bool) {
	_, state, ok := h.Get(tick)
	return state, ok
}

// Capacity returns the maximum number of ticks the history can hold.
func (h *History) Capacity() int {
	return len(h.slots)
}

// Len returns the number of slots that have been written at least once.
func (h *History) Len() int {
	return h.size
}

// Clear invalidates every slot of the history.
func (h *History) Clear() {
	clear(h.slots)
	h.size = 0
}
