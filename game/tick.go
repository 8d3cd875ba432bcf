package game

const (
	// TickModulus is the number of distinct tick values. Ticks travel over the network as 16-bit
	// unsigned integers, so the counter wraps back to zero after 65535.
	TickModulus = 1 << 16
	// TickWindow is the largest real distance two ticks may be apart and still be compared. Comparisons
	// between ticks further apart than this are ambiguous and yield meaningless results.
	TickWindow = TickModulus / 2
)

// Tick is the index of a discrete simulation step. It wraps at TickModulus, and all arithmetic on it
// is done modulo TickModulus under the assumption that the ticks involved are less than TickWindow
// apart.
type Tick uint16

// Next returns the tick that directly follows t.
func (t Tick) Next() Tick {
	return t.Add(1)
}

// Prev returns the tick that directly precedes t.
func (t Tick) Prev() Tick {
	return t.Add(-1)
}

// Add returns t advanced by n ticks. n may be negative.
func (t Tick) Add(n int) Tick {
	v := (int(t) + n) % TickModulus
	if v < 0 {
		v += TickModulus
	}
	return Tick(v)
}

// Diff returns the signed number of ticks from other to t, in the range [-TickWindow, TickWindow).
func (t Tick) Diff(other Tick) int {
	d := (int(t) - int(other)) % TickModulus
	if d < 0 {
		d += TickModulus
	}
	if d >= TickWindow {
		d -= TickModulus
	}
	return d
}

// After returns true if t comes after other.
func (t Tick) After(other Tick) bool {
	return t.Diff(other) > 0
}

// Before returns true if t comes before other.
func (t Tick) Before(other Tick) bool {
	return t.Diff(other) < 0
}
