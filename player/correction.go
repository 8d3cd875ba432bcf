package player

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
)

// Outcome is the result of reconciling the player with an authority report.
type Outcome uint8

const (
	// OutcomeStale is returned for reports at or before the last accepted report. They are discarded.
	OutcomeStale Outcome = iota
	// OutcomeConfirmed is returned when the predicted position matched the report within the divergence
	// epsilon.
	OutcomeConfirmed
	// OutcomeCorrected is returned when the player was rewound to the report and every following tick
	// was simulated again.
	OutcomeCorrected
	// OutcomeSnapped is returned when the report could not be reconciled precisely and the player was
	// moved to the reported position instead.
	OutcomeSnapped
)

// String ...
func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeSnapped:
		return "snapped"
	}
	return "unknown"
}

// Correction describes what a single authority report did to the player.
type Correction struct {
	Tick    game.Tick
	Outcome Outcome
	// Divergence is the distance between the predicted and the reported position at Tick. It is zero
	// when there was no prediction to compare against.
	Divergence float32
	// Replayed is the amount of ticks simulated again, Skipped the amount of ticks that could not be
	// because their input was no longer held in history.
	Replayed, Skipped int
	// Position is the live position of the player once the report was handled.
	Position mgl32.Vec3
}

// Fields returns the data of the correction in a fixed order, for logging.
func (c Correction) Fields() *orderedmap.OrderedMap[string, any] {
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("tick", c.Tick)
	data.Set("outcome", c.Outcome)
	data.Set("divergence", game.Round32(c.Divergence, 4))
	data.Set("replayed", c.Replayed)
	data.Set("skipped", c.Skipped)
	data.Set("pos", game.RoundVec32(c.Position, 4))
	return data
}

// String ...
func (c Correction) String() string {
	return FieldsToString(c.Fields())
}

// FieldsToString formats an ordered map of debug data as [key=value key=value].
func FieldsToString(data *orderedmap.OrderedMap[string, any]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, key := range data.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		v, _ := data.Get(key)
		fmt.Fprintf(&sb, "%s=%v", key, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
