package player

import (
	"fmt"
	"strings"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/sirupsen/logrus"
)

const (
	DebugModeTicks = iota
	DebugModeBatches
	DebugModeReports
	DebugModeCorrections
	debugModeCount
)

var debugModeNames = [debugModeCount]string{
	DebugModeTicks:       "ticks",
	DebugModeBatches:     "batches",
	DebugModeReports:     "reports",
	DebugModeCorrections: "corrections",
}

// Debugger gates the debug messages of a player per mode.
type Debugger struct {
	log   *logrus.Logger
	modes [debugModeCount]bool
}

// NewDebugger returns a Debugger writing to the logger passed with every mode disabled.
func NewDebugger(log *logrus.Logger) *Debugger {
	return &Debugger{log: log}
}

// Toggle flips whether the mode passed is enabled and returns the new value.
func (d *Debugger) Toggle(mode int) bool {
	d.modes[mode] = !d.modes[mode]
	return d.modes[mode]
}

// Enable enables the modes passed.
func (d *Debugger) Enable(modes ...int) {
	for _, mode := range modes {
		d.modes[mode] = true
	}
}

// Enabled returns true if the mode passed is enabled.
func (d *Debugger) Enabled(mode int) bool {
	return d.modes[mode]
}

// Notify logs the message passed if the mode is enabled and cond is true.
func (d *Debugger) Notify(mode int, cond bool, format string, args ...any) {
	if !cond || !d.modes[mode] {
		return
	}
	d.log.Debugf("(%s) %s", debugModeNames[mode], fmt.Sprintf(format, args...))
}

// ParseDebugModes returns the modes named in the comma separated list passed, such as "ticks,reports".
func ParseDebugModes(list string) ([]int, error) {
	var modes []int
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mode := -1
		for i, n := range debugModeNames {
			if n == name {
				mode = i
				break
			}
		}
		if mode == -1 {
			return nil, oerror.New(game.ErrorUnknownDebugMode, name)
		}
		modes = append(modes, mode)
	}
	return modes, nil
}
