package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/oomph-ac/rewind/player"
	"github.com/sirupsen/logrus"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default settings file to be created: %v", err)
	}

	opts, err := s.Opts()
	if err != nil {
		t.Fatalf("expected default settings to be valid: %v", err)
	}
	if opts != player.DefaultOpts() {
		t.Fatalf("expected default options, got %+v", opts)
	}

	// Loading again reads the file just written.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != s {
		t.Fatalf("expected %+v, got %+v", s, again)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[Simulation]
TickRate = 30
HistoryCapacity = 256
DivergenceEpsilon = 0.01
Fallback = "resimulate"

[Movement]
Speed = 4.0

[Network]
LossChance = 0.25
Delay = "150ms"

[Debug]
LogLevel = "debug"
Modes = "corrections"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write settings: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := s.Opts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.TickRate != 30 || opts.HistoryCapacity != 256 || opts.Fallback != player.FallbackResimulate || !game.Float32ApproxEq(opts.DivergenceEpsilon, 0.01) {
		t.Fatalf("unexpected options %+v", opts)
	}

	mov := s.MovementOptions()
	if mov.Speed != 4 || mov.TickRate != 30 || mov.Gravity != game.DefaultGravity {
		t.Fatalf("expected configured speed and default gravity, got %+v", mov)
	}

	c, err := s.Conditions()
	if err != nil || c.LossChance != 0.25 || c.Delay != 150*time.Millisecond {
		t.Fatalf("unexpected conditions %+v (%v)", c, err)
	}

	log, err := s.Logger()
	if err != nil || log.Level != logrus.DebugLevel {
		t.Fatalf("expected debug logger, got %v", err)
	}
	modes, err := s.DebugModes()
	if err != nil || len(modes) != 1 || modes[0] != player.DebugModeCorrections {
		t.Fatalf("unexpected debug modes %v (%v)", modes, err)
	}
}

func TestInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Simulation.HistoryCapacity = 1000
	if _, err := s.Opts(); err == nil {
		t.Errorf("expected capacity that is not a power of two to fail")
	}

	s = DefaultSettings()
	s.Simulation.Fallback = "teleport"
	if _, err := s.Opts(); err == nil {
		t.Errorf("expected unknown fallback to fail")
	}

	var rerr *oerror.RewindError
	s = DefaultSettings()
	s.Network.LossChance = 2
	if _, err := s.Conditions(); !errors.As(err, &rerr) {
		t.Errorf("expected loss chance above 1 to fail, got %v", err)
	}

	s = DefaultSettings()
	s.Network.Delay = "soon"
	if _, err := s.Conditions(); !errors.As(err, &rerr) || !strings.Contains(err.Error(), `"soon"`) {
		t.Errorf("expected invalid delay to fail, got %v", err)
	}

	s = DefaultSettings()
	s.Debug.LogLevel = "loud"
	if _, err := s.Logger(); !errors.As(err, &rerr) {
		t.Errorf("expected invalid log level to fail, got %v", err)
	}
}

func TestInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[Simulation\nTickRate = "), 0644); err != nil {
		t.Fatalf("unable to write settings: %v", err)
	}
	var rerr *oerror.RewindError
	if _, err := Load(path); !errors.As(err, &rerr) || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected malformed file to fail, got %v", err)
	}
}
