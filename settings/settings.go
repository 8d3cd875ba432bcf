package settings

import (
	"errors"
	"os"
	"time"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/oomph-ac/rewind/player"
	"github.com/oomph-ac/rewind/session"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// Settings contains everything that can be configured for a client or server.
type Settings struct {
	Simulation struct {
		// TickRate is the amount of ticks simulated per second.
		TickRate int
		// HistoryCapacity is the amount of ticks held in history. It must be a power of two.
		HistoryCapacity int
		// DivergenceEpsilon is the distance above which a prediction is corrected.
		DivergenceEpsilon float64
		// Fallback is the policy used for reports whose tick is no longer held in history: "snap" or
		// "resimulate".
		Fallback string
		// VerifySimulator asserts that the simulator is deterministic when a player is created.
		VerifySimulator bool
	}
	Movement struct {
		Speed      float64
		JumpHeight float64
		Gravity    float64
		Width      float64
		Height     float64
	}
	Network struct {
		// Address is the address the server listens on and the client connects to.
		Address string
		// LossChance is the chance between 0 and 1 that an outgoing message is dropped.
		LossChance float64
		// Delay is the time every outgoing message is held back, such as "100ms".
		Delay string
	}
	Debug struct {
		LogLevel string
		// Modes is a comma separated list of debug modes to enable, such as "ticks,corrections".
		Modes         string
		StatsViewAddr string
		SentryDSN     string
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Simulation.TickRate = game.DefaultTickRate
	s.Simulation.HistoryCapacity = game.DefaultHistoryCapacity
	s.Simulation.DivergenceEpsilon = float64(game.DefaultDivergenceEpsilon)
	s.Simulation.Fallback = player.FallbackSnap.String()

	s.Movement.Speed = float64(game.DefaultMovementSpeed)
	s.Movement.JumpHeight = float64(game.DefaultJumpHeight)
	s.Movement.Gravity = float64(game.DefaultGravity)
	s.Movement.Width = float64(game.DefaultAgentWidth)
	s.Movement.Height = float64(game.DefaultAgentHeight)

	s.Network.Address = "127.0.0.1:8989"
	s.Network.Delay = "0s"

	s.Debug.LogLevel = logrus.InfoLevel.String()
	return s
}

// Load loads the settings from the file at the path passed. If the file does not exist, it is created
// with the default settings, which are returned.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		data, err := toml.Marshal(s)
		if err != nil {
			return Settings{}, oerror.New(game.ErrorSettingsFile, "encode", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return Settings{}, oerror.New(game.ErrorSettingsFile, "create", path, err)
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, oerror.New(game.ErrorSettingsFile, "read", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, oerror.New(game.ErrorSettingsFile, "decode", path, err)
	}
	return s, nil
}

// Opts returns the options of a player configured by the settings.
func (s Settings) Opts() (player.Opts, error) {
	fallback, err := player.ParseFallback(s.Simulation.Fallback)
	if err != nil {
		return player.Opts{}, err
	}
	opts := player.Opts{
		TickRate:          s.Simulation.TickRate,
		HistoryCapacity:   s.Simulation.HistoryCapacity,
		DivergenceEpsilon: float32(s.Simulation.DivergenceEpsilon),
		Fallback:          fallback,
		VerifySimulator:   s.Simulation.VerifySimulator,
	}
	return opts, opts.Validate()
}

// MovementOptions returns the options of the movement simulator configured by the settings.
func (s Settings) MovementOptions() simulation.MovementOptions {
	return simulation.MovementOptions{
		TickRate:   s.Simulation.TickRate,
		Speed:      float32(s.Movement.Speed),
		JumpHeight: float32(s.Movement.JumpHeight),
		Gravity:    float32(s.Movement.Gravity),
		Width:      float32(s.Movement.Width),
		Height:     float32(s.Movement.Height),
	}
}

// Conditions returns the network conditions configured by the settings.
func (s Settings) Conditions() (session.Conditions, error) {
	if c := s.Network.LossChance; c < 0 || c > 1 {
		return session.Conditions{}, oerror.New(game.ErrorLossChance, c)
	}
	var delay time.Duration
	if s.Network.Delay != "" {
		d, err := time.ParseDuration(s.Network.Delay)
		if err != nil {
			return session.Conditions{}, oerror.New(game.ErrorInvalidDelay, s.Network.Delay, err)
		}
		delay = d
	}
	return session.Conditions{LossChance: s.Network.LossChance, Delay: delay}, nil
}

// Logger returns a logger writing at the configured level.
func (s Settings) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(s.Debug.LogLevel)
	if err != nil {
		return nil, oerror.New(game.ErrorInvalidLogLevel, s.Debug.LogLevel, err)
	}
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = level
	return log, nil
}

// DebugModes returns the debug modes enabled by the settings.
func (s Settings) DebugModes() ([]int, error) {
	return player.ParseDebugModes(s.Debug.Modes)
}
