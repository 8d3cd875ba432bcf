package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/player"
	"github.com/oomph-ac/rewind/player/component"
	"github.com/oomph-ac/rewind/session"
	"github.com/oomph-ac/rewind/settings"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sirupsen/logrus"
)

// The following program connects a predicting player to the server and walks it along a square, jumping
// every now and then, while logging how often its prediction had to be corrected.
func main() {
	path := flag.String("config", "client.toml", "path to the settings file")
	flag.Parse()

	s, err := settings.Load(*path)
	if err != nil {
		logrus.Fatalf("unable to load settings: %v", err)
	}
	log, err := s.Logger()
	if err != nil {
		logrus.Fatalf("unable to create logger: %v", err)
	}
	opts, err := s.Opts()
	if err != nil {
		log.Fatalf("invalid simulation settings: %v", err)
	}
	conditions, err := s.Conditions()
	if err != nil {
		log.Fatalf("invalid network settings: %v", err)
	}
	modes, err := s.DebugModes()
	if err != nil {
		log.Fatalf("invalid debug settings: %v", err)
	}

	if dsn := s.Debug.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, ServerName: "rewind-client"}); err != nil {
			log.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
	}
	if addr := s.Debug.StatsViewAddr; addr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	sim := simulation.NewMovementSimulator(s.MovementOptions(), simulation.GroundPlane())
	p, err := player.New(log, opts, sim, game.State{OnGround: true})
	if err != nil {
		log.Fatalf("unable to create player: %v", err)
	}
	component.Register(p)
	p.Dbg.Enable(modes...)
	p.SetInputSource(player.InputSourceFunc(walkSquare(opts.TickRate)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := session.Dial(ctx, log, s.Network.Address, p, conditions)
	if err != nil {
		log.Fatalf("unable to connect to %s: %v", s.Network.Address, err)
	}
	go logStats(ctx, p)

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("client stopped: %v", err)
	}
}

// walkSquare returns an input source walking along a square, each side taking two seconds, and jumping
// every three seconds.
func walkSquare(tickRate int) func(tick game.Tick) game.Input {
	side := 2 * tickRate
	var elapsed int
	return func(tick game.Tick) game.Input {
		in := game.Input{Jump: elapsed%(3*tickRate) == 0}
		switch (elapsed / side) % 4 {
		case 0:
			in.Horizontal = 1
		case 1:
			in.Vertical = 1
		case 2:
			in.Horizontal = -1
		case 3:
			in.Vertical = -1
		}
		elapsed++
		return in
	}
}

// logStats logs the statistics of the player every five seconds.
func logStats(ctx context.Context, p *player.Player) {
	t := time.NewTicker(time.Second * 5)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s := p.Stats().Snapshot()
			p.Log().Infof(
				"ticks=%d confirmed=%d corrected=%d snapped=%d stale=%d replayed=%d skipped=%d dropped=%d max_divergence=%.4f",
				s.Ticks, s.Confirmations, s.Corrections, s.Snaps, s.Stale, s.ReplayedTicks, s.SkippedTicks, s.SendsDropped, s.MaxDivergence,
			)
		}
	}
}
