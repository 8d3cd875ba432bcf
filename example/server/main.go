package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/session"
	"github.com/oomph-ac/rewind/settings"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/sirupsen/logrus"
)

// The following program runs an authority for every client connecting to it. The world of the server
// holds a pillar the clients do not know about, so walking into it makes them correct their prediction.
func main() {
	path := flag.String("config", "server.toml", "path to the settings file")
	flag.Parse()

	s, err := settings.Load(*path)
	if err != nil {
		logrus.Fatalf("unable to load settings: %v", err)
	}
	log, err := s.Logger()
	if err != nil {
		logrus.Fatalf("unable to create logger: %v", err)
	}
	conditions, err := s.Conditions()
	if err != nil {
		log.Fatalf("invalid network settings: %v", err)
	}

	if dsn := s.Debug.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, ServerName: "rewind-server"}); err != nil {
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

	sim := simulation.NewMovementSimulator(s.MovementOptions(), simulation.GroundPlane(), cube.Box(3, 0, -0.5, 4, 3, 0.5))
	srv, err := session.Listen(log, s.Network.Address, sim, game.State{OnGround: true}, conditions)
	if err != nil {
		log.Fatalf("unable to listen on %s: %v", s.Network.Address, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("listening on %s", srv.Addr())
	if err := srv.Serve(ctx); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
