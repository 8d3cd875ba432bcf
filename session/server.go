package session

import (
	"context"
	"net"
	"sync"

	"github.com/oomph-ac/rewind/authority"
	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/oomph-ac/rewind/simulation"
	"github.com/oomph-ac/rewind/worker"
	"github.com/sandertv/go-raknet"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Listener accepts connections. *raknet.Listener implements it.
type Listener interface {
	Accept() (net.Conn, error)
	Addr() net.Addr
	Close() error
}

// Server accepts predicting clients and runs an authority for every one of them. Every input batch a
// client sends is answered with a report of the canonical position after it.
type Server struct {
	log   *logrus.Logger
	l     Listener
	sim   simulation.Simulator
	spawn game.State
	c     Conditions

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Listen starts listening for RakNet connections on the address passed. The simulator passed is shared
// by every connection and must therefore be safe for concurrent use, which any deterministic simulator
// without state is.
func Listen(log *logrus.Logger, address string, sim simulation.Simulator, spawn game.State, c Conditions) (*Server, error) {
	l, err := raknet.Listen(address)
	if err != nil {
		return nil, err
	}
	return NewServer(log, l, sim, spawn, c), nil
}

// NewServer returns a Server accepting connections from the listener passed. Reports are written through
// a Conditioner with the conditions passed.
func NewServer(log *logrus.Logger, l Listener, sim simulation.Simulator, spawn game.State, c Conditions) *Server {
	return &Server{log: log, l: l, sim: sim, spawn: spawn, c: c}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

// Serve accepts connections until the context is cancelled or the server is closed. It waits for every
// connection to be closed before returning.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()
	defer s.wg.Wait()

	for {
		conn, err := s.l.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return err
		}

		pc, ok := conn.(Conn)
		if !ok {
			s.log.Errorf("connection %s does not read packets", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		s.wg.Add(1)
		worker.Go(func() {
			defer s.wg.Done()
			s.handleConn(ctx, pc, conn.RemoteAddr().String())
		})
	}
}

// handleConn runs the authority of a single connection until it is closed.
func (s *Server) handleConn(ctx context.Context, conn Conn, remote string) {
	defer conn.Close()
	defer recoverPanic(s.log, "server", remote)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	a := authority.New(s.log, s.sim, s.spawn)
	out := NewConditioner(conn, s.c)
	router := message.NewRouter(map[uint8]message.Handler{
		message.IDInputBatch: func(pk message.Message) error {
			report, err := a.HandleBatch(pk.(*message.InputBatch))
			if err != nil {
				return err
			}
			b, err := message.Encode(&report)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	})

	s.log.Infof("%s connected", remote)
	for {
		b, err := conn.ReadPacket()
		if err != nil {
			s.log.Infof("%s disconnected at tick %d: %v", remote, a.Watermark(), err)
			return
		}
		if err := router.Route(b); err != nil {
			s.log.Debugf("dropping message from %s: %v", remote, err)
		}
	}
}

// Close stops accepting connections and closes the listener.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return oerror.New("server already closed")
	}
	return s.l.Close()
}
