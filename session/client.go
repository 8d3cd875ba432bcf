package session

import (
	"context"
	"io"
	"time"

	"github.com/oomph-ac/rewind/message"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/oomph-ac/rewind/player"
	"github.com/oomph-ac/rewind/worker"
	"github.com/sandertv/go-raknet"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Conn is a packet oriented connection: every call to Write sends a single packet, and ReadPacket
// returns a single packet. *raknet.Conn implements it.
type Conn interface {
	io.Writer
	io.Closer
	ReadPacket() ([]byte, error)
}

// Client connects a predicting player to its authority. It writes the input batches of the player to
// the connection and queues the reports read from it on the player.
type Client struct {
	log    *logrus.Logger
	p      *player.Player
	conn   Conn
	out    *Conditioner
	router *message.Router
	remote string

	closed atomic.Bool
}

// Dial connects to the authority listening on the address passed over RakNet.
func Dial(ctx context.Context, log *logrus.Logger, address string, p *player.Player, c Conditions) (*Client, error) {
	conn, err := raknet.DialContext(ctx, address)
	if err != nil {
		return nil, err
	}
	return NewClient(log, conn, address, p, c), nil
}

// NewClient returns a Client for the player passed on an established connection. The outgoing messages
// of the player are written through a Conditioner with the conditions passed.
func NewClient(log *logrus.Logger, conn Conn, remote string, p *player.Player, c Conditions) *Client {
	cl := &Client{
		log:    log,
		p:      p,
		conn:   conn,
		out:    NewConditioner(conn, c),
		remote: remote,
	}
	cl.router = message.NewRouter(map[uint8]message.Handler{
		message.IDAuthorityReport: cl.handleReport,
	})
	p.SetConn(cl.out)
	return cl
}

// Player returns the player of the client.
func (c *Client) Player() *player.Player {
	return c.p
}

// Run ticks the player at its tick rate until the context is cancelled or the connection is closed.
// Reports read from the connection in the meantime are applied between ticks.
func (c *Client) Run(ctx context.Context) error {
	readDone := worker.Go(c.readLoop)

	ticker := time.NewTicker(c.p.Opts().TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			_ = c.Close()
			<-readDone
			return ctx.Err()
		case <-readDone:
			_ = c.Close()
			return oerror.New("connection to %s closed", c.remote)
		case now := <-ticker.C:
			c.update(now.Sub(last))
			last = now
		}
	}
}

// update runs a single frame of the player.
func (c *Client) update(dt time.Duration) {
	defer recoverPanic(c.log, "client", c.remote)
	c.p.Update(dt)
}

// readLoop reads messages from the connection until it is closed.
func (c *Client) readLoop() {
	defer recoverPanic(c.log, "client", c.remote)
	for {
		b, err := c.conn.ReadPacket()
		if err != nil {
			if !c.closed.Load() {
				c.log.Infof("connection to %s lost: %v", c.remote, err)
			}
			return
		}
		if err := c.router.Route(b); err != nil {
			c.log.Debugf("dropping message from %s: %v", c.remote, err)
		}
	}
}

func (c *Client) handleReport(pk message.Message) error {
	c.p.QueueReport(*pk.(*message.AuthorityReport))
	return nil
}

// Close closes the connection of the client.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
