package message

import (
	"maps"

	"github.com/oomph-ac/rewind/oerror"
)

// Handler handles a decoded message.
type Handler func(pk Message) error

// Router decodes incoming payloads and dispatches them through a fixed routing table of message ID to
// handler.
type Router struct {
	routes map[uint8]Handler
}

// NewRouter returns a Router dispatching messages with the routes passed. The map is copied, so the
// routing table cannot change once created.
func NewRouter(routes map[uint8]Handler) *Router {
	return &Router{routes: maps.Clone(routes)}
}

// Route decodes the payload and passes the message to the handler registered for its ID.
func (r *Router) Route(b []byte) error {
	pk, err := Decode(b)
	if err != nil {
		return err
	}
	h, ok := r.routes[pk.ID()]
	if !ok {
		return oerror.New("no route for message %d (%T)", pk.ID(), pk)
	}
	return h(pk)
}
