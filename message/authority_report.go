package message

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/rewind/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// AuthorityReport is sent by the authority after processing an input batch. It holds the canonical
// position of the agent after applying the input of Tick.
type AuthorityReport struct {
	Tick     game.Tick
	Position mgl32.Vec3
}

// ID ...
func (*AuthorityReport) ID() uint8 {
	return IDAuthorityReport
}

// Marshal ...
func (pk *AuthorityReport) Marshal(io protocol.IO) {
	marshalTick(io, &pk.Tick)
	io.Vec3(&pk.Position)
}
