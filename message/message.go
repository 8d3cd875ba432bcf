package message

import (
	"bytes"
	"fmt"

	"github.com/oomph-ac/rewind/game"
	"github.com/oomph-ac/rewind/internal"
	"github.com/oomph-ac/rewind/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	_ = iota
	IDInputBatch
	IDAuthorityReport
)

var (
	// ErrMalformed is wrapped by errors returned when a message could not be decoded.
	ErrMalformed = oerror.New("malformed message")
	// ErrMalformedBatch is wrapped by errors returned when an input batch could not be decoded, or when
	// its inputs do not cover a contiguous span of ticks. Such batches must be dropped whole.
	ErrMalformedBatch = oerror.New("malformed input batch")
)

// Message is a message exchanged between a predicting client and its authority. Marshal both encodes
// and decodes the message, depending on the protocol.IO passed.
type Message interface {
	ID() uint8
	Marshal(io protocol.IO)
}

var pool = map[uint8]func() Message{
	IDInputBatch:      func() Message { return &InputBatch{} },
	IDAuthorityReport: func() Message { return &AuthorityReport{} },
}

// Encode encodes the message into a new byte slice prefixed with its ID.
func Encode(pk Message) ([]byte, error) {
	if batch, ok := pk.(*InputBatch); ok && len(batch.Inputs) > game.MaxBatchInputs {
		return nil, fmt.Errorf("%w: %d inputs exceeds the limit of %d", ErrMalformedBatch, len(batch.Inputs), game.MaxBatchInputs)
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	buf.WriteByte(pk.ID())
	pk.Marshal(protocol.NewWriter(buf, 0))
	return bytes.Clone(buf.Bytes()), nil
}

// Decode decodes a message previously produced by Encode. The whole payload must be consumed by the
// message, and input batches must be valid, or an error wrapping ErrMalformed or ErrMalformedBatch is
// returned.
func Decode(b []byte) (pk Message, err error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	id := b[0]
	newMessage, ok := pool[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown message id %d", ErrMalformed, id)
	}
	malformed := ErrMalformed
	if id == IDInputBatch {
		malformed = ErrMalformedBatch
	}

	buf := bytes.NewBuffer(b[1:])
	defer func() {
		// The protocol reader panics when the payload ends early.
		if v := recover(); v != nil {
			pk, err = nil, fmt.Errorf("%w: %v", malformed, v)
		}
	}()

	pk = newMessage()
	pk.Marshal(protocol.NewReader(buf, 0, false))
	if buf.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", malformed, buf.Len())
	}
	if batch, ok := pk.(*InputBatch); ok {
		if err := batch.Validate(); err != nil {
			return nil, err
		}
	}
	return pk, nil
}
