package room

import "pecha/protocol"

type Conn interface {
	Send([]byte) error
	Close() error
}

// CodecConn is implemented by connections that speak something other than
// JSON; the room encodes each broadcast once per codec.
type CodecConn interface {
	Conn
	Codec() protocol.Codec
}

// Join: issued once after hello parsed
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
	Err      error
}

// Input: latest input delta for a player
type Input struct {
	PlayerID string
	Input    protocol.Input
}

// Leave: issued on disconnect
type Leave struct {
	PlayerID string
}
