package protocol

import (
	"encoding/json"
)

const (
	MsgHello   = "hello"
	MsgInput   = "input"
	MsgLeave   = "leave"
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgResult  = "result"
	MsgError   = "error"
)

const (
	SimTickHz     = 60
	ClientInputHz = 30
	BroadcastHz   = 30
)

type Envelope struct {
	T string          `json:"t" msgpack:"t"`
	P json.RawMessage `json:"p" msgpack:"p"` // raw payload bytes
}
