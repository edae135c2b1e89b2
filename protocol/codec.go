package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec frames envelopes on the wire. JSON travels as websocket text frames,
// msgpack as binary frames.
type Codec interface {
	Name() string
	Binary() bool
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                    { return "json" }
func (jsonCodec) Binary() bool                    { return false }
func (jsonCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (jsonCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                    { return "msgpack" }
func (msgpackCodec) Binary() bool                    { return true }
func (msgpackCodec) Marshal(v any) ([]byte, error)   { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(b []byte, v any) error { return msgpack.Unmarshal(b, v) }

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// CodecByName resolves a codec from a query parameter; empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

func EncodeWith(c Codec, t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope type nil")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload")
	}
	pb, err := c.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var e = Envelope{t, pb}

	return c.Marshal(e)
}

func DecodeEnvelopeWith(c Codec, b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("Error trying to decode Envelope with byte size 0")
	}
	var e Envelope
	if err := c.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("envelope without type")
	}
	return e, nil
}

func DecodePayloadWith[T any](c Codec, env Envelope) (T, error) {
	// Creates zero value of whatever type T is. say T is Input then out is Input{}
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := c.Unmarshal(env.P, &out)
	return out, err
}

func Encode(t string, payload any) ([]byte, error) {
	return EncodeWith(JSON, t, payload)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	return DecodeEnvelopeWith(JSON, b)
}

func DecodePayload[T any](env Envelope) (T, error) {
	return DecodePayloadWith[T](JSON, env)
}
