package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"pecha/protocol"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	maxFrameSize = 1 << 20 // 1MB
	sendQueueLen = 64
)

var (
	errConnClosed   = errors.New("connection closed")
	errSlowConsumer = errors.New("send queue full")
)

// wsConn adapts a websocket to room.Conn. Sends are queued and written by
// writePump so the room goroutine never blocks on a slow socket.
type wsConn struct {
	ws    *websocket.Conn
	codec protocol.Codec
	send  chan []byte
	done  chan struct{}
	once  sync.Once
}

func newWSConn(ws *websocket.Conn, codec protocol.Codec) *wsConn {
	return &wsConn{
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, sendQueueLen),
		done:  make(chan struct{}),
	}
}

func (c *wsConn) Codec() protocol.Codec {
	return c.codec
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		return errSlowConsumer
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *wsConn) sendEnvelope(t string, payload any) error {
	b, err := protocol.EncodeWith(c.codec, t, payload)
	if err != nil {
		return errors.Wrapf(err, "encode %s", t)
	}
	return c.Send(b)
}

func (c *wsConn) frameType() int {
	if c.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// writePump owns every write on the socket, including pings. It flushes what
// is already queued once the connection is closed.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case b := <-c.send:
			if err := c.write(b); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			for {
				select {
				case b := <-c.send:
					if c.write(b) != nil {
						return
					}
				default:
					_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.ws.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

func (c *wsConn) write(b []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(c.frameType(), b)
}
