package network

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"pecha/game"
	"pecha/protocol"
	"pecha/replica"
)

// ErrRejected is returned by Dial when the host answers hello with an error.
var ErrRejected = errors.New("rejected by host")

type ClientOptions struct {
	Name   string
	Codec  protocol.Codec
	Tuning game.Tuning
	// MaxElapsed bounds the dial retries; zero keeps the backoff default.
	MaxElapsed time.Duration
}

// Client is a non-authoritative participant connected to a room over a
// websocket. Snapshots are applied to Replica as they arrive.
type Client struct {
	ws      *websocket.Conn
	codec   protocol.Codec
	mu      sync.Mutex // serializes writes
	welcome protocol.Welcome
	replica *replica.Replica
	results chan protocol.Result
	done    chan struct{}
	once    sync.Once
}

// Dial connects to rawURL (ws://host/ws/CODE), retrying with exponential
// backoff until the handshake succeeds, ctx ends or the host rejects the
// participant.
func Dial(ctx context.Context, rawURL string, opts ClientOptions) (*Client, error) {
	if opts.Codec == nil {
		opts.Codec = protocol.JSON
	}
	if opts.Tuning.Width == 0 {
		opts.Tuning = game.DefaultTuning()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse url")
	}
	q := u.Query()
	q.Set("codec", opts.Codec.Name())
	u.RawQuery = q.Encode()

	var c *Client
	op := func() error {
		var err error
		c, err = handshake(ctx, u.String(), opts)
		if err != nil && errors.Cause(err) == ErrRejected {
			return backoff.Permanent(err)
		}
		if err != nil {
			log.Printf("dial %s: %v", u.Host, err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	if opts.MaxElapsed > 0 {
		b.MaxElapsedTime = opts.MaxElapsed
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	go c.readLoop()
	return c, nil
}

func handshake(ctx context.Context, rawURL string, opts ClientOptions) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, http.Header{})
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	c := &Client{
		ws:      ws,
		codec:   opts.Codec,
		results: make(chan protocol.Result, 1),
		done:    make(chan struct{}),
	}
	if err := c.send(protocol.MsgHello, protocol.Hello{V: protocol.Version, Name: opts.Name}); err != nil {
		_ = ws.Close()
		return nil, err
	}

	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		_ = ws.Close()
		return nil, errors.Wrap(err, "read welcome")
	}
	env, err := protocol.DecodeEnvelopeWith(c.codec, msg)
	if err != nil {
		_ = ws.Close()
		return nil, errors.Wrap(err, "decode welcome")
	}
	switch env.T {
	case protocol.MsgWelcome:
		w, err := protocol.DecodePayloadWith[protocol.Welcome](c.codec, env)
		if err != nil {
			_ = ws.Close()
			return nil, errors.Wrap(err, "decode welcome")
		}
		c.welcome = w
	case protocol.MsgError:
		e, _ := protocol.DecodePayloadWith[protocol.Error](c.codec, env)
		_ = ws.Close()
		return nil, errors.Wrapf(ErrRejected, "%s: %s", e.Code, e.Message)
	default:
		_ = ws.Close()
		return nil, errors.Errorf("expected welcome, got %q", env.T)
	}
	_ = ws.SetReadDeadline(time.Time{})

	c.replica = replica.New(c.welcome.PlayerID, opts.Tuning)
	return c, nil
}

func (c *Client) PlayerID() string {
	return c.welcome.PlayerID
}

func (c *Client) Welcome() protocol.Welcome {
	return c.welcome
}

func (c *Client) Replica() *replica.Replica {
	return c.replica
}

// Results delivers the match result once the host announces it.
func (c *Client) Results() <-chan protocol.Result {
	return c.results
}

// Done is closed when the connection to the host is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Steer applies the stick locally and forwards the new target.
func (c *Client) Steer(stick game.Stick) error {
	in, ok := c.replica.Steer(stick)
	if !ok {
		return nil
	}
	return c.send(protocol.MsgInput, in)
}

// Attack fires locally and asks the host to do the same.
func (c *Client) Attack(now time.Time) error {
	in, ok := c.replica.Attack(now)
	if !ok {
		return nil
	}
	return c.send(protocol.MsgInput, in)
}

// Close best-effort notifies the host and closes the socket.
func (c *Client) Close() error {
	_ = c.send(protocol.MsgLeave, protocol.Leave{PlayerID: c.PlayerID()})
	c.finish()
	c.mu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.mu.Unlock()
	return c.ws.Close()
}

func (c *Client) send(t string, payload any) error {
	b, err := protocol.EncodeWith(c.codec, t, payload)
	if err != nil {
		return errors.Wrapf(err, "encode %s", t)
	}
	frame := websocket.TextMessage
	if c.codec.Binary() {
		frame = websocket.BinaryMessage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return errors.Wrapf(c.ws.WriteMessage(frame, b), "write %s", t)
}

func (c *Client) readLoop() {
	defer c.finish()
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Printf("client %s: host lost: %v", c.PlayerID(), err)
				c.replica.HostLost()
			}
			return
		}
		env, err := protocol.DecodeEnvelopeWith(c.codec, msg)
		if err != nil {
			continue
		}
		switch env.T {
		case protocol.MsgState:
			st, err := protocol.DecodePayloadWith[protocol.State](c.codec, env)
			if err != nil {
				continue
			}
			c.replica.Apply(st)
		case protocol.MsgResult:
			res, err := protocol.DecodePayloadWith[protocol.Result](c.codec, env)
			if err != nil {
				continue
			}
			select {
			case c.results <- res:
			default:
			}
		}
	}
}

func (c *Client) finish() {
	c.once.Do(func() { close(c.done) })
}
