package network

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"pecha/protocol"
	"pecha/room"
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// helloWait bounds how long a fresh connection may stay silent.
const helloWait = 10 * time.Second

// Server turns websocket connections into room participants.
type Server struct {
	Rooms *room.Manager
}

func NewServer(rooms *room.Manager) *Server {
	return &Server{Rooms: rooms}
}

// ServeWS handles GET /ws/{code}?name=&codec=&mode=.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	q := r.URL.Query()

	codec, err := protocol.CodecByName(q.Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := room.ParseMode(q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Upgrade HTTP -> WebSocket
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	conn := newWSConn(ws, codec)
	go conn.writePump()
	defer conn.Close()

	hello, err := readHello(ws, codec)
	if err != nil {
		log.Printf("ws %s: %v", code, err)
		_ = conn.sendEnvelope(protocol.MsgError, protocol.Error{Code: protocol.ErrCodeBadHello, Message: err.Error()})
		return
	}
	name := hello.Name
	if name == "" {
		name = q.Get("name")
	}
	if len([]rune(name)) > protocol.MaxNameLen {
		name = string([]rune(name)[:protocol.MaxNameLen])
	}

	rm := s.Rooms.GetOrCreateRoom(code, mode)
	if rm == nil {
		_ = conn.sendEnvelope(protocol.MsgError, protocol.Error{Code: protocol.ErrCodeRoomNotFound, Message: "missing room code"})
		return
	}
	playerID, err := join(rm, conn, name)
	if err != nil {
		errCode := protocol.ErrCodeRoomNotFound
		if errors.Cause(err) == room.ErrRoomFull {
			errCode = protocol.ErrCodeRoomFull
		}
		_ = conn.sendEnvelope(protocol.MsgError, protocol.Error{Code: errCode, Message: err.Error()})
		return
	}
	defer rm.Post(room.Leave{PlayerID: playerID})

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	s.readLoop(ws, conn, rm, playerID)
}

func join(rm *room.Room, conn *wsConn, name string) (string, error) {
	reply := make(chan room.JoinResult, 1)
	if !rm.Post(room.Join{Conn: conn, Name: name, Reply: reply}) {
		return "", room.ErrRoomNotFound
	}
	select {
	case res := <-reply:
		if res.Err != nil {
			return "", errors.Wrapf(res.Err, "join room %s", rm.Code)
		}
		return res.PlayerID, nil
	case <-rm.Done():
		return "", room.ErrRoomNotFound
	}
}

func readHello(ws *websocket.Conn, codec protocol.Codec) (protocol.Hello, error) {
	_, msg, err := ws.ReadMessage()
	if err != nil {
		return protocol.Hello{}, errors.Wrap(err, "read hello")
	}
	env, err := protocol.DecodeEnvelopeWith(codec, msg)
	if err != nil {
		return protocol.Hello{}, errors.Wrap(err, "decode hello")
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, errors.Errorf("expected %q, got %q", protocol.MsgHello, env.T)
	}
	hello, err := protocol.DecodePayloadWith[protocol.Hello](codec, env)
	if err != nil {
		return protocol.Hello{}, errors.Wrap(err, "decode hello")
	}
	if err := hello.Validate(); err != nil {
		return protocol.Hello{}, err
	}
	return hello, nil
}

// readLoop forwards validated inputs until the participant leaves or the
// socket fails. Malformed messages are logged and dropped.
func (s *Server) readLoop(ws *websocket.Conn, conn *wsConn, rm *room.Room, playerID string) {
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws %s/%s read: %v", rm.Code, playerID, err)
			}
			return
		}
		env, err := protocol.DecodeEnvelopeWith(conn.codec, msg)
		if err != nil {
			log.Printf("ws %s/%s: dropping message: %v", rm.Code, playerID, err)
			continue
		}
		switch env.T {
		case protocol.MsgInput:
			in, err := protocol.DecodePayloadWith[protocol.Input](conn.codec, env)
			if err == nil {
				err = in.Validate()
			}
			if err != nil {
				log.Printf("ws %s/%s: dropping input: %v", rm.Code, playerID, err)
				continue
			}
			if !rm.Post(room.Input{PlayerID: playerID, Input: in}) {
				return
			}
		case protocol.MsgLeave:
			return
		default:
			log.Printf("ws %s/%s: unexpected message %q", rm.Code, playerID, env.T)
		}
	}
}
