package lobby

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"pecha/protocol"
)

// maxUpdateBody bounds a single update request.
const maxUpdateBody = 64 << 10

type API struct {
	Store *Store
}

type updateRequest struct {
	Player *protocol.KiteSnapshot `json:"player"`
}

// Register mounts the polling endpoints under /api on router.
func (a *API) Register(router *mux.Router, logger io.Writer) {
	routes := []struct {
		path    string
		method  string
		handler http.HandlerFunc
	}{
		{"/api/rooms", "POST", a.create},
		{"/api/rooms/{code}", "GET", a.get},
		{"/api/rooms/{code}/join", "POST", a.join},
		{"/api/rooms/{code}/update", "POST", a.update},
		{"/api/rooms/{code}/leave", "POST", a.leave},
	}
	for _, rt := range routes {
		router.Handle(rt.path, handlers.CombinedLoggingHandler(logger, rt.handler)).Methods(rt.method)
	}
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	room, err := a.Store.Create()
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "room_id": room.ID})
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	room, err := a.Store.Get(code(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "room": room})
}

func (a *API) join(w http.ResponseWriter, r *http.Request) {
	id, err := a.Store.Join(code(r), r.URL.Query().Get("name"))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "player_id": id})
}

func (a *API) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateBody)).Decode(&req); err != nil {
		fail(w, errors.Wrap(ErrInvalidInput, err.Error()))
		return
	}
	room, err := a.Store.Update(code(r), req.Player)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "room": room})
}

func (a *API) leave(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Leave(code(r), r.URL.Query().Get("player_id")); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true})
}

func code(r *http.Request) string {
	return strings.ToUpper(mux.Vars(r)["code"])
}

func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal error."
	switch errors.Cause(err) {
	case ErrRoomNotFound:
		status, message = http.StatusNotFound, "Room not found."
	case ErrRoomFull:
		status, message = http.StatusConflict, "Room full."
	case ErrInvalidInput:
		status, message = http.StatusBadRequest, "Invalid request."
	default:
		log.Println("lobby:", err)
	}
	respond(w, status, map[string]any{"success": false, "message": message})
}

func respond(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
