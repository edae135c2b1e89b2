package network

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"pecha/room"
)

// NewRouter wires the websocket endpoint, the room list and the health
// check. Every route is wrapped in a combined access log written to logger.
func NewRouter(s *Server, health *HealthCheck, logger io.Writer) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/ws/{code:[a-zA-Z0-9]{1,16}}", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(s.ServeWS),
	)).Methods("GET")

	router.Handle("/rooms", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(s.listRooms),
	)).Methods("GET")

	router.Handle("/rooms", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(s.createRoom),
	)).Methods("POST")

	if health != nil {
		router.Handle("/health", http.HandlerFunc(health.ServeHTTP)).Methods("GET")
	}

	return router
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Rooms.ListRooms())
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	mode, err := room.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	code := s.Rooms.CreateRoom(mode)
	log.Printf("created %s room %s", mode, code)
	writeJSON(w, http.StatusCreated, map[string]string{"code": code, "mode": string(mode)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
