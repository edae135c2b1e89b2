package room

import (
	"crypto/rand"
	"math/big"
	"sort"
	"sync"
)

// RoomInfo is returned by the API for the server list.
type RoomInfo struct {
	Code     string `json:"code"`
	Mode     Mode   `json:"mode"`
	Players  int    `json:"players"`
	Capacity int    `json:"capacity"`
}

// Manager holds multiple rooms by code. Rooms are created on first join or via CreateRoom,
// and removed when the last player leaves.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	opts  Options
}

// NewManager creates rooms from opts; Mode is overridden per room.
func NewManager(opts Options) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		opts:  opts,
	}
}

// GetOrCreateRoom returns the room for the given code, creating it in mode
// if needed. An existing room keeps the mode it was created with.
func (m *Manager) GetOrCreateRoom(code string, mode Mode) *Room {
	if code == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r
	}
	return m.startLocked(code, mode)
}

// Get returns an existing room without creating one.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// CreateRoom generates a unique 6-char code, creates the room, and returns the code.
func (m *Manager) CreateRoom(mode Mode) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := GenerateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.startLocked(code, mode)
		return code
	}
}

func (m *Manager) startLocked(code string, mode Mode) *Room {
	opts := m.opts
	opts.Mode = mode
	r := New(opts)
	r.Code = code
	r.OnEmpty = func(string) {
		go m.removeRoom(r)
	}
	m.rooms[code] = r
	go r.Run()
	return r
}

// removeRoom drops r unless someone joined it again between the last leave
// and now.
func (m *Manager) removeRoom(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.Code] != r || r.NumPlayers() > 0 {
		return
	}
	r.Stop()
	delete(m.rooms, r.Code)
}

// ListRooms returns all active rooms sorted by code.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Mode: r.Mode(), Players: r.NumPlayers(), Capacity: r.Capacity()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Close stops every room.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns n characters drawn from an alphabet without the
// easily confused 0/O and 1/I.
func GenerateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
