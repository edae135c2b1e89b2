// Package lobby is the polling transport: rooms live as JSON files in a
// directory, participants push their own kite and read everybody else's.
// There is no host; the most recent write for a player wins.
package lobby

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pecha/game"
	"pecha/protocol"
	"pecha/room"
)

const (
	DefaultCapacity   = 4
	DefaultStaleAfter = 20 * time.Second
	StatusLobby       = "Lobby"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
	ErrInvalidInput = errors.New("invalid request")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)

type Player struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	JoinedAt int64                  `json:"joined_at"`
	LastSeen int64                  `json:"last_seen"`
	Kite     *protocol.KiteSnapshot `json:"kite,omitempty"`
}

type Room struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	CreatedAt  int64             `json:"created_at"`
	LastUpdate int64             `json:"last_update,omitempty"`
	Players    map[string]Player `json:"players"`
}

// Kites returns the last pushed kite of every player, ordered by id.
func (r Room) Kites() []game.Kite {
	kites := make([]game.Kite, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Kite != nil {
			kites = append(kites, p.Kite.Kite())
		}
	}
	sort.Slice(kites, func(i, j int) bool { return kites[i].ID < kites[j].ID })
	return kites
}

type Store struct {
	mu         sync.Mutex
	dir        string
	capacity   int
	staleAfter time.Duration
	now        func() time.Time
}

type Option func(*Store)

func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

func WithStaleAfter(d time.Duration) Option {
	return func(s *Store) { s.staleAfter = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore keeps its rooms in dir, creating it when missing.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create rooms dir %s", dir)
	}
	s := &Store{
		dir:        dir,
		capacity:   DefaultCapacity,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Create() (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		code := room.GenerateCode(6)
		if _, err := os.Stat(s.path(code)); err == nil {
			continue
		}
		r := Room{
			ID:        code,
			Status:    StatusLobby,
			CreatedAt: s.now().Unix(),
			Players:   map[string]Player{},
		}
		return r, s.write(r)
	}
}

func (s *Store) Get(code string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(code)
}

// Join adds a named player and returns its generated id.
func (s *Store) Join(code, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(code)
	if err != nil {
		return "", err
	}
	if len(r.Players) >= s.capacity {
		return "", ErrRoomFull
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	if len([]rune(name)) > protocol.MaxNameLen {
		name = string([]rune(name)[:protocol.MaxNameLen])
	}
	now := s.now().Unix()
	id := uuid.NewString()
	r.Players[id] = Player{ID: id, Name: name, JoinedAt: now, LastSeen: now}
	return id, s.write(r)
}

// Update stores the caller's kite, stamps its last seen time and drops
// every player that has been silent for longer than the staleness window.
// A nil kite only runs the cleanup.
func (s *Store) Update(code string, kite *protocol.KiteSnapshot) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(code)
	if err != nil {
		return Room{}, err
	}
	now := s.now()
	if kite != nil {
		if kite.ID == "" {
			return Room{}, errors.Wrap(ErrInvalidInput, "kite without id")
		}
		p, ok := r.Players[kite.ID]
		if !ok && len(r.Players) >= s.capacity {
			return Room{}, ErrRoomFull
		}
		if !ok {
			p = Player{ID: kite.ID, Name: kite.Name, JoinedAt: now.Unix()}
		}
		k := *kite
		if k.Name == "" {
			k.Name = p.Name
		}
		p.Kite = &k
		p.LastSeen = now.Unix()
		r.Players[kite.ID] = p
		r.LastUpdate = now.Unix()
	}

	for id, p := range r.Players {
		if now.Sub(time.Unix(p.LastSeen, 0)) > s.staleAfter {
			delete(r.Players, id)
		}
	}
	return r, s.write(r)
}

// Leave removes a player; the room file goes with its last player. Unknown
// rooms and players are ignored.
func (s *Store) Leave(code, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(code)
	if errors.Cause(err) == ErrRoomNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := r.Players[playerID]; !ok {
		return nil
	}
	delete(r.Players, playerID)
	if len(r.Players) == 0 {
		if err := os.Remove(s.path(code)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "remove room %s", code)
		}
		return nil
	}
	return s.write(r)
}

func (s *Store) path(code string) string {
	return filepath.Join(s.dir, code+".json")
}

func (s *Store) read(code string) (Room, error) {
	if !codePattern.MatchString(code) {
		return Room{}, errors.Wrapf(ErrInvalidInput, "room code %q", code)
	}
	b, err := os.ReadFile(s.path(code))
	if os.IsNotExist(err) {
		return Room{}, ErrRoomNotFound
	}
	if err != nil {
		return Room{}, errors.Wrapf(err, "read room %s", code)
	}
	var r Room
	if err := json.Unmarshal(b, &r); err != nil {
		return Room{}, errors.Wrapf(err, "decode room %s", code)
	}
	if r.Players == nil {
		r.Players = map[string]Player{}
	}
	return r, nil
}

// write replaces the room file atomically through a temp file in the same
// directory.
func (s *Store) write(r Room) error {
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "encode room %s", r.ID)
	}
	tmp, err := os.CreateTemp(s.dir, r.ID+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write room %s", r.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close room %s", r.ID)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path(r.ID)), "commit room %s", r.ID)
}
