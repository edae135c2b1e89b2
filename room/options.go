package room

import (
	"time"

	"github.com/pkg/errors"

	"pecha/game"
	"pecha/protocol"
)

type Mode string

const (
	ModeVersus   Mode = "versus"
	ModePractice Mode = "practice"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeVersus:
		return ModeVersus, nil
	case ModePractice:
		return ModePractice, nil
	}
	return "", errors.Errorf("unknown mode %q", s)
}

var (
	ErrRoomFull     = errors.New("room full")
	ErrRoomNotFound = errors.New("room not found")
)

type Options struct {
	Mode        Mode
	TickHz      int
	BroadcastHz int
	// MaxPlayers caps human participants; practice rooms always hold one.
	MaxPlayers int
	Bots       int
	Tuning     game.Tuning
	// Seed feeds wind gusts and bot reflexes; 0 picks a time based seed.
	Seed  int64
	Clock func() time.Time
	// EmptyGrace is how long a room may sit without participants before it
	// asks its manager to reclaim it.
	EmptyGrace time.Duration
}

func DefaultOptions() Options {
	return Options{
		Mode:        ModeVersus,
		TickHz:      protocol.SimTickHz,
		BroadcastHz: protocol.BroadcastHz,
		MaxPlayers:  4,
		Bots:        4,
		Tuning:      game.DefaultTuning(),
		Clock:       time.Now,
		EmptyGrace:  30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	if o.TickHz <= 0 {
		o.TickHz = d.TickHz
	}
	if o.BroadcastHz <= 0 {
		o.BroadcastHz = d.BroadcastHz
	}
	if o.BroadcastHz > o.TickHz {
		o.BroadcastHz = o.TickHz
	}
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = d.MaxPlayers
	}
	if o.Mode == ModePractice {
		o.MaxPlayers = 1
	}
	if o.Tuning.Width == 0 {
		o.Tuning = d.Tuning
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.EmptyGrace <= 0 {
		o.EmptyGrace = d.EmptyGrace
	}
	return o
}
