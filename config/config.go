package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"pecha/game"
)

func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the process environment")
		return
	}

	log.Println("Successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil

}

// Settings is read once at startup and passed down by value.
type Settings struct {
	Addr         string
	TickHz       int
	BroadcastHz  int
	MaxPlayers   int
	RoomsDir     string
	StaleAfter   time.Duration
	FieldWidth   float64
	FieldHeight  float64
	PracticeBots int
	Seed         int64
}

func Defaults() Settings {
	return Settings{
		Addr:         ":8080",
		TickHz:       60,
		BroadcastHz:  30,
		MaxPlayers:   4,
		RoomsDir:     "./rooms",
		StaleAfter:   20 * time.Second,
		FieldWidth:   game.FieldWidth,
		FieldHeight:  game.FieldHeight,
		PracticeBots: 4,
		Seed:         0,
	}
}

// Load reads PECHA_* variables over the defaults. Unset variables keep their
// default; malformed ones are an error.
func Load() (Settings, error) {
	s := Defaults()
	var err error

	if v, ok := lookup("PECHA_ADDR"); ok {
		s.Addr = v
	}
	if v, ok := lookup("PECHA_ROOMS_DIR"); ok {
		s.RoomsDir = v
	}
	if s.TickHz, err = intVar("PECHA_TICK_HZ", s.TickHz); err != nil {
		return s, err
	}
	if s.BroadcastHz, err = intVar("PECHA_BROADCAST_HZ", s.BroadcastHz); err != nil {
		return s, err
	}
	if s.MaxPlayers, err = intVar("PECHA_MAX_PLAYERS", s.MaxPlayers); err != nil {
		return s, err
	}
	if s.PracticeBots, err = intVar("PECHA_PRACTICE_BOTS", s.PracticeBots); err != nil {
		return s, err
	}
	if v, ok := lookup("PECHA_STALE_AFTER"); ok {
		if s.StaleAfter, err = time.ParseDuration(v); err != nil {
			return s, errors.Wrap(err, "PECHA_STALE_AFTER")
		}
	}
	if s.FieldWidth, err = floatVar("PECHA_FIELD_WIDTH", s.FieldWidth); err != nil {
		return s, err
	}
	if s.FieldHeight, err = floatVar("PECHA_FIELD_HEIGHT", s.FieldHeight); err != nil {
		return s, err
	}
	if v, ok := lookup("PECHA_SEED"); ok {
		if s.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, errors.Wrap(err, "PECHA_SEED")
		}
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch {
	case s.TickHz <= 0:
		return errors.Errorf("tick rate must be positive, got %d", s.TickHz)
	case s.BroadcastHz <= 0 || s.BroadcastHz > s.TickHz:
		return errors.Errorf("broadcast rate must be in 1..%d, got %d", s.TickHz, s.BroadcastHz)
	case s.MaxPlayers <= 0:
		return errors.Errorf("max players must be positive, got %d", s.MaxPlayers)
	case s.FieldWidth <= 0 || s.FieldHeight <= 0:
		return errors.Errorf("field must have a positive size, got %vx%v", s.FieldWidth, s.FieldHeight)
	case s.PracticeBots < 0:
		return errors.Errorf("practice bots cannot be negative, got %d", s.PracticeBots)
	}
	return nil
}

// Tuning builds the simulation constants for the configured field.
func (s Settings) Tuning() game.Tuning {
	return game.NewTuning(s.FieldWidth, s.FieldHeight)
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	return v, ok && v != ""
}

func intVar(name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.Wrap(err, name)
	}
	return n, nil
}

func floatVar(name string, def float64) (float64, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errors.Wrap(err, name)
	}
	return f, nil
}
