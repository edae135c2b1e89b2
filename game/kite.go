package game

import (
	"fmt"
	"time"
)

// AnchorCenter is the anchor slot of the primary human kite: its tether
// starts at the middle of the ground line.
const AnchorCenter = -1

type Kite struct {
	ID    string
	Name  string
	Color string

	// AnchorSlot picks the ground anchor of the tether. It is assigned at
	// creation and never derived from the id.
	AnchorSlot int

	Pos       Vec2
	Vel       Vec2
	TargetPos Vec2

	Tension float64
	Angle   float64

	IsCut bool
	IsAI  bool

	AttackActive   bool
	AttackCooldown time.Time // no new attack before this instant
	AttackEndTime  time.Time // active attack expires after this instant

	Score int
}

// Live reports whether the kite still takes part in contact resolution.
func (k Kite) Live() bool {
	return !k.IsCut
}

// CanAttack reports whether an attack trigger at now would be accepted.
func (k Kite) CanAttack(now time.Time) bool {
	return !k.IsCut && !now.Before(k.AttackCooldown)
}

// NewPlayerKite creates a human-controlled kite. The centre slot spawns high
// in the middle of the field; other slots spawn like bots in their column.
func NewPlayerKite(id, name string, slot int, t Tuning) Kite {
	pos := Vec2{t.Width / 2, t.Height * PlayerSpawnHeight}
	color := PlayerColor
	if slot != AnchorCenter {
		pos = Vec2{t.Width / 5 * float64(slot%4+1), t.Height * PlayerSpawnHeight}
		color = NeonColors[slot%len(NeonColors)]
	}
	return Kite{
		ID:         id,
		Name:       name,
		Color:      color,
		AnchorSlot: slot,
		Pos:        pos,
		TargetPos:  pos,
		Tension:    TensionBase,
	}
}

// NewBotKite creates the i-th practice bot.
func NewBotKite(i int, t Tuning) Kite {
	pos := Vec2{t.Width / 5 * float64(i+1), t.Height * BotSpawnHeight}
	return Kite{
		ID:         fmt.Sprintf("ai-%d", i),
		Name:       fmt.Sprintf("BOT %c", 'A'+rune(i%26)),
		Color:      NeonColors[i%len(NeonColors)],
		AnchorSlot: i,
		Pos:        pos,
		TargetPos:  pos,
		Tension:    TensionBase / 2,
		IsAI:       true,
	}
}

// Spawn creates the kite of a participant joining a world that already holds
// count kites. The first participant takes the centre anchor.
func Spawn(id, name string, count int, t Tuning) Kite {
	if count == 0 {
		return NewPlayerKite(id, name, AnchorCenter, t)
	}
	return NewPlayerKite(id, name, count-1, t)
}

// IndexOf returns the position of the kite with the given id, or -1.
func IndexOf(kites []Kite, id string) int {
	for i := range kites {
		if kites[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove returns a copy of kites without the kite with the given id.
func Remove(kites []Kite, id string) []Kite {
	out := make([]Kite, 0, len(kites))
	for _, k := range kites {
		if k.ID != id {
			out = append(out, k)
		}
	}
	return out
}
