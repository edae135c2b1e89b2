package game

import (
	"fmt"
	"time"
)

// Pecha is the contact machine. The zero value is NO_CONTACT.
type Pecha struct {
	Intersecting bool
	ContactStart time.Time
	Point        Vec2
	// Pair is fixed for a whole contact episode; only Point is refreshed.
	Pair [2]string
}

// Cut describes one resolved contact.
type Cut struct {
	AttackerID string
	DefenderID string
	Message    string
}

// Track advances the contact machine with this tick's collision result.
func Track(p Pecha, c Collision, now time.Time) Pecha {
	if !c.Intersecting {
		return Pecha{}
	}
	if !p.Intersecting {
		return Pecha{
			Intersecting: true,
			ContactStart: now,
			Point:        c.Point,
			Pair:         c.Pair,
		}
	}
	p.Point = c.Point
	return p
}

// Ripe reports whether the current episode has lasted past the threshold.
func (p Pecha) Ripe(now time.Time, t Tuning) bool {
	return p.Intersecting && now.Sub(p.ContactStart) > t.ContactThreshold
}

// Elapsed is the duration of the current episode, zero without contact.
func (p Pecha) Elapsed(now time.Time) time.Duration {
	if !p.Intersecting {
		return 0
	}
	return now.Sub(p.ContactStart)
}

// Cuts reports whether attacker wins against defender: it must be attacking
// and hold height advantage, within the slack.
func Cuts(attacker, defender Kite, t Tuning) bool {
	if attacker.IsCut || defender.IsCut || !attacker.AttackActive {
		return false
	}
	return attacker.Pos.Y < defender.Pos.Y+t.HeightSlack
}

// Resolve settles a ripe episode. It never mutates its input: when a cut
// happens it returns a fresh kite slice, the reset machine and the cut. When
// either kite of the pair is gone, or nobody qualifies, nothing changes.
func Resolve(kites []Kite, p Pecha, now time.Time, t Tuning) ([]Kite, Pecha, *Cut) {
	if !p.Ripe(now, t) {
		return kites, p, nil
	}
	ia, ib := IndexOf(kites, p.Pair[0]), IndexOf(kites, p.Pair[1])
	if ia < 0 || ib < 0 {
		return kites, p, nil
	}

	attacker, defender := -1, -1
	switch {
	case Cuts(kites[ia], kites[ib], t):
		attacker, defender = ia, ib
	case Cuts(kites[ib], kites[ia], t):
		attacker, defender = ib, ia
	default:
		return kites, p, nil
	}

	next := make([]Kite, len(kites))
	copy(next, kites)
	next[defender].IsCut = true
	next[defender].AttackActive = false
	next[attacker].Score++

	cut := &Cut{
		AttackerID: next[attacker].ID,
		DefenderID: next[defender].ID,
		Message:    fmt.Sprintf("%s CUT %s!", next[attacker].Name, next[defender].Name),
	}
	return next, Pecha{}, cut
}
