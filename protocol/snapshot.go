package protocol

import (
	"math"
	"time"

	"pecha/game"
)

func (v Vec) finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func FromVec(v game.Vec2) Vec { return Vec{v.X, v.Y} }

func (v Vec) Vec2() game.Vec2 { return game.Vec2{X: v.X, Y: v.Y} }

// UnixMilli maps the zero time to 0 so that "never" survives the round trip.
func UnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func FromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func FromKite(k game.Kite) KiteSnapshot {
	return KiteSnapshot{
		ID:             k.ID,
		Name:           k.Name,
		Color:          k.Color,
		AnchorSlot:     k.AnchorSlot,
		Pos:            FromVec(k.Pos),
		Vel:            FromVec(k.Vel),
		TargetPos:      FromVec(k.TargetPos),
		Tension:        k.Tension,
		Angle:          k.Angle,
		IsCut:          k.IsCut,
		IsAI:           k.IsAI,
		AttackActive:   k.AttackActive,
		AttackCooldown: UnixMilli(k.AttackCooldown),
		AttackEndTime:  UnixMilli(k.AttackEndTime),
		Score:          k.Score,
	}
}

func (s KiteSnapshot) Kite() game.Kite {
	return game.Kite{
		ID:             s.ID,
		Name:           s.Name,
		Color:          s.Color,
		AnchorSlot:     s.AnchorSlot,
		Pos:            s.Pos.Vec2(),
		Vel:            s.Vel.Vec2(),
		TargetPos:      s.TargetPos.Vec2(),
		Tension:        s.Tension,
		Angle:          s.Angle,
		IsCut:          s.IsCut,
		IsAI:           s.IsAI,
		AttackActive:   s.AttackActive,
		AttackCooldown: FromUnixMilli(s.AttackCooldown),
		AttackEndTime:  FromUnixMilli(s.AttackEndTime),
		Score:          s.Score,
	}
}

func FromPecha(p game.Pecha) PechaSnapshot {
	if !p.Intersecting {
		return PechaSnapshot{}
	}
	start := UnixMilli(p.ContactStart)
	point := FromVec(p.Point)
	return PechaSnapshot{
		IsIntersecting:   true,
		ContactStartTime: &start,
		IntersectPoint:   &point,
		Kites:            p.Pair,
	}
}

func (s PechaSnapshot) Pecha() game.Pecha {
	if !s.IsIntersecting {
		return game.Pecha{}
	}
	p := game.Pecha{Intersecting: true, Pair: s.Kites}
	if s.ContactStartTime != nil {
		p.ContactStart = FromUnixMilli(*s.ContactStartTime)
	}
	if s.IntersectPoint != nil {
		p.Point = s.IntersectPoint.Vec2()
	}
	return p
}

// FromState builds the broadcast snapshot of a world.
func FromState(s game.State, message string) State {
	kites := make([]KiteSnapshot, 0, len(s.Kites))
	for _, k := range s.Kites {
		kites = append(kites, FromKite(k))
	}
	return State{
		Tick:    s.Tick,
		Kites:   kites,
		Pecha:   FromPecha(s.Pecha),
		Wind:    FromVec(s.Wind),
		Message: message,
	}
}

// World converts a snapshot back into a game state.
func (s State) World() game.State {
	kites := make([]game.Kite, 0, len(s.Kites))
	for _, k := range s.Kites {
		kites = append(kites, k.Kite())
	}
	return game.State{
		Tick:  s.Tick,
		Kites: kites,
		Pecha: s.Pecha.Pecha(),
		Wind:  s.Wind.Vec2(),
	}
}

// Delta converts a validated input into the core's typed delta for playerID.
// The stick, when present, is resolved against the kite's current position
// by the caller; Delta only carries the absolute fields.
func (i Input) Delta(playerID string) game.InputDelta {
	d := game.InputDelta{PlayerID: playerID, AttackActive: i.AttackActive}
	if i.TargetPos != nil {
		p := i.TargetPos.Vec2()
		d.TargetPos = &p
	}
	if i.AttackEndTime != nil {
		t := FromUnixMilli(*i.AttackEndTime)
		d.AttackEndTime = &t
	}
	if i.AttackCooldown != nil {
		t := FromUnixMilli(*i.AttackCooldown)
		d.AttackCooldown = &t
	}
	return d
}

// InputFromDelta is the reverse of Delta, used by participants forwarding
// their own changes upstream.
func InputFromDelta(d game.InputDelta) Input {
	in := Input{PlayerID: d.PlayerID, AttackActive: d.AttackActive}
	if d.TargetPos != nil {
		v := FromVec(*d.TargetPos)
		in.TargetPos = &v
	}
	if d.AttackEndTime != nil {
		ms := UnixMilli(*d.AttackEndTime)
		in.AttackEndTime = &ms
	}
	if d.AttackCooldown != nil {
		ms := UnixMilli(*d.AttackCooldown)
		in.AttackCooldown = &ms
	}
	return in
}
