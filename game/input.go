package game

import "time"

// Stick is a joystick deflection, [-1,1] per axis.
type Stick struct {
	X, Y float64
}

// SteerTarget turns a stick deflection into a new target near the kite,
// clamped to the playable part of the field. Cut kites keep their target.
func SteerTarget(k Kite, s Stick, t Tuning) Vec2 {
	if k.IsCut {
		return k.TargetPos
	}
	sx := clamp(s.X, -1, 1)
	sy := clamp(s.Y, -1, 1)
	return ClampTarget(Vec2{k.Pos.X + sx*t.InputStep, k.Pos.Y + sy*t.InputStep}, t)
}

// ClampTarget bounds a commanded position to the playable field.
func ClampTarget(p Vec2, t Tuning) Vec2 {
	return Vec2{
		X: clamp(p.X, t.MarginX, t.Width-t.MarginX),
		Y: clamp(p.Y, t.MarginTop, t.Height-t.MarginBottom),
	}
}

// TriggerAttack opens the attack window unless the kite is cut or still
// cooling down. The second result reports whether the trigger was accepted.
func TriggerAttack(k Kite, now time.Time, t Tuning) (Kite, bool) {
	if !k.CanAttack(now) {
		return k, false
	}
	k.AttackActive = true
	k.AttackEndTime = now.Add(t.AttackDuration)
	k.AttackCooldown = now.Add(t.AttackCooldown)
	return k, true
}

// InputDelta carries the fields a participant changed on its own kite. Nil
// fields are left alone.
type InputDelta struct {
	PlayerID       string
	TargetPos      *Vec2
	AttackActive   *bool
	AttackEndTime  *time.Time
	AttackCooldown *time.Time
}

// ApplyDelta merges the provided fields into the matching kite and returns a
// new slice. Unknown ids are ignored, and a cut kite never takes a new target
// or an active attack.
func ApplyDelta(kites []Kite, d InputDelta) []Kite {
	i := IndexOf(kites, d.PlayerID)
	if i < 0 {
		return kites
	}
	next := make([]Kite, len(kites))
	copy(next, kites)
	k := &next[i]
	if k.IsCut {
		return kites
	}
	if d.TargetPos != nil {
		k.TargetPos = *d.TargetPos
	}
	if d.AttackActive != nil {
		k.AttackActive = *d.AttackActive
	}
	if d.AttackEndTime != nil {
		k.AttackEndTime = *d.AttackEndTime
	}
	if d.AttackCooldown != nil {
		k.AttackCooldown = *d.AttackCooldown
	}
	return next
}
