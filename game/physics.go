package game

import (
	"math"
	"time"
)

// Integrate advances one kite by one tick under the given wind. Cut kites
// ignore steering: they drift with the wind, fall at a constant rate and spin.
func Integrate(k Kite, wind Vec2, now time.Time, t Tuning) Kite {
	if k.IsCut {
		k.Pos = Vec2{
			X: k.Pos.X + wind.X*t.CutDriftScale,
			Y: k.Pos.Y + t.CutFallRate,
		}
		k.Angle += t.CutSpinRate
		k.AttackActive = false
		return k
	}

	seek := k.TargetPos.Sub(k.Pos).Scale(t.Acceleration)
	vel := k.Vel.Add(seek).Add(wind).Scale(t.Friction)
	vel = vel.ClampMag(t.MaxSpeed)

	k.Vel = vel
	k.Pos = k.Pos.Add(vel)
	k.Angle = math.Atan2(vel.Y, vel.X) * t.HeadingAttenuation
	k.Tension = t.TensionBase + math.Abs(vel.Y)*t.TensionPerSpeed

	if k.AttackActive && now.After(k.AttackEndTime) {
		k.AttackActive = false
	}
	return k
}
