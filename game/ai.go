package game

import (
	"math"
	"math/rand"
	"time"
)

// Quarry returns the kite bots chase: the first live human kite.
func Quarry(kites []Kite) (Kite, bool) {
	for _, k := range kites {
		if !k.IsAI && !k.IsCut {
			return k, true
		}
	}
	return Kite{}, false
}

// SteerBots sets TargetPos for every live AI kite. Near a quarry a bot hovers
// below it with a small wobble; otherwise it patrols its own column.
// Non-AI kites are returned untouched.
func SteerBots(kites []Kite, now time.Time, t Tuning) []Kite {
	ms := float64(now.UnixMilli())
	quarry, hunting := Quarry(kites)

	next := make([]Kite, len(kites))
	copy(next, kites)
	for i := range next {
		k := &next[i]
		if !k.IsAI || k.IsCut {
			continue
		}
		if hunting && quarry.Pos.Sub(k.Pos).Mag() < t.AIEngageRadius {
			k.TargetPos = Vec2{
				X: quarry.Pos.X + math.Sin(ms/t.AIWobblePeriodMs)*t.AIWobbleAmplitude,
				Y: quarry.Pos.Y + t.AIHoverOffset,
			}
			continue
		}
		k.TargetPos = patrolPoint(k.AnchorSlot, ms, t)
	}
	return next
}

func patrolPoint(slot int, ms float64, t Tuning) Vec2 {
	slots := t.AIPatrolSlots
	if slots <= 0 {
		slots = AIPatrolSlots
	}
	if slot < 0 {
		slot = -slot
	}
	return Vec2{
		X: t.Width/5*float64(slot%slots+1) + math.Sin(ms/t.AIPatrolPeriodXMs)*t.AIPatrolAmplitudeX,
		Y: t.Height*PatrolHeightFactor + math.Cos(ms/t.AIPatrolPeriodYMs)*t.AIPatrolAmplitudeY,
	}
}

// Reflex gives a bot stuck in a ripe contact that nobody can win a chance to
// open its attack window. It runs before Resolve so that Resolve stays a pure
// function of the state; a nil rng disables it.
func Reflex(kites []Kite, p Pecha, now time.Time, t Tuning, rng *rand.Rand) []Kite {
	if rng == nil || !p.Ripe(now, t) {
		return kites
	}
	ia, ib := IndexOf(kites, p.Pair[0]), IndexOf(kites, p.Pair[1])
	if ia < 0 || ib < 0 {
		return kites
	}
	a, b := kites[ia], kites[ib]
	if Cuts(a, b, t) || Cuts(b, a, t) {
		return kites
	}

	strike := -1
	switch {
	case eligibleForReflex(a) && rng.Float64() < t.AIReflexChance:
		strike = ia
	case eligibleForReflex(b) && rng.Float64() < t.AIReflexChance:
		strike = ib
	default:
		return kites
	}

	next := make([]Kite, len(kites))
	copy(next, kites)
	next[strike].AttackActive = true
	next[strike].AttackEndTime = now.Add(t.AttackDuration)
	return next
}

func eligibleForReflex(k Kite) bool {
	return k.IsAI && !k.IsCut && !k.AttackActive
}
