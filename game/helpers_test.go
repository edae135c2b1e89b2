package game

import "time"

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// still pins a kite in place: no velocity and a target on its position.
func still(k Kite, pos Vec2) Kite {
	k.Pos = pos
	k.TargetPos = pos
	k.Vel = Vec2{}
	return k
}

// crossingKites returns a centre-anchored kite "a" and a slot-0 kite "b"
// whose tethers cross, with a clearly higher than b.
func crossingKites(tu Tuning) (Kite, Kite) {
	a := still(NewPlayerKite("a", "ALPHA", AnchorCenter, tu), Vec2{300, 200})
	b := still(NewPlayerKite("b", "BRAVO", 0, tu), Vec2{700, 300})
	return a, b
}

// calmSim has no wind gusts and no bot reflexes.
func calmSim(tu Tuning) *Sim {
	return &Sim{Tuning: tu}
}
