package game

import (
	"math/rand"
	"time"
)

// Sim runs the per-tick pipeline. Rand drives bot reflexes and wind gusts;
// a nil Rand disables both, which keeps Step deterministic.
type Sim struct {
	Tuning Tuning
	Rand   *rand.Rand
}

func NewSim(t Tuning, seed int64) *Sim {
	return &Sim{Tuning: t, Rand: rand.New(rand.NewSource(seed))}
}

// Step advances the world by one tick and returns the next world. The input
// state is left untouched. Stages run in a fixed order: integrate, steer
// bots, detect, track contact, bot reflex, resolve, gust.
func (sim *Sim) Step(s State, now time.Time) (State, *Cut) {
	t := sim.Tuning
	next := s.Clone()
	next.Tick++

	for i := range next.Kites {
		next.Kites[i] = Integrate(next.Kites[i], s.Wind, now, t)
	}

	next.Kites = SteerBots(next.Kites, now, t)

	collision := DetectCollision(next.Kites, t)
	next.Pecha = Track(s.Pecha, collision, now)

	next.Kites = Reflex(next.Kites, next.Pecha, now, t, sim.Rand)

	var cut *Cut
	next.Kites, next.Pecha, cut = Resolve(next.Kites, next.Pecha, now, t)

	next.Wind = Gust(s.Wind, t, sim.Rand)
	return next, cut
}
