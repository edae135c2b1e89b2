package game

import "math/rand"

// Gust evolves the wind by a bounded random walk. Without an rng the wind
// stays put.
func Gust(w Vec2, t Tuning, rng *rand.Rand) Vec2 {
	if rng == nil {
		return w
	}
	w.X += (rng.Float64() - 0.5) * t.WindGust.X
	w.Y += (rng.Float64() - 0.5) * t.WindGust.Y
	if t.WindLimit.X > 0 {
		w.X = clamp(w.X, -t.WindLimit.X, t.WindLimit.X)
	}
	if t.WindLimit.Y > 0 {
		w.Y = clamp(w.Y, -t.WindLimit.Y, t.WindLimit.Y)
	}
	return w
}
