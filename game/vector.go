package game

import "math"

// Vec2 is a point or direction in field units. Y grows downward, so a
// smaller Y is higher in the sky.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (a Vec2) Scale(f float64) Vec2 {
	return Vec2{a.X * f, a.Y * f}
}

func (a Vec2) Mag() float64 {
	return math.Hypot(a.X, a.Y)
}

// ClampMag rescales a to max when it is longer, keeping its direction.
func (a Vec2) ClampMag(max float64) Vec2 {
	speed := a.Mag()
	if speed > max && speed > 0 {
		return a.Scale(max / speed)
	}
	return a
}

// SegmentIntersect returns the crossing point of segments p1-p2 and p3-p4.
// Parallel and collinear segments never intersect.
func SegmentIntersect(p1, p2, p3, p4 Vec2) (Vec2, bool) {
	denom := (p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y)
	if denom == 0 {
		return Vec2{}, false
	}
	ua := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) / denom
	ub := ((p2.X-p1.X)*(p1.Y-p3.Y) - (p2.Y-p1.Y)*(p1.X-p3.X)) / denom
	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Vec2{}, false
	}
	return Vec2{
		X: p1.X + ua*(p2.X-p1.X),
		Y: p1.Y + ua*(p2.Y-p1.Y),
	}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
