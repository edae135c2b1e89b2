package game

import (
	"math"
	"testing"
)

func TestSegmentIntersectCrossing(t *testing.T) {
	p, ok := SegmentIntersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{0, 10}, Vec2{10, 0})
	if !ok {
		t.Fatalf("expected crossing segments to intersect")
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Fatalf("intersection point: got=(%f,%f) want=(5,5)", p.X, p.Y)
	}
}

func TestSegmentIntersectParallelIsMiss(t *testing.T) {
	if _, ok := SegmentIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 5}, Vec2{10, 5}); ok {
		t.Fatalf("parallel segments must not intersect")
	}
	if _, ok := SegmentIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{5, 0}, Vec2{15, 0}); ok {
		t.Fatalf("collinear segments must not intersect")
	}
}

func TestSegmentIntersectOutOfRange(t *testing.T) {
	// Lines cross at (5,5) but the second segment stops short of it.
	if _, ok := SegmentIntersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{0, 10}, Vec2{4, 6}); ok {
		t.Fatalf("segments whose lines cross outside both spans must not intersect")
	}
}

func TestClampMagKeepsDirection(t *testing.T) {
	v := Vec2{30, 40}.ClampMag(5)
	if math.Abs(v.Mag()-5) > 1e-9 {
		t.Fatalf("clamped magnitude: got=%f want=5", v.Mag())
	}
	if math.Abs(v.X/v.Y-0.75) > 1e-9 {
		t.Fatalf("direction changed: got=(%f,%f)", v.X, v.Y)
	}
	short := Vec2{1, 1}.ClampMag(5)
	if short != (Vec2{1, 1}) {
		t.Fatalf("short vector must be untouched, got=%v", short)
	}
}
