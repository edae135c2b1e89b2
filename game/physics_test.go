package game

import (
	"math"
	"testing"
	"time"
)

func TestIntegrateClampsSpeedPreservingDirection(t *testing.T) {
	tu := DefaultTuning()
	k := Kite{ID: "k", Pos: Vec2{0, 0}, TargetPos: Vec2{1000, 500}}

	next := Integrate(k, Vec2{}, epoch, tu)

	speed := next.Vel.Mag()
	if math.Abs(speed-tu.MaxSpeed) > 1e-9 {
		t.Fatalf("speed after clamp: got=%f want=%f", speed, tu.MaxSpeed)
	}
	if math.Abs(next.Vel.Y/next.Vel.X-0.5) > 1e-9 {
		t.Fatalf("clamp changed direction: vel=(%f,%f)", next.Vel.X, next.Vel.Y)
	}
	if next.Pos != next.Vel {
		t.Fatalf("position must advance by the new velocity: pos=%v vel=%v", next.Pos, next.Vel)
	}
}

func TestIntegrateSeeksTargetWithWindAndFriction(t *testing.T) {
	tu := DefaultTuning()
	k := Kite{ID: "k", Pos: Vec2{100, 100}, TargetPos: Vec2{110, 100}}
	wind := Vec2{0.1, 0}

	next := Integrate(k, wind, epoch, tu)

	want := (10*tu.Acceleration + 0.1) * tu.Friction
	if math.Abs(next.Vel.X-want) > 1e-12 || next.Vel.Y != 0 {
		t.Fatalf("velocity: got=(%f,%f) want=(%f,0)", next.Vel.X, next.Vel.Y, want)
	}
	if next.Tension != tu.TensionBase {
		t.Fatalf("tension with no vertical speed: got=%f want=%f", next.Tension, tu.TensionBase)
	}
	if math.Abs(next.Angle) > 1e-12 {
		t.Fatalf("heading for pure horizontal motion should be 0, got %f", next.Angle)
	}
}

func TestIntegrateExpiresAttackLazily(t *testing.T) {
	tu := DefaultTuning()
	k := Kite{ID: "k", AttackActive: true, AttackEndTime: epoch.Add(100 * time.Millisecond)}

	if next := Integrate(k, Vec2{}, epoch, tu); !next.AttackActive {
		t.Fatalf("attack must stay active before its end time")
	}
	if next := Integrate(k, Vec2{}, epoch.Add(101*time.Millisecond), tu); next.AttackActive {
		t.Fatalf("attack must expire once now passes the end time")
	}
}

func TestCutKiteFallsWithDeterministicDrift(t *testing.T) {
	tu := DefaultTuning()
	w := 0.2
	start := Vec2{400, 100}
	k := Kite{ID: "k", Pos: start, TargetPos: Vec2{0, 0}, Vel: Vec2{3, 3}, IsCut: true}

	const n = 25
	for i := 0; i < n; i++ {
		k = Integrate(k, Vec2{w, 0.5}, epoch.Add(time.Duration(i)*time.Millisecond), tu)
	}

	wantX := start.X + n*w*tu.CutDriftScale
	if math.Abs(k.Pos.X-wantX) > 1e-9 {
		t.Fatalf("cut kite x after %d ticks: got=%f want=%f", n, k.Pos.X, wantX)
	}
	wantY := start.Y + n*tu.CutFallRate
	if math.Abs(k.Pos.Y-wantY) > 1e-9 {
		t.Fatalf("cut kite y after %d ticks: got=%f want=%f", n, k.Pos.Y, wantY)
	}
	if math.Abs(k.Angle-n*tu.CutSpinRate) > 1e-9 {
		t.Fatalf("cut kite spin: got=%f want=%f", k.Angle, n*tu.CutSpinRate)
	}
	if !k.IsCut || k.AttackActive {
		t.Fatalf("cut kite must stay cut and never attack")
	}
}
