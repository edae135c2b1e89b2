package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestStepAdvancesTickAndMovesKites(t *testing.T) {
	tu := DefaultTuning()
	s := State{
		Tick:  0,
		Kites: []Kite{{ID: "p1", Pos: Vec2{100, 100}, TargetPos: Vec2{200, 100}}},
	}
	sim := calmSim(tu)

	next, _ := sim.Step(s, epoch)
	if next.Tick != 1 {
		t.Fatalf("tick after 1 step = %d, want 1", next.Tick)
	}
	x1 := next.Kites[0].Pos.X
	if x1 <= 100 {
		t.Fatalf("expected x to increase after 1 step, got %f", x1)
	}
	if s.Kites[0].Pos.X != 100 || s.Tick != 0 {
		t.Fatalf("Step must not mutate the input state")
	}

	for i := 0; i < 4; i++ {
		next, _ = sim.Step(next, epoch)
	}
	if next.Tick != 5 {
		t.Fatalf("tick after 5 steps = %d, want 5", next.Tick)
	}
	if x2 := next.Kites[0].Pos.X; x2 <= x1 {
		t.Fatalf("expected x to keep increasing: x1=%f x2=%f", x1, x2)
	}
}

func TestStepCleanCutScenario(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	a.AttackEndTime = epoch.Add(5 * time.Second)
	a.Pos.Y = b.Pos.Y - 100
	a.TargetPos = a.Pos
	s := State{Kites: []Kite{a, b}}
	sim := calmSim(tu)

	s, cut := sim.Step(s, epoch)
	if cut != nil || !s.Pecha.Intersecting {
		t.Fatalf("first tick should open contact without cutting, pecha=%+v", s.Pecha)
	}

	s, cut = sim.Step(s, epoch.Add(tu.ContactThreshold+time.Millisecond))
	if cut == nil {
		t.Fatalf("expected a cut once the contact threshold passed")
	}
	if !s.Kites[1].IsCut || s.Kites[0].Score != 1 {
		t.Fatalf("defender should be cut and attacker scored: %+v", s.Kites)
	}
	if s.Pecha.Intersecting {
		t.Fatalf("contact must reset after a cut")
	}
}

func TestStepContactBreaksBeforeThreshold(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	a.AttackEndTime = epoch.Add(5 * time.Second)
	s := State{Kites: []Kite{a, b}}
	sim := calmSim(tu)

	s, _ = sim.Step(s, epoch)
	if !s.Pecha.Intersecting {
		t.Fatalf("expected contact on the first tick")
	}

	s.Kites[1] = still(s.Kites[1], Vec2{100, 300})
	s, cut := sim.Step(s, epoch.Add(100*time.Millisecond))
	if cut != nil || s.Pecha != (Pecha{}) {
		t.Fatalf("diverging tethers must return to no contact, pecha=%+v", s.Pecha)
	}
	for _, k := range s.Kites {
		if k.IsCut || k.Score != 0 {
			t.Fatalf("no kite should be mutated by a broken contact: %+v", k)
		}
	}
}

func TestStepMutualContactPersistsWithoutAttack(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	s := State{Kites: []Kite{a, b}}
	sim := NewSim(tu, 42)
	s.Wind = Vec2{}

	s, _ = sim.Step(s, epoch)
	start := s.Pecha.ContactStart
	pair := s.Pecha.Pair
	for i := 1; i <= 120; i++ {
		var cut *Cut
		s, cut = sim.Step(s, epoch.Add(time.Duration(i)*50*time.Millisecond))
		if cut != nil {
			t.Fatalf("no cut expected between non-attacking humans, got %+v", cut)
		}
		if !s.Pecha.Intersecting {
			break
		}
		if !s.Pecha.ContactStart.Equal(start) || s.Pecha.Pair != pair {
			t.Fatalf("episode identity changed mid-contact at tick %d: %+v", i, s.Pecha)
		}
	}
	for _, k := range s.Kites {
		if k.IsCut {
			t.Fatalf("kite %s cut without any attack", k.ID)
		}
	}
}

func TestStepDisconnectMidContactDoesNotPanic(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	a.AttackEndTime = epoch.Add(5 * time.Second)
	s := State{Kites: []Kite{a, b}}
	sim := calmSim(tu)

	s, _ = sim.Step(s, epoch)
	s.Kites = Remove(s.Kites, "b")

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Step panicked after a disconnect: %v", r)
		}
	}()

	s, cut := sim.Step(s, epoch.Add(time.Second))
	if cut != nil || len(s.Kites) != 1 {
		t.Fatalf("removed kite must simply be absent, cut=%+v kites=%d", cut, len(s.Kites))
	}
}

func TestStepCutKitesStayCut(t *testing.T) {
	tu := DefaultTuning()
	s := NewPracticeState("me", "YOU", 4, tu)
	s.Kites[2].IsCut = true
	sim := NewSim(tu, 3)

	for i := 0; i < 300; i++ {
		s, _ = sim.Step(s, epoch.Add(time.Duration(i)*16*time.Millisecond))
		k := s.Kites[IndexOf(s.Kites, "ai-1")]
		if !k.IsCut || k.AttackActive {
			t.Fatalf("cut kite came back to life at tick %d: %+v", i, k)
		}
		if s.Pecha.Intersecting && (s.Pecha.Pair[0] == "ai-1" || s.Pecha.Pair[1] == "ai-1") {
			t.Fatalf("cut kite selected for contact at tick %d", i)
		}
	}
}

func TestStepBotReflexCanCutInSameTick(t *testing.T) {
	tu := DefaultTuning()
	tu.AIReflexChance = 1
	human, _ := crossingKites(tu)
	human = still(human, Vec2{300, 300})
	bot := still(NewBotKite(0, tu), Vec2{700, 250})
	s := State{Kites: []Kite{human, bot}}
	sim := &Sim{Tuning: tu, Rand: rand.New(rand.NewSource(9))}

	s, _ = sim.Step(s, epoch)
	if !s.Pecha.Intersecting {
		t.Fatalf("expected contact, pecha=%+v", s.Pecha)
	}
	// Keep both kites pinned so the bot policy cannot pull them apart.
	s.Kites[1].TargetPos = s.Kites[1].Pos
	_, cut := (&Sim{Tuning: tu, Rand: rand.New(rand.NewSource(9))}).Step(s, epoch.Add(time.Second))
	if cut == nil || cut.AttackerID != bot.ID {
		t.Fatalf("bot reflex should cut the lower human, got %+v", cut)
	}
}
