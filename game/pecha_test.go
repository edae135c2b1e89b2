package game

import (
	"strings"
	"testing"
	"time"
)

func TestTrackOpensEpisodeAndKeepsPair(t *testing.T) {
	p := Track(Pecha{}, Collision{Intersecting: true, Point: Vec2{1, 1}, Pair: [2]string{"a", "b"}}, epoch)
	if !p.Intersecting || !p.ContactStart.Equal(epoch) || p.Pair != [2]string{"a", "b"} {
		t.Fatalf("episode not opened correctly: %+v", p)
	}

	later := epoch.Add(50 * time.Millisecond)
	p = Track(p, Collision{Intersecting: true, Point: Vec2{2, 3}, Pair: [2]string{"a", "c"}}, later)
	if p.Pair != [2]string{"a", "b"} {
		t.Fatalf("pair must stay fixed for the episode, got %v", p.Pair)
	}
	if p.Point != (Vec2{2, 3}) {
		t.Fatalf("point must be refreshed every tick, got %v", p.Point)
	}
	if !p.ContactStart.Equal(epoch) {
		t.Fatalf("contact start must not move within an episode, got %v", p.ContactStart)
	}

	p = Track(p, Collision{}, later.Add(time.Millisecond))
	if p != (Pecha{}) {
		t.Fatalf("no intersection must reset to no contact, got %+v", p)
	}
}

func TestResolveCleanCut(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	a.AttackEndTime = epoch.Add(5 * time.Second)
	a.Pos.Y = b.Pos.Y - 100
	kites := []Kite{a, b}
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	now := epoch.Add(tu.ContactThreshold + time.Millisecond)
	next, np, cut := Resolve(kites, p, now, tu)

	if cut == nil {
		t.Fatalf("expected a cut")
	}
	if !next[1].IsCut || next[0].Score != 1 {
		t.Fatalf("expected defender cut and attacker scored, got %+v %+v", next[0], next[1])
	}
	if !strings.Contains(cut.Message, "ALPHA") || !strings.Contains(cut.Message, "BRAVO") {
		t.Fatalf("cut message should name both kites, got %q", cut.Message)
	}
	if np != (Pecha{}) {
		t.Fatalf("contact must reset after a cut, got %+v", np)
	}
	if kites[1].IsCut || kites[0].Score != 0 {
		t.Fatalf("Resolve must not mutate its input")
	}
}

func TestResolveWaitsForThreshold(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	_, np, cut := Resolve([]Kite{a, b}, p, epoch.Add(tu.ContactThreshold), tu)
	if cut != nil || np != p {
		t.Fatalf("contact at exactly the threshold must not resolve")
	}
}

func TestResolveSecondKiteMayCut(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	// a attacks from below and fails the height test; b attacks from above.
	a.AttackActive = true
	a.Pos.Y = 500
	b.AttackActive = true
	b.Pos.Y = 250
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	next, _, cut := Resolve([]Kite{a, b}, p, epoch.Add(time.Second), tu)
	if cut == nil || cut.AttackerID != "b" || !next[0].IsCut {
		t.Fatalf("expected b to cut a, got cut=%+v", cut)
	}
}

func TestResolveHeightSlack(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	a.Pos.Y = b.Pos.Y + tu.HeightSlack - 1
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	if _, _, cut := Resolve([]Kite{a, b}, p, epoch.Add(time.Second), tu); cut == nil {
		t.Fatalf("attacker slightly lower but within slack should still cut")
	}

	a.Pos.Y = b.Pos.Y + tu.HeightSlack
	if _, _, cut := Resolve([]Kite{a, b}, p, epoch.Add(time.Second), tu); cut != nil {
		t.Fatalf("attacker at the slack limit must not cut")
	}
}

func TestResolveWithoutAttackersKeepsContact(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	next, np, cut := Resolve([]Kite{a, b}, p, epoch.Add(10*time.Second), tu)
	if cut != nil || np != p || next[0].IsCut || next[1].IsCut {
		t.Fatalf("contact without attackers must persist untouched")
	}
}

func TestResolveMissingKiteIsNoop(t *testing.T) {
	tu := DefaultTuning()
	a, _ := crossingKites(tu)
	a.AttackActive = true
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "gone"}}

	next, np, cut := Resolve([]Kite{a}, p, epoch.Add(time.Second), tu)
	if cut != nil || np != p || len(next) != 1 {
		t.Fatalf("missing pair member must be a no-op, got cut=%+v pecha=%+v", cut, np)
	}
}

func TestResolveNeverCutsTwice(t *testing.T) {
	tu := DefaultTuning()
	a, b := crossingKites(tu)
	a.AttackActive = true
	b.IsCut = true
	p := Pecha{Intersecting: true, ContactStart: epoch, Pair: [2]string{"a", "b"}}

	if _, _, cut := Resolve([]Kite{a, b}, p, epoch.Add(time.Second), tu); cut != nil {
		t.Fatalf("a cut kite must not be cut again")
	}
}
