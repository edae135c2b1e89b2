package protocol

import (
	"testing"
	"time"

	"pecha/game"
)

func sampleWorld() game.State {
	tu := game.DefaultTuning()
	s := game.NewPracticeState("me", "YOU", 2, tu)
	s.Tick = 42
	s.Kites[1].IsCut = true
	s.Kites[0].AttackActive = true
	s.Kites[0].AttackEndTime = time.UnixMilli(1_700_000_001_200)
	s.Pecha = game.Pecha{
		Intersecting: true,
		ContactStart: time.UnixMilli(1_700_000_000_000),
		Point:        game.Vec2{X: 10, Y: 20},
		Pair:         [2]string{"me", "ai-1"},
	}
	return s
}

func TestStateRoundTripsThroughBothCodecs(t *testing.T) {
	world := sampleWorld()
	for _, c := range []Codec{JSON, Msgpack} {
		b, err := EncodeWith(c, MsgState, FromState(world, "BOT A CUT YOU!"))
		if err != nil {
			t.Fatalf("%s encode: %v", c.Name(), err)
		}
		env, err := DecodeEnvelopeWith(c, b)
		if err != nil {
			t.Fatalf("%s decode envelope: %v", c.Name(), err)
		}
		if env.T != MsgState {
			t.Fatalf("%s envelope type = %q", c.Name(), env.T)
		}
		st, err := DecodePayloadWith[State](c, env)
		if err != nil {
			t.Fatalf("%s decode state: %v", c.Name(), err)
		}
		if st.Tick != 42 || st.Message != "BOT A CUT YOU!" || len(st.Kites) != 3 {
			t.Fatalf("%s snapshot header mismatch: %+v", c.Name(), st)
		}
		back := st.World()
		if back.Pecha != world.Pecha {
			t.Fatalf("%s pecha mismatch: got=%+v want=%+v", c.Name(), back.Pecha, world.Pecha)
		}
		if !back.Kites[1].IsCut || !back.Kites[0].AttackEndTime.Equal(world.Kites[0].AttackEndTime) {
			t.Fatalf("%s kite fields lost: %+v", c.Name(), back.Kites[:2])
		}
	}
}

func TestNoContactEncodesNulls(t *testing.T) {
	b, err := Encode(MsgState, FromState(game.State{}, ""))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, _ := DecodeEnvelope(b)
	st, err := DecodePayload[State](env)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Pecha.ContactStartTime != nil || st.Pecha.IntersectPoint != nil {
		t.Fatalf("no-contact snapshot must carry null start and point: %+v", st.Pecha)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatalf("expected error for empty frame")
	}
	if _, err := DecodeEnvelope([]byte(`{"p":{}}`)); err == nil {
		t.Fatalf("expected error for untyped envelope")
	}
	if _, err := DecodeEnvelopeWith(Msgpack, []byte{0xc1}); err == nil {
		t.Fatalf("expected error for invalid msgpack")
	}
	if _, err := CodecByName("xml"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestInputValidate(t *testing.T) {
	if err := (Input{}).Validate(); err == nil {
		t.Fatalf("empty input must be rejected")
	}
	if err := (Input{Stick: &Vec{X: 1.5}}).Validate(); err == nil {
		t.Fatalf("stick beyond range must be rejected")
	}
	active := true
	if err := (Input{AttackActive: &active}).Validate(); err != nil {
		t.Fatalf("attack-only input should be valid: %v", err)
	}
	if err := (Hello{V: Version, Name: "kite runner"}).Validate(); err != nil {
		t.Fatalf("valid hello rejected: %v", err)
	}
	if err := (Hello{V: 99}).Validate(); err == nil {
		t.Fatalf("wrong version must be rejected")
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	target := game.Vec2{X: 12, Y: 34}
	active := true
	end := time.UnixMilli(1_700_000_000_500)
	d := game.InputDelta{PlayerID: "p1", TargetPos: &target, AttackActive: &active, AttackEndTime: &end}

	back := InputFromDelta(d).Delta("p1")
	if *back.TargetPos != target || !*back.AttackActive || !back.AttackEndTime.Equal(end) || back.AttackCooldown != nil {
		t.Fatalf("delta lost fields: %+v", back)
	}
}
