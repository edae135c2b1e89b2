// Package replica is the participant side of a match: it holds the last
// authoritative snapshot, keeps the participant's own kite responsive
// between snapshots and produces the input deltas sent upstream.
package replica

import (
	"sync"
	"time"

	"pecha/game"
	"pecha/protocol"
)

// Replica is safe for concurrent use: snapshots usually arrive on a network
// goroutine while steering happens on another.
type Replica struct {
	mu      sync.Mutex
	selfID  string
	tuning  game.Tuning
	world   game.State
	applied bool
	message string
	lost    bool
}

func New(selfID string, t game.Tuning) *Replica {
	return &Replica{
		selfID: selfID,
		tuning: t,
		world:  game.NewState(t),
	}
}

func (r *Replica) SelfID() string {
	return r.selfID
}

// Apply replaces the world with s unless s is not newer than the last
// applied snapshot. While the own kite is flying its position, velocity,
// target and heading stay the locally integrated ones. It reports whether
// s was applied.
func (r *Replica) Apply(s protocol.State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.applied && s.Tick <= r.world.Tick {
		return false
	}
	next := s.World()
	if local, ok := r.selfLocked(); ok && !local.IsCut {
		if i := game.IndexOf(next.Kites, r.selfID); i >= 0 && !next.Kites[i].IsCut {
			k := &next.Kites[i]
			k.Pos = local.Pos
			k.Vel = local.Vel
			k.TargetPos = local.TargetPos
			k.Angle = local.Angle
		}
	}
	r.world = next
	r.applied = true
	if s.Message != "" {
		r.message = s.Message
	}
	return true
}

// Predict integrates the own kite one tick with the last known wind. Other
// kites only move when a snapshot arrives.
func (r *Replica) Predict(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := game.IndexOf(r.world.Kites, r.selfID)
	if i < 0 {
		return
	}
	r.world.Kites[i] = game.Integrate(r.world.Kites[i], r.world.Wind, now, r.tuning)
}

// Steer moves the own target from a stick deflection and returns the input
// to forward. ok is false when there is nothing to send.
func (r *Replica) Steer(stick game.Stick) (in protocol.Input, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := game.IndexOf(r.world.Kites, r.selfID)
	if i < 0 || r.world.Kites[i].IsCut {
		return protocol.Input{}, false
	}
	target := game.SteerTarget(r.world.Kites[i], stick, r.tuning)
	d := game.InputDelta{PlayerID: r.selfID, TargetPos: &target}
	r.world.Kites = game.ApplyDelta(r.world.Kites, d)

	in = protocol.InputFromDelta(d)
	in.Stick = &protocol.Vec{X: clampUnit(stick.X), Y: clampUnit(stick.Y)}
	return in, true
}

// Attack opens the own attack window optimistically. The host decides with
// its own clock; the timestamps sent along are advisory.
func (r *Replica) Attack(now time.Time) (protocol.Input, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := game.IndexOf(r.world.Kites, r.selfID)
	if i < 0 {
		return protocol.Input{}, false
	}
	k, ok := game.TriggerAttack(r.world.Kites[i], now, r.tuning)
	if !ok {
		return protocol.Input{}, false
	}
	active := true
	d := game.InputDelta{
		PlayerID:       r.selfID,
		AttackActive:   &active,
		AttackEndTime:  &k.AttackEndTime,
		AttackCooldown: &k.AttackCooldown,
	}
	r.world.Kites = game.ApplyDelta(r.world.Kites, d)
	return protocol.InputFromDelta(d), true
}

// HostLost marks the match as lost for this participant.
func (r *Replica) HostLost() {
	r.mu.Lock()
	r.lost = true
	r.mu.Unlock()
}

// Status evaluates the match for the own kite. A lost host counts as defeat.
func (r *Replica) Status() game.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lost {
		return game.StatusDefeat
	}
	return game.Evaluate(r.world.Kites, r.selfID)
}

// World returns a copy of the current view.
func (r *Replica) World() game.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.Clone()
}

func (r *Replica) Self() (game.Kite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selfLocked()
}

// Message returns the last announcement seen, if any. Snapshots only carry
// an announcement on the broadcast right after a cut, so it stays until the
// next cut replaces it.
func (r *Replica) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

func (r *Replica) selfLocked() (game.Kite, bool) {
	i := game.IndexOf(r.world.Kites, r.selfID)
	if i < 0 {
		return game.Kite{}, false
	}
	return r.world.Kites[i], true
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
