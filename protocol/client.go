package protocol

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

//input structs coming in from the client.

const MaxNameLen = 24

type Hello struct {
	V    int    `json:"v" msgpack:"v"`                           // version
	Name string `json:"name,omitempty" msgpack:"name,omitempty"` // optional name
}

// Input is the upstream delta of one participant. Every field is optional;
// only what is set gets merged into the participant's kite.
type Input struct {
	PlayerID       string `json:"playerId,omitempty" msgpack:"playerId,omitempty"`
	TargetPos      *Vec   `json:"targetPos,omitempty" msgpack:"targetPos,omitempty"`
	Stick          *Vec   `json:"stick,omitempty" msgpack:"stick,omitempty"` // joystick deflection, -1..1
	AttackActive   *bool  `json:"attackActive,omitempty" msgpack:"attackActive,omitempty"`
	AttackEndTime  *int64 `json:"attackEndTime,omitempty" msgpack:"attackEndTime,omitempty"`   // unix ms
	AttackCooldown *int64 `json:"attackCooldown,omitempty" msgpack:"attackCooldown,omitempty"` // unix ms
}

type Leave struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

func (h Hello) Validate() error {
	if h.V != Version {
		return fmt.Errorf("unsupported protocol version %d", h.V)
	}
	if utf8.RuneCountInString(h.Name) > MaxNameLen {
		return fmt.Errorf("name longer than %d characters", MaxNameLen)
	}
	if strings.ContainsAny(h.Name, "\n\r\t") {
		return fmt.Errorf("name contains control characters")
	}
	return nil
}

func (i Input) Validate() error {
	if i.TargetPos == nil && i.Stick == nil && i.AttackActive == nil &&
		i.AttackEndTime == nil && i.AttackCooldown == nil {
		return fmt.Errorf("input carries no field")
	}
	if i.TargetPos != nil && !i.TargetPos.finite() {
		return fmt.Errorf("targetPos is not finite")
	}
	if i.Stick != nil {
		if !i.Stick.finite() || math.Abs(i.Stick.X) > 1 || math.Abs(i.Stick.Y) > 1 {
			return fmt.Errorf("stick out of range: %v", *i.Stick)
		}
	}
	return nil
}
