package game

// Tether is the string from a kite's ground anchor to the kite itself. It is
// the object of collision tests, not the kite body.
type Tether struct {
	Anchor Vec2
	Kite   Vec2
}

// AnchorPoint returns the fixed ground point of a given anchor slot.
func (t Tuning) AnchorPoint(slot int) Vec2 {
	if slot == AnchorCenter {
		return Vec2{t.Width / 2, t.Height}
	}
	slots := t.AnchorSlots
	if slots <= 0 {
		slots = AnchorSlots
	}
	if slot < 0 {
		slot = -slot
	}
	return Vec2{t.Width / float64(slots+1) * float64(slot%slots+1), t.Height}
}

func (t Tuning) TetherOf(k Kite) Tether {
	return Tether{Anchor: t.AnchorPoint(k.AnchorSlot), Kite: k.Pos}
}

// Cross returns where two tethers cross, if they do. Tethers sharing a
// ground anchor only touch at the ground and never cross.
func (a Tether) Cross(b Tether) (Vec2, bool) {
	if a.Anchor == b.Anchor {
		return Vec2{}, false
	}
	return SegmentIntersect(a.Anchor, a.Kite, b.Anchor, b.Kite)
}
