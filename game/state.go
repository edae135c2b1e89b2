package game

// Internal truth authoritative game state

type State struct {
	Tick  int
	Kites []Kite
	Pecha Pecha
	Wind  Vec2
}

// NewState returns an empty world with the initial wind.
func NewState(t Tuning) State {
	return State{Kites: []Kite{}, Wind: t.InitialWind}
}

// NewPracticeState builds a practice world: one human kite at the centre
// anchor and the given number of bots.
func NewPracticeState(humanID, humanName string, bots int, t Tuning) State {
	s := NewState(t)
	s.Kites = append(s.Kites, NewPlayerKite(humanID, humanName, AnchorCenter, t))
	for i := 0; i < bots; i++ {
		s.Kites = append(s.Kites, NewBotKite(i, t))
	}
	return s
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	kites := make([]Kite, len(s.Kites))
	copy(kites, s.Kites)
	s.Kites = kites
	return s
}
