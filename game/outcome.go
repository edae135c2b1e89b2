package game

type Status uint8

const (
	StatusReady Status = iota
	StatusPlaying
	StatusVictory
	StatusDefeat
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "READY"
	case StatusPlaying:
		return "PLAYING"
	case StatusVictory:
		return "VICTORY"
	case StatusDefeat:
		return "DEFEAT"
	}
	return "UNKNOWN"
}

// Evaluate decides the match for the side owning selfID: defeat the moment
// its kite is cut, victory once every opponent is cut while it is not.
func Evaluate(kites []Kite, selfID string) Status {
	i := IndexOf(kites, selfID)
	if i < 0 {
		return StatusReady
	}
	if kites[i].IsCut {
		return StatusDefeat
	}
	opponents := 0
	for _, k := range kites {
		if k.ID == selfID {
			continue
		}
		opponents++
		if !k.IsCut {
			return StatusPlaying
		}
	}
	if opponents == 0 {
		return StatusPlaying
	}
	return StatusVictory
}

// LiveCount returns how many kites are still flying.
func LiveCount(kites []Kite) int {
	n := 0
	for _, k := range kites {
		if k.Live() {
			n++
		}
	}
	return n
}
