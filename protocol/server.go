package protocol

const Version = 1

type Welcome struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
	RoomCode string `json:"roomCode" msgpack:"roomCode"`
	Mode     string `json:"mode" msgpack:"mode"`
	TickHz   int    `json:"tickHz" msgpack:"tickHz"`
}

// State is the authoritative snapshot. Tick grows by one per simulation
// step and lets participants drop stale snapshots.
type State struct {
	Tick    int            `json:"tick" msgpack:"tick"`
	Kites   []KiteSnapshot `json:"kites" msgpack:"kites"`
	Pecha   PechaSnapshot  `json:"pecha" msgpack:"pecha"`
	Wind    Vec            `json:"wind" msgpack:"wind"`
	Message string         `json:"message,omitempty" msgpack:"message,omitempty"`
}

type Vec struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

type KiteSnapshot struct {
	ID             string  `json:"id" msgpack:"id"`
	Name           string  `json:"name" msgpack:"name"`
	Color          string  `json:"color" msgpack:"color"`
	AnchorSlot     int     `json:"anchorSlot" msgpack:"anchorSlot"`
	Pos            Vec     `json:"pos" msgpack:"pos"`
	Vel            Vec     `json:"vel" msgpack:"vel"`
	TargetPos      Vec     `json:"targetPos" msgpack:"targetPos"`
	Tension        float64 `json:"tension" msgpack:"tension"`
	Angle          float64 `json:"angle" msgpack:"angle"`
	IsCut          bool    `json:"isCut" msgpack:"isCut"`
	IsAI           bool    `json:"isAI" msgpack:"isAI"`
	AttackActive   bool    `json:"attackActive" msgpack:"attackActive"`
	AttackCooldown int64   `json:"attackCooldown" msgpack:"attackCooldown"` // unix ms
	AttackEndTime  int64   `json:"attackEndTime" msgpack:"attackEndTime"`   // unix ms
	Score          int     `json:"score" msgpack:"score"`
}

type PechaSnapshot struct {
	IsIntersecting   bool      `json:"isIntersecting" msgpack:"isIntersecting"`
	ContactStartTime *int64    `json:"contactStartTime" msgpack:"contactStartTime"` // unix ms, null without contact
	IntersectPoint   *Vec      `json:"intersectPoint" msgpack:"intersectPoint"`
	Kites            [2]string `json:"kites" msgpack:"kites"`
}

type Result struct {
	Status   string `json:"status" msgpack:"status"` // per receiver: VICTORY, DEFEAT, or OVER for spectators
	WinnerID string `json:"winnerId,omitempty" msgpack:"winnerId,omitempty"`
	Message  string `json:"message,omitempty" msgpack:"message,omitempty"`
}

type Error struct {
	Code    string `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
}

const (
	ErrCodeRoomFull     = "room_full"
	ErrCodeRoomNotFound = "room_not_found"
	ErrCodeBadHello     = "bad_hello"
)
