package room

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/ttacon/chalk"

	"pecha/game"
	"pecha/protocol"
)

// Room is the authoritative side of one match. Everything below Inbox is
// owned by the Run goroutine.
type Room struct {
	Inbox          chan any
	tickHz         int
	broadcastEvery int
	opts           Options
	sim            *game.Sim
	state          game.State
	clients        map[string]Conn
	nextID         int
	joined         int
	players        atomic.Int32
	message        string
	over           bool
	emptySince     time.Time
	reaped         bool
	quit           chan struct{}

	Code    string            // room code (e.g. "ABC123")
	OnEmpty func(code string) // called when last player leaves
}

func New(opts Options) *Room {
	opts = opts.withDefaults()
	broadcastEvery := opts.TickHz / opts.BroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	r := &Room{
		Inbox:          make(chan any, 256),
		tickHz:         opts.TickHz,
		broadcastEvery: broadcastEvery,
		opts:           opts,
		sim:            game.NewSim(opts.Tuning, opts.Seed),
		state:          game.NewState(opts.Tuning),
		clients:        make(map[string]Conn),
		nextID:         1,
		quit:           make(chan struct{}),
	}
	if opts.Mode == ModePractice {
		for i := 0; i < opts.Bots; i++ {
			r.state.Kites = append(r.state.Kites, game.NewBotKite(i, opts.Tuning))
		}
	}
	return r
}

func (r *Room) Stop() {
	close(r.quit)
}

// Post delivers cmd to the room unless it has stopped.
func (r *Room) Post(cmd any) bool {
	select {
	case r.Inbox <- cmd:
		return true
	case <-r.quit:
		return false
	}
}

// Done is closed once the room stops.
func (r *Room) Done() <-chan struct{} {
	return r.quit
}

func (r *Room) Mode() Mode {
	return r.opts.Mode
}

// NumPlayers returns the current number of connected clients.
func (r *Room) NumPlayers() int {
	return int(r.players.Load())
}

func (r *Room) Capacity() int {
	return r.opts.MaxPlayers
}

func (r *Room) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	r.reapIfIdle()
	if !r.over && len(r.clients) > 0 {
		var cut *game.Cut
		r.state, cut = r.sim.Step(r.state, r.opts.Clock())
		if cut != nil {
			r.message = cut.Message
			logEvent(chalk.Yellow, "room %s: %s", r.Code, cut.Message)
		}
		r.checkOutcome()
	}
	if r.state.Tick%r.broadcastEvery == 0 || r.over {
		r.broadcastState()
	}
}

// reapIfIdle hands the room back to its owner once nobody has been connected
// for EmptyGrace. Rooms created up front and never joined end here too.
func (r *Room) reapIfIdle() {
	if len(r.clients) > 0 {
		r.emptySince = time.Time{}
		r.reaped = false
		return
	}
	now := r.opts.Clock()
	if r.emptySince.IsZero() {
		r.emptySince = now
		return
	}
	if r.reaped || r.OnEmpty == nil || r.Code == "" || now.Sub(r.emptySince) < r.opts.EmptyGrace {
		return
	}
	r.reaped = true
	log.Printf("room %s: empty for %s, closing", r.Code, now.Sub(r.emptySince).Round(time.Second))
	r.OnEmpty(r.Code)
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		c.Reply <- r.handleJoin(c)
	case Input:
		r.handleInput(c)
	case Leave:
		r.handleLeave(c.PlayerID)
	}
}

func (r *Room) handleJoin(c Join) JoinResult {
	if len(r.clients) >= r.opts.MaxPlayers {
		return JoinResult{Err: ErrRoomFull}
	}
	idNum := r.nextID
	playerID := fmt.Sprintf("p%d", idNum)
	r.nextID++

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = strings.ToUpper(petname.Generate(2, " "))
	}

	var kite game.Kite
	if r.opts.Mode == ModePractice {
		kite = game.NewPlayerKite(playerID, name, game.AnchorCenter, r.opts.Tuning)
	} else {
		kite = game.Spawn(playerID, name, r.joined, r.opts.Tuning)
	}
	r.joined++
	r.state.Kites = append(r.state.Kites, kite)
	r.clients[playerID] = c.Conn
	r.players.Store(int32(len(r.clients)))

	r.sendTo(c.Conn, protocol.MsgWelcome, protocol.Welcome{
		PlayerID: playerID,
		RoomCode: r.Code,
		Mode:     string(r.opts.Mode),
		TickHz:   r.tickHz,
	})
	r.sendStateTo(c.Conn)
	log.Printf("room %s: %s joined as %s (%d/%d)", r.Code, name, playerID, len(r.clients), r.opts.MaxPlayers)
	return JoinResult{PlayerID: playerID}
}

// handleInput applies a participant's delta to its own kite. Targets are
// clamped to the field and attack requests go through the host clock, so a
// participant cannot skip its cooldown.
func (r *Room) handleInput(c Input) {
	if _, ok := r.clients[c.PlayerID]; !ok || r.over {
		return
	}
	i := game.IndexOf(r.state.Kites, c.PlayerID)
	if i < 0 {
		return
	}
	kite := r.state.Kites[i]
	delta := game.InputDelta{PlayerID: c.PlayerID}

	switch {
	case c.Input.Stick != nil:
		target := game.SteerTarget(kite, game.Stick{X: c.Input.Stick.X, Y: c.Input.Stick.Y}, r.opts.Tuning)
		delta.TargetPos = &target
	case c.Input.TargetPos != nil:
		target := game.ClampTarget(c.Input.TargetPos.Vec2(), r.opts.Tuning)
		delta.TargetPos = &target
	}
	r.state.Kites = game.ApplyDelta(r.state.Kites, delta)

	if c.Input.AttackActive != nil && *c.Input.AttackActive {
		if k, ok := game.TriggerAttack(r.state.Kites[i], r.opts.Clock(), r.opts.Tuning); ok {
			r.state.Kites[i] = k
		}
	}
}

func (r *Room) handleLeave(playerID string) {
	c, ok := r.clients[playerID]
	r.state.Kites = game.Remove(r.state.Kites, playerID)
	if ok {
		r.sendStateTo(c)
		_ = c.Close()
		delete(r.clients, playerID)
		r.players.Store(int32(len(r.clients)))
		log.Printf("room %s: %s left (%d/%d)", r.Code, playerID, len(r.clients), r.opts.MaxPlayers)
	}
	if len(r.clients) == 0 && r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) removePlayer(playerID string) {
	if c, ok := r.clients[playerID]; ok {
		_ = c.Close()
	}
	delete(r.clients, playerID)
	r.players.Store(int32(len(r.clients)))
	r.state.Kites = game.Remove(r.state.Kites, playerID)
}

// checkOutcome ends the match. Practice ends on the human's victory or
// defeat; versus ends once at most one kite of two or more is still flying.
func (r *Room) checkOutcome() {
	kites := r.state.Kites
	switch r.opts.Mode {
	case ModePractice:
		for id := range r.clients {
			if st := game.Evaluate(kites, id); st == game.StatusVictory || st == game.StatusDefeat {
				r.finish()
				return
			}
		}
	default:
		if r.joined >= 2 && len(kites) >= 2 && game.LiveCount(kites) <= 1 {
			r.finish()
		}
	}
}

func (r *Room) finish() {
	r.over = true
	winner := ""
	for _, k := range r.state.Kites {
		if k.Live() {
			winner = k.ID
		}
	}
	for id, c := range r.clients {
		status := game.Evaluate(r.state.Kites, id)
		res := protocol.Result{Status: status.String(), WinnerID: winner, Message: r.message}
		if status == game.StatusPlaying {
			res.Status = "OVER"
		}
		r.sendTo(c, protocol.MsgResult, res)
	}
	logEvent(chalk.Green, "room %s: match over, winner %q", r.Code, winner)
}

func (r *Room) broadcastState() {
	snapshot := r.buildSnapshot()
	r.message = ""
	encoded := make(map[string][]byte, 2)

	var failed []string
	for id, c := range r.clients {
		codec := codecOf(c)
		b, ok := encoded[codec.Name()]
		if !ok {
			var err error
			b, err = protocol.EncodeWith(codec, protocol.MsgState, snapshot)
			if err != nil {
				return
			}
			encoded[codec.Name()] = b
		}
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.removePlayer(id)
	}
}

func (r *Room) sendStateTo(c Conn) {
	r.sendTo(c, protocol.MsgState, r.buildSnapshot())
}

func (r *Room) sendTo(c Conn, t string, payload any) {
	b, err := protocol.EncodeWith(codecOf(c), t, payload)
	if err != nil {
		return
	}
	_ = c.Send(b)
}

func (r *Room) buildSnapshot() protocol.State {
	return protocol.FromState(r.state, r.message)
}

func codecOf(c Conn) protocol.Codec {
	if cc, ok := c.(CodecConn); ok && cc.Codec() != nil {
		return cc.Codec()
	}
	return protocol.JSON
}

func logEvent(color chalk.Color, format string, args ...any) {
	log.Printf("%s"+format+"%s", append(append([]any{color}, args...), chalk.Reset)...)
}
