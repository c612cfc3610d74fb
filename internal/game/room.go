// internal/game/room.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/board"
	"github.com/ludoworld/ludo-service/internal/models"
)

// Config carries the tunable timings and economics of a room.
type Config struct {
	TurnTimeout      time.Duration
	StartDelay       time.Duration
	BotThinkDelay    time.Duration
	CommissionRate   float64
	TwoSeatDuration  time.Duration
	FourSeatDuration time.Duration
}

// DefaultConfig mirrors the production quick-play build.
func DefaultConfig() Config {
	return Config{
		TurnTimeout:      20 * time.Second,
		StartDelay:       1 * time.Second,
		BotThinkDelay:    1200 * time.Millisecond,
		CommissionRate:   0.10,
		TwoSeatDuration:  8 * time.Minute,
		FourSeatDuration: 15 * time.Minute,
	}
}

// maxMissedTurns is how many consecutive deadlines a human seat may miss
// before being removed. Bots are never removed this way.
const maxMissedTurns = 3

// Room is the authoritative per-room state machine. Every mutation runs under
// Mu for the whole load-mutate-store sequence; at most one mutation is in
// flight per room at any time. Timers re-acquire Mu and validate the turn
// generation counter before acting, so stale firings are no-ops.
type Room struct {
	Doc models.RoomDoc
	Mu  sync.Mutex

	cfg    Config
	active bool // ACTIVE state: game-started broadcast, turns running

	// turnID increments on every turn announcement and invalidates any timer
	// or bot callback armed for an earlier turn.
	turnID     int
	turnTimer  *time.Timer
	startTimer *time.Timer
	gameTimer  *time.Timer

	// rollFn draws a uniform value in [1, n]. Replaced in tests.
	rollFn func(n int) int

	Ledger  Ledger
	Store   Store
	Journal JournalFn

	// BroadcastFn sends an event to every seat in the room.
	BroadcastFn func(ev RoomEvent)
	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID string, ev RoomEvent)
	// OnTeardown is invoked exactly once, after settlement or when the room
	// empties, so the registry and matchmaker can forget the room.
	OnTeardown func(roomID string)
	// OnGameStarted receives the human player ids when the room goes active,
	// for lifetime stat bookkeeping outside the engine.
	OnGameStarted func(playerIDs []string)

	log *logrus.Entry
}

// NewRoom builds a room in the WAITING state with every field set.
func NewRoom(roomID string, mode models.Mode, seatLimit int, bet int64, cfg Config, logger *logrus.Logger) *Room {
	if logger == nil {
		logger = logrus.New()
	}
	return &Room{
		Doc: models.RoomDoc{
			RoomID:           roomID,
			Mode:             mode,
			SeatLimit:        seatLimit,
			Bet:              bet,
			Seats:            []models.Seat{},
			CurrentSeatIndex: 0,
			ConsecutiveSixes: []int{},
			CreatedAt:        time.Now(),
		},
		cfg:    cfg,
		rollFn: func(n int) int { return rand.Intn(n) + 1 },
		log:    logger.WithField("room", roomID),
	}
}

// SetRollFn replaces the dice source, for deterministic tests.
func (r *Room) SetRollFn(fn func(n int) int) { r.rollFn = fn }

// fireEvent broadcasts to all seats and journals the action. Lock held.
func (r *Room) fireEvent(actorID string, ev RoomEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
	if r.Journal != nil {
		r.Journal(r.Doc.RoomID, actorID, string(ev.Type), ev.Payload)
	}
}

// fireEventToPlayer sends a private event to one player. Lock held.
func (r *Room) fireEventToPlayer(playerID string, ev RoomEvent) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(playerID, ev)
	}
}

// cloneDoc snapshots the document so a failed persist can roll the in-memory
// mutation back. Seats hold value-typed token arrays, so a slice copy is a
// full copy.
func (r *Room) cloneDoc() models.RoomDoc {
	snap := r.Doc
	snap.Seats = append([]models.Seat(nil), r.Doc.Seats...)
	snap.ConsecutiveSixes = append([]int(nil), r.Doc.ConsecutiveSixes...)
	return snap
}

// persistOrRevert saves the document; on failure it restores the snapshot so
// the room is left exactly as the store last successfully persisted it.
func (r *Room) persistOrRevert(ctx context.Context, snap models.RoomDoc) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.SaveRoom(ctx, &r.Doc); err != nil {
		r.log.WithError(err).Error("room persist failed, reverting mutation")
		r.Doc = snap
		return fmt.Errorf("%w: persist room: %v", ErrServer, err)
	}
	return nil
}

// persistBestEffort saves after a timer-driven transition. Timer transitions
// never surface as client errors.
func (r *Room) persistBestEffort() {
	if r.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Store.SaveRoom(ctx, &r.Doc); err != nil {
		r.log.WithError(err).Warn("room persist failed after timer transition")
	}
}

// seatIndexOf returns the slice index of the seat occupied by playerID, -1 if
// absent. Lock held.
func (r *Room) seatIndexOf(playerID string) int {
	for i := range r.Doc.Seats {
		if r.Doc.Seats[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) humanCount() int {
	n := 0
	for i := range r.Doc.Seats {
		if !r.Doc.Seats[i].IsBot {
			n++
		}
	}
	return n
}

// rosterPayload is the seat list included in join/leave notifications.
func (r *Room) rosterPayload() []map[string]interface{} {
	seats := make([]map[string]interface{}, 0, len(r.Doc.Seats))
	for i := range r.Doc.Seats {
		s := &r.Doc.Seats[i]
		seats = append(seats, map[string]interface{}{
			"seatId":      s.SeatID,
			"playerId":    s.PlayerID,
			"displayName": s.DisplayName,
			"picUrl":      s.PicURL,
			"isBot":       s.IsBot,
			"score":       s.Score,
			"tokens":      s.Tokens,
		})
	}
	return seats
}

// Join debits the room's fixed bet from the player and appends a seat. The
// room's bet is authoritative; a client-supplied stake is never consulted.
func (r *Room) Join(ctx context.Context, playerID, displayName, picURL string) (int, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.GameOver {
		return 0, ErrRoomNotFound
	}
	if r.Doc.Started {
		return 0, ErrGameAlreadyStarted
	}
	if len(r.Doc.Seats) >= r.Doc.SeatLimit {
		return 0, ErrRoomFull
	}
	if r.seatIndexOf(playerID) >= 0 {
		return 0, ErrAlreadyInRoom
	}

	if err := r.Ledger.Debit(ctx, playerID, r.Doc.Bet); err != nil {
		return 0, err
	}

	snap := r.cloneDoc()
	seatID := len(r.Doc.Seats)
	r.Doc.Seats = append(r.Doc.Seats, models.Seat{
		SeatID:      seatID,
		PlayerID:    playerID,
		DisplayName: displayName,
		PicURL:      picURL,
	})
	r.Doc.ConsecutiveSixes = append(r.Doc.ConsecutiveSixes, 0)
	r.Doc.StakeCount++

	if err := r.persistOrRevert(ctx, snap); err != nil {
		// The debit already happened; hand the stake back so the wallet is
		// not left holding an unseated stake.
		if cerr := r.Ledger.Credit(ctx, playerID, r.Doc.Bet); cerr != nil {
			r.log.WithError(cerr).Error("stake refund failed after persist error")
		}
		return 0, err
	}

	r.fireEvent(playerID, RoomEvent{
		Type: EventPlayerJoined,
		Payload: map[string]interface{}{
			"roomId":    r.Doc.RoomID,
			"seatLimit": r.Doc.SeatLimit,
			"players":   r.rosterPayload(),
		},
	})

	// The host alone may issue start once a second seat fills.
	if len(r.Doc.Seats) == 2 {
		r.fireEventToPlayer(r.Doc.Seats[0].PlayerID, RoomEvent{
			Type: EventReadyToStart,
			Payload: map[string]interface{}{
				"roomId":  r.Doc.RoomID,
				"players": r.rosterPayload(),
			},
		})
	}
	return seatID, nil
}

// AddBot fills one seat with a bot. Bots never stake. Lock acquired.
func (r *Room) AddBot(ctx context.Context, botID, displayName, picURL string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.Started || r.Doc.GameOver {
		return ErrGameAlreadyStarted
	}
	if len(r.Doc.Seats) >= r.Doc.SeatLimit {
		return ErrRoomFull
	}

	snap := r.cloneDoc()
	r.Doc.Seats = append(r.Doc.Seats, models.Seat{
		SeatID:      len(r.Doc.Seats),
		PlayerID:    botID,
		DisplayName: displayName,
		PicURL:      picURL,
		IsBot:       true,
	})
	r.Doc.ConsecutiveSixes = append(r.Doc.ConsecutiveSixes, 0)
	if err := r.persistOrRevert(ctx, snap); err != nil {
		return err
	}

	r.fireEvent(botID, RoomEvent{
		Type: EventPlayerJoined,
		Payload: map[string]interface{}{
			"roomId":    r.Doc.RoomID,
			"seatLimit": r.Doc.SeatLimit,
			"players":   r.rosterPayload(),
		},
	})
	return nil
}

// Start transitions WAITING to ACTIVE. Only the seat-0 occupant may start;
// force bypasses the host and minimum-seat checks for fill-deadline starts.
func (r *Room) Start(ctx context.Context, requesterID string, force bool) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.GameOver {
		return ErrRoomNotFound
	}
	if r.Doc.Started {
		return ErrGameAlreadyStarted
	}
	if len(r.Doc.Seats) < 2 {
		return ErrMinimumSeatsNotMet
	}
	if !force {
		if r.Doc.Seats[0].PlayerID != requesterID {
			return ErrNotHost
		}
		if r.Doc.SeatLimit == 4 && len(r.Doc.Seats) < 3 {
			return ErrMinimumSeatsNotMet
		}
	}

	snap := r.cloneDoc()
	r.Doc.Started = true
	if err := r.persistOrRevert(ctx, snap); err != nil {
		return err
	}

	r.fireEvent(requesterID, RoomEvent{
		Type: EventGameWillStart,
		Payload: map[string]interface{}{
			"roomId":  r.Doc.RoomID,
			"bet":     r.Doc.Bet,
			"startIn": r.cfg.StartDelay.Milliseconds(),
		},
	})

	r.startTimer = time.AfterFunc(r.cfg.StartDelay, r.beginActive)
	return nil
}

// beginActive fires after the start delay: broadcasts game-started with the
// payout preview, arms the game-duration deadline, and announces seat 0.
func (r *Room) beginActive() {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.GameOver || r.active || !r.Doc.Started {
		return
	}
	r.active = true
	r.startTimer = nil

	r.fireEvent("", RoomEvent{
		Type: EventGameStarted,
		Payload: map[string]interface{}{
			"roomId":  r.Doc.RoomID,
			"players": r.rosterPayload(),
			"payout":  r.payout(),
			"entries": board.Entries(r.Doc.SeatLimit),
		},
	})

	duration := r.cfg.FourSeatDuration
	if r.Doc.SeatLimit == 2 {
		duration = r.cfg.TwoSeatDuration
	}
	r.gameTimer = time.AfterFunc(duration, r.handleGameDeadline)

	if r.OnGameStarted != nil {
		var humans []string
		for i := range r.Doc.Seats {
			if !r.Doc.Seats[i].IsBot {
				humans = append(humans, r.Doc.Seats[i].PlayerID)
			}
		}
		go r.OnGameStarted(humans)
	}

	r.announceTurnLocked()
}

// announceTurnLocked starts a fresh turn sub-cycle for the current seat:
// resets the per-turn flags, bumps the turn generation, rearms the inactivity
// deadline (cancel-before-reschedule, never additive), and emits the active
// seat. Lock held.
func (r *Room) announceTurnLocked() {
	if r.Doc.GameOver || !r.active || len(r.Doc.Seats) == 0 {
		return
	}
	if r.Doc.CurrentSeatIndex < 0 || r.Doc.CurrentSeatIndex >= len(r.Doc.Seats) {
		r.Doc.CurrentSeatIndex = 0
	}

	r.Doc.HasRolled = false
	r.Doc.HasMoved = false
	r.turnID++

	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	turnID := r.turnID
	r.turnTimer = time.AfterFunc(r.cfg.TurnTimeout, func() { r.handleTurnDeadline(turnID) })

	seat := &r.Doc.Seats[r.Doc.CurrentSeatIndex]
	r.fireEvent("", RoomEvent{
		Type: EventCurrentTurn,
		Payload: map[string]interface{}{
			"roomId":      r.Doc.RoomID,
			"seatId":      seat.SeatID,
			"playerId":    seat.PlayerID,
			"displayName": seat.DisplayName,
			"isBot":       seat.IsBot,
			"deadlineMs":  r.cfg.TurnTimeout.Milliseconds(),
		},
	})

	if seat.IsBot {
		r.scheduleBotTurn(turnID)
	}
}

// advanceTurnLocked moves the turn pointer to the next occupied seat in seat
// order, wrapping, and re-announces. Lock held.
func (r *Room) advanceTurnLocked() {
	if r.Doc.GameOver || len(r.Doc.Seats) == 0 {
		return
	}
	r.Doc.CurrentSeatIndex = (r.Doc.CurrentSeatIndex + 1) % len(r.Doc.Seats)
	r.announceTurnLocked()
}

// RollDice draws the current seat's dice value under the anti-cheat policy.
func (r *Room) RollDice(ctx context.Context, playerID string) (int, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	idx := r.seatIndexOf(playerID)
	if idx < 0 {
		return 0, ErrRoomNotFound
	}
	if !r.active || r.Doc.GameOver {
		return 0, ErrInvalidMoveState
	}
	if idx != r.Doc.CurrentSeatIndex {
		return 0, ErrNotYourTurn
	}
	return r.rollLocked(ctx, idx)
}

// rollLocked performs the draw, counter update, broadcast, and the auto-pass
// when the roll leaves the seat with no legal move. Lock held.
func (r *Room) rollLocked(ctx context.Context, idx int) (int, error) {
	if r.Doc.HasRolled {
		return 0, ErrInvalidMoveState
	}

	snap := r.cloneDoc()
	seat := &r.Doc.Seats[idx]

	value := r.rollFn(6)
	// A seat is capped at two consecutive sixes: with the counter at the cap
	// a drawn six is redrawn from [1,5].
	if value == 6 && r.Doc.ConsecutiveSixes[idx] >= 2 {
		value = r.rollFn(5)
	}
	if value == 6 {
		r.Doc.ConsecutiveSixes[idx]++
	} else {
		r.Doc.ConsecutiveSixes[idx] = 0
	}

	r.Doc.LastDiceValue = value
	r.Doc.HasRolled = true
	seat.MissedTurns = 0

	if err := r.persistOrRevert(ctx, snap); err != nil {
		return 0, err
	}

	r.fireEvent(seat.PlayerID, RoomEvent{
		Type: EventDiceRolled,
		Payload: map[string]interface{}{
			"roomId":   r.Doc.RoomID,
			"seatId":   seat.SeatID,
			"playerId": seat.PlayerID,
			"value":    value,
		},
	})

	if len(legalMoves(seat, value)) == 0 {
		// Nothing can move on this roll; the turn passes without retention
		// even on a six.
		r.advanceTurnLocked()
	}
	return value, nil
}

// MoveToken applies a validated token move: capture resolution, score deltas,
// and turn retention or advance.
func (r *Room) MoveToken(ctx context.Context, playerID string, tokenIdx, to int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	idx := r.seatIndexOf(playerID)
	if idx < 0 {
		return ErrRoomNotFound
	}
	if !r.active || r.Doc.GameOver {
		return ErrInvalidMoveState
	}
	if idx != r.Doc.CurrentSeatIndex {
		return ErrNotYourTurn
	}
	return r.moveLocked(ctx, idx, tokenIdx, to)
}

// moveLocked is the shared human/bot move path. Lock held.
func (r *Room) moveLocked(ctx context.Context, idx, tokenIdx, to int) error {
	if !r.Doc.HasRolled || r.Doc.HasMoved {
		return ErrInvalidMoveState
	}
	if tokenIdx < 0 || tokenIdx >= board.TokensPerSeat {
		return ErrInvalidMoveState
	}

	seat := &r.Doc.Seats[idx]
	from := seat.Tokens[tokenIdx]
	dice := r.Doc.LastDiceValue

	dest, ok := legalDest(from, dice)
	if !ok || dest != to {
		return ErrInvalidMoveState
	}

	snap := r.cloneDoc()

	kills := r.resolveKills(idx, to)

	seat.Tokens[tokenIdx] = to
	seat.Score += to - from
	if to == board.Home {
		seat.Score += homeBonus
	}
	for _, k := range kills {
		victim := &r.Doc.Seats[k.seatIdx]
		victim.Tokens[k.tokenIdx] = 0
		victim.Score -= k.position
		if victim.Score < 0 {
			victim.Score = 0
		}
	}
	r.Doc.HasMoved = true

	if err := r.persistOrRevert(ctx, snap); err != nil {
		return err
	}

	r.fireEvent(seat.PlayerID, RoomEvent{
		Type: EventTokenMoved,
		Payload: map[string]interface{}{
			"roomId":   r.Doc.RoomID,
			"seatId":   seat.SeatID,
			"playerId": seat.PlayerID,
			"token":    tokenIdx,
			"from":     from,
			"to":       to,
			"dice":     dice,
			"score":    seat.Score,
		},
	})
	for _, k := range kills {
		victim := &r.Doc.Seats[k.seatIdx]
		r.fireEvent(seat.PlayerID, RoomEvent{
			Type: EventTokenKilled,
			Payload: map[string]interface{}{
				"roomId":       r.Doc.RoomID,
				"bySeatId":     seat.SeatID,
				"victimSeatId": victim.SeatID,
				"victimToken":  k.tokenIdx,
				"position":     k.position,
				"victimScore":  victim.Score,
			},
		})
	}

	if allTokensHome(seat) {
		r.settleLocked(ctx, idx, ReasonAllHome)
		return nil
	}

	// The mover keeps the turn on a six or a capture; otherwise it passes to
	// the next occupied seat.
	if dice == 6 || len(kills) > 0 {
		r.announceTurnLocked()
	} else {
		r.advanceTurnLocked()
	}
	return nil
}

// Leave removes a player's seat. Disconnects are delivered through the same
// path; they are an implicit leave, not an error state.
func (r *Room) Leave(ctx context.Context, playerID string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	idx := r.seatIndexOf(playerID)
	if idx < 0 {
		return ErrRoomNotFound
	}
	if r.Doc.GameOver {
		return nil
	}

	wasCurrent := r.removeSeatLocked(idx, EventPlayerLeft)
	r.afterDepartureLocked(ctx, wasCurrent)
	return nil
}

// removeSeatLocked splices the seat out, fixes the turn pointer, and emits
// the departure event. It reports whether the departed seat held the turn;
// it does not decide what happens next. Lock held.
func (r *Room) removeSeatLocked(idx int, ev RoomEventType) bool {
	seat := r.Doc.Seats[idx]
	wasCurrent := idx == r.Doc.CurrentSeatIndex

	r.Doc.Seats = append(r.Doc.Seats[:idx], r.Doc.Seats[idx+1:]...)
	r.Doc.ConsecutiveSixes = append(r.Doc.ConsecutiveSixes[:idx], r.Doc.ConsecutiveSixes[idx+1:]...)

	if idx < r.Doc.CurrentSeatIndex {
		r.Doc.CurrentSeatIndex--
	}
	if len(r.Doc.Seats) > 0 {
		r.Doc.CurrentSeatIndex %= len(r.Doc.Seats)
	} else {
		r.Doc.CurrentSeatIndex = 0
	}

	r.fireEvent(seat.PlayerID, RoomEvent{
		Type: ev,
		Payload: map[string]interface{}{
			"roomId":      r.Doc.RoomID,
			"seatId":      seat.SeatID,
			"playerId":    seat.PlayerID,
			"displayName": seat.DisplayName,
			"players":     r.rosterPayload(),
		},
	})
	return wasCurrent
}

// afterDepartureLocked runs the terminal checks shared by leave, disconnect,
// and inactivity removal. The turn is re-announced only when the departed
// seat held it. Lock held.
func (r *Room) afterDepartureLocked(ctx context.Context, wasCurrent bool) {
	if r.Doc.GameOver {
		return
	}

	// Empty room: tear down with no payout.
	if len(r.Doc.Seats) == 0 {
		r.teardownLocked(ctx, ReasonAbandoned, nil)
		return
	}

	if !r.Doc.Started {
		r.persistBestEffort()
		return
	}

	// All remaining seats are bots: no winner, no payout.
	if r.humanCount() == 0 {
		r.teardownLocked(ctx, ReasonNoHumans, nil)
		return
	}

	// Sole remaining seat wins by default, regardless of board progress.
	if len(r.Doc.Seats) == 1 {
		r.settleLocked(ctx, 0, ReasonLastSeat)
		return
	}

	r.persistBestEffort()
	if r.active && wasCurrent {
		r.announceTurnLocked()
	}
}

// handleTurnDeadline fires when the current seat lets its inactivity deadline
// expire. Stale timers (superseded turn, settled room) are no-ops.
func (r *Room) handleTurnDeadline(turnID int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.GameOver || !r.active || turnID != r.turnID {
		return
	}
	if len(r.Doc.Seats) == 0 || r.Doc.CurrentSeatIndex >= len(r.Doc.Seats) {
		return
	}

	idx := r.Doc.CurrentSeatIndex
	seat := &r.Doc.Seats[idx]
	seat.MissedTurns++

	r.log.WithFields(logrus.Fields{
		"seat":   seat.SeatID,
		"missed": seat.MissedTurns,
	}).Info("turn deadline expired")

	r.fireEvent(seat.PlayerID, RoomEvent{
		Type: EventTurnSkipped,
		Payload: map[string]interface{}{
			"roomId":      r.Doc.RoomID,
			"seatId":      seat.SeatID,
			"playerId":    seat.PlayerID,
			"missedTurns": seat.MissedTurns,
		},
	})

	if !seat.IsBot && seat.MissedTurns >= maxMissedTurns {
		wasCurrent := r.removeSeatLocked(idx, EventPlayerRemoved)
		r.afterDepartureLocked(context.Background(), wasCurrent)
		return
	}

	r.persistBestEffort()
	r.advanceTurnLocked()
}

// handleGameDeadline fires when the game-duration clock runs out: the seat
// with the highest score wins, ties resolved by seat order.
func (r *Room) handleGameDeadline() {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Doc.GameOver || !r.active {
		return
	}
	r.settleLocked(context.Background(), r.scoreLeaderLocked(), ReasonTimeLimit)
}

// scoreLeaderLocked returns the index of the first seat with the maximal
// score. Lock held.
func (r *Room) scoreLeaderLocked() int {
	best := 0
	for i := range r.Doc.Seats {
		if r.Doc.Seats[i].Score > r.Doc.Seats[best].Score {
			best = i
		}
	}
	return best
}

// stopTimersLocked cancels every live deadline so nothing fires against a
// room that has moved on. Lock held.
func (r *Room) stopTimersLocked() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	if r.gameTimer != nil {
		r.gameTimer.Stop()
		r.gameTimer = nil
	}
}

func allTokensHome(seat *models.Seat) bool {
	for _, t := range seat.Tokens {
		if t != board.Home {
			return false
		}
	}
	return true
}

// legalDest computes where a token at from lands on the given dice value.
// Base tokens enter only on a six, landing on relative 1; track and stretch
// tokens advance by the dice value and may not overshoot home.
func legalDest(from, dice int) (int, bool) {
	if from == board.Home {
		return 0, false // finished tokens are immutable
	}
	if from == 0 {
		if dice != board.EntryRoll {
			return 0, false
		}
		return 1, true
	}
	to := from + dice
	if to > board.Home {
		return 0, false
	}
	return to, true
}

// legalMoves lists the token indices that can move on the given dice value.
func legalMoves(seat *models.Seat, dice int) []int {
	var moves []int
	for i, pos := range seat.Tokens {
		if _, ok := legalDest(pos, dice); ok {
			moves = append(moves, i)
		}
	}
	return moves
}
