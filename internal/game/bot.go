// internal/game/bot.go
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ludoworld/ludo-service/internal/board"
)

var botNames = []string{"Ravi", "Meera", "Arjun", "Priya", "Kiran", "Asha", "Dev", "Nisha"}

// NewBotIdentity returns an id, display name, and avatar for a filler seat.
// Bot ids carry a fixed prefix so they can never collide with player uuids.
func NewBotIdentity(seatOrdinal int) (id, displayName, picURL string) {
	name := botNames[seatOrdinal%len(botNames)]
	return "bot-" + uuid.NewString(), name, fmt.Sprintf("https://api.dicebear.com/9.x/bottts/svg?seed=%s", name)
}

// scheduleBotTurn arms the bot's roll for the turn identified by turnID. The
// callback re-acquires the lock and validates turnID so a fire that races a
// deadline, a leave, or settlement becomes a no-op. Lock held by the caller.
func (r *Room) scheduleBotTurn(turnID int) {
	time.AfterFunc(r.cfg.BotThinkDelay, func() { r.botRoll(turnID) })
}

func (r *Room) botRoll(turnID int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if turnID != r.turnID || !r.active || r.Doc.GameOver {
		return
	}
	idx := r.Doc.CurrentSeatIndex
	if idx < 0 || idx >= len(r.Doc.Seats) || !r.Doc.Seats[idx].IsBot {
		return
	}

	ctx := context.Background()
	if _, err := r.rollLocked(ctx, idx); err != nil {
		r.log.WithError(err).Warn("bot roll failed")
		r.advanceTurnLocked()
		return
	}

	// rollLocked auto-passes when nothing can move; the pass bumped turnID.
	if turnID != r.turnID || !r.Doc.HasRolled || r.Doc.HasMoved {
		return
	}
	time.AfterFunc(r.cfg.BotThinkDelay, func() { r.botMove(turnID) })
}

func (r *Room) botMove(turnID int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if turnID != r.turnID || !r.active || r.Doc.GameOver {
		return
	}
	idx := r.Doc.CurrentSeatIndex
	if idx < 0 || idx >= len(r.Doc.Seats) || !r.Doc.Seats[idx].IsBot {
		return
	}
	if !r.Doc.HasRolled || r.Doc.HasMoved {
		return
	}

	tokenIdx, dest, ok := r.chooseBotMove(idx, r.Doc.LastDiceValue)
	if !ok {
		r.advanceTurnLocked()
		return
	}
	if err := r.moveLocked(context.Background(), idx, tokenIdx, dest); err != nil {
		r.log.WithError(err).Warn("bot move failed")
		r.advanceTurnLocked()
	}
}

// chooseBotMove picks among the legal moves: enter from base on a six, finish
// a token, capture, otherwise any forward move. legalMoves yields ascending
// token indices, so the first option in a category is the lowest-index one and
// that is the tie-break.
func (r *Room) chooseBotMove(idx, dice int) (tokenIdx, dest int, ok bool) {
	seat := &r.Doc.Seats[idx]

	type option struct {
		token, dest int
	}
	var enter, finish, capture, advance []option
	for _, ti := range legalMoves(seat, dice) {
		to, _ := legalDest(seat.Tokens[ti], dice)
		opt := option{token: ti, dest: to}
		switch {
		case seat.Tokens[ti] == 0:
			enter = append(enter, opt)
		case to == board.Home:
			finish = append(finish, opt)
		case len(r.resolveKills(idx, to)) > 0:
			capture = append(capture, opt)
		default:
			advance = append(advance, opt)
		}
	}

	for _, opts := range [][]option{enter, finish, capture, advance} {
		if len(opts) > 0 {
			return opts[0].token, opts[0].dest, true
		}
	}
	return 0, 0, false
}
