// internal/game/settlement.go
package game

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// homeBonus is awarded for bringing a token home (relative 56).
const homeBonus = 50

// Reasons a room settles or tears down, carried in the game-over payload.
const (
	ReasonAllHome   = "all-tokens-home"
	ReasonTimeLimit = "time-limit"
	ReasonLastSeat  = "last-seat-standing"
	ReasonNoHumans  = "no-humans-left"
	ReasonAbandoned = "room-empty"
)

// pot is the total stake collected from all seats that actually debited a
// wallet. Bots never stake.
func (r *Room) pot() int64 {
	return r.Doc.Bet * int64(r.Doc.StakeCount)
}

// payout is the pot minus the house commission, computed from the same inputs
// every time so the game-started preview matches the settlement credit.
func (r *Room) payout() int64 {
	return int64(math.Round(float64(r.pot()) * (1 - r.cfg.CommissionRate)))
}

// settleLocked is the single settlement path: it flips gameOver exactly once,
// credits the winner's ledger, broadcasts game-over, and tears the room down.
// Every later-arriving trigger for the same room observes gameOver and
// no-ops, so ledger credit happens at most once per room. Lock held.
func (r *Room) settleLocked(ctx context.Context, winnerIdx int, reason string) {
	if r.Doc.GameOver {
		return
	}
	if winnerIdx < 0 || winnerIdx >= len(r.Doc.Seats) {
		r.teardownLocked(ctx, reason, nil)
		return
	}

	r.Doc.GameOver = true
	r.Doc.EndedAt = time.Now()
	r.stopTimersLocked()

	winner := r.Doc.Seats[winnerIdx]
	amount := r.payout()

	if !winner.IsBot && r.Ledger != nil {
		if err := r.Ledger.RecordWin(ctx, winner.PlayerID, amount); err != nil {
			// The room still settles; the credit is the ledger's to reconcile.
			r.log.WithError(err).WithFields(logrus.Fields{
				"winner": winner.PlayerID,
				"amount": amount,
			}).Error("winner credit failed")
		}
	}

	r.log.WithFields(logrus.Fields{
		"winner": winner.PlayerID,
		"reason": reason,
		"payout": amount,
	}).Info("room settled")

	r.fireEvent(winner.PlayerID, RoomEvent{
		Type: EventGameOver,
		Payload: map[string]interface{}{
			"roomId":      r.Doc.RoomID,
			"winnerSeat":  winner.SeatID,
			"winnerId":    winner.PlayerID,
			"displayName": winner.DisplayName,
			"isBot":       winner.IsBot,
			"reason":      reason,
			"payout":      amount,
			"scores":      r.rosterPayload(),
		},
	})

	r.deleteLocked(ctx)
}

// teardownLocked ends a room with no winner and no payout. Lock held.
func (r *Room) teardownLocked(ctx context.Context, reason string, payload map[string]interface{}) {
	if r.Doc.GameOver {
		return
	}
	r.Doc.GameOver = true
	r.Doc.EndedAt = time.Now()
	r.stopTimersLocked()

	r.log.WithField("reason", reason).Info("room torn down without winner")

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["roomId"] = r.Doc.RoomID
	payload["reason"] = reason
	payload["winnerId"] = ""
	r.fireEvent("", RoomEvent{Type: EventGameOver, Payload: payload})

	r.deleteLocked(ctx)
}

// deleteLocked removes the durable document and unregisters the room. No
// room instance outlives its gameOver transition plus settlement. Lock held.
func (r *Room) deleteLocked(ctx context.Context) {
	if r.Store != nil {
		if err := r.Store.DeleteRoom(ctx, r.Doc.RoomID); err != nil {
			r.log.WithError(err).Warn("failed to delete room document")
		}
	}
	if r.OnTeardown != nil {
		// Outside goroutine: teardown touches registries with their own
		// locks, never this room's state.
		go r.OnTeardown(r.Doc.RoomID)
	}
}
