// internal/game/events.go
package game

import (
	"context"

	"github.com/ludoworld/ludo-service/internal/models"
)

// RoomEventType names a notification broadcast to a room.
type RoomEventType string

const (
	EventRoomCreated   RoomEventType = "room-created"
	EventPlayerJoined  RoomEventType = "player-joined"
	EventReadyToStart  RoomEventType = "ready-to-start"
	EventGameWillStart RoomEventType = "game-will-start"
	EventGameStarted   RoomEventType = "game-started"
	EventCurrentTurn   RoomEventType = "current-turn"
	EventDiceRolled    RoomEventType = "dice-rolled"
	EventTokenMoved    RoomEventType = "token-moved"
	EventTokenKilled   RoomEventType = "token-killed"
	EventTurnSkipped   RoomEventType = "turn-skipped"
	EventPlayerRemoved RoomEventType = "player-removed"
	EventPlayerLeft    RoomEventType = "player-left"
	EventGameOver      RoomEventType = "game-over"
)

// RoomEvent is one engine notification in a consistent broadcast format.
type RoomEvent struct {
	Type    RoomEventType          `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Ledger is the balance-mutation contract the engine depends on. The wallet's
// accounting trail is the ledger's own concern; the engine calls each method
// exactly once per logical event.
type Ledger interface {
	// Debit removes amount from the player's balance. Returns
	// ErrInsufficientBalance when the balance does not cover the amount.
	Debit(ctx context.Context, playerID string, amount int64) error
	// Credit adds amount to the player's balance.
	Credit(ctx context.Context, playerID string, amount int64) error
	// RecordWin credits the payout and increments the player's win stat.
	RecordWin(ctx context.Context, playerID string, amount int64) error
}

// Store is the durable per-room document store: load by id, save (replace),
// delete. Its transactional guarantees are the store's own concern.
type Store interface {
	SaveRoom(ctx context.Context, doc *models.RoomDoc) error
	LoadRoom(ctx context.Context, roomID string) (*models.RoomDoc, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

// JournalFn records one room action for the out-of-process history service.
// Implementations must not block the caller.
type JournalFn func(roomID, actorID, action string, payload map[string]interface{})
