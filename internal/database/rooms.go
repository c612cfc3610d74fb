// internal/database/rooms.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/models"
)

// RoomStore persists each room document whole as JSONB, one row per room.
// The engine serializes per-room writes, so a plain upsert is sufficient.
type RoomStore struct{}

func NewRoomStore() *RoomStore { return &RoomStore{} }

func (s *RoomStore) SaveRoom(ctx context.Context, doc *models.RoomDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room %s: %w", doc.RoomID, err)
	}

	q := `
	INSERT INTO rooms (room_id, doc, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (room_id) DO UPDATE SET doc=$2, updated_at=now()
	`
	if _, err := DB.Exec(ctx, q, doc.RoomID, payload); err != nil {
		return fmt.Errorf("failed to upsert room %s: %w", doc.RoomID, err)
	}
	return nil
}

func (s *RoomStore) LoadRoom(ctx context.Context, roomID string) (*models.RoomDoc, error) {
	var payload []byte
	err := DB.QueryRow(ctx, `SELECT doc FROM rooms WHERE room_id=$1`, roomID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc models.RoomDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room %s: %w", roomID, err)
	}
	return &doc, nil
}

func (s *RoomStore) DeleteRoom(ctx context.Context, roomID string) error {
	if _, err := DB.Exec(ctx, `DELETE FROM rooms WHERE room_id=$1`, roomID); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", roomID, err)
	}
	return nil
}
