// internal/database/players.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ludoworld/ludo-service/internal/models"
)

var ErrPlayerNotFound = errors.New("player not found")

// CreatePlayer inserts a new player row. Guest accounts arrive with
// IsEphemeral set and a starting wallet balance.
func CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate player id: %w", err)
		}
		player.ID = id
	}

	q := `INSERT INTO players (id, display_name, pic_url, wallet, win_coin, games_played, is_ephemeral, token_hash)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			player.ID, player.DisplayName, player.PicURL,
			player.Wallet, player.WinCoin, player.GamesPlayed,
			player.IsEphemeral, player.TokenHash,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func GetPlayerByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	q := `
	SELECT id, display_name, pic_url, wallet, win_coin, games_played, is_ephemeral, token_hash
	FROM players
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.DisplayName, &p.PicURL,
		&p.Wallet, &p.WinCoin, &p.GamesPlayed,
		&p.IsEphemeral, &p.TokenHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlayerProfile changes the mutable display fields.
func UpdatePlayerProfile(ctx context.Context, id uuid.UUID, displayName, picURL string) error {
	q := `UPDATE players SET display_name=$2, pic_url=$3 WHERE id=$1`
	tag, err := DB.Exec(ctx, q, id, displayName, picURL)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// IncrementGamesPlayed bumps the lifetime game counter for every human seat
// of a started room.
func IncrementGamesPlayed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q := `UPDATE players SET games_played = games_played + 1 WHERE id = ANY($1)`
	if _, err := DB.Exec(ctx, q, ids); err != nil {
		return fmt.Errorf("failed to bump games played: %w", err)
	}
	return nil
}
