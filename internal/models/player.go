// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is a row in the players table. Wallet mutation goes through the
// wallet ledger, never through direct field writes.
type Player struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	PicURL      string    `json:"picUrl"`
	Wallet      int64     `json:"wallet"`
	WinCoin     int64     `json:"winCoin"`
	GamesPlayed int       `json:"gamesPlayed"`
	IsEphemeral bool      `json:"isEphemeral"`

	// TokenHash is the argon2id hash of the session token issued at account
	// creation. Never serialized to clients.
	TokenHash string `json:"-"`
}
