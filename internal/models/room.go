// internal/models/room.go
package models

import "time"

// Mode selects how a room is filled and how many seats it carries.
type Mode string

const (
	// ModePrivate rooms are invite-only by room code; the creator picks the
	// seat limit.
	ModePrivate Mode = "private"
	// ModePublic2 and ModePublic4 rooms are filled from the public waiting
	// pool for their (mode, bet) key.
	ModePublic2 Mode = "public-2"
	ModePublic4 Mode = "public-4"
)

// SeatLimit returns the seat count a public mode fills to. Private rooms
// carry their own limit; this returns the 4-seat default for them.
func (m Mode) SeatLimit() int {
	if m == ModePublic2 {
		return 2
	}
	return 4
}

// Seat is one occupied position in a room. Tokens hold relative positions:
// 0 is base, 1..50 the outer track, 51..56 the home stretch with 56 home.
type Seat struct {
	SeatID      int    `json:"seatId"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	PicURL      string `json:"picUrl,omitempty"`
	IsBot       bool   `json:"isBot"`
	Tokens      [4]int `json:"tokens"`
	Score       int    `json:"score"`
	MissedTurns int    `json:"missedTurns"`
}

// RoomDoc is the authoritative room document, persisted whole on every
// mutation. The in-memory engine owns it; the store only loads and replaces.
type RoomDoc struct {
	RoomID    string `json:"roomId"`
	Mode      Mode   `json:"mode"`
	SeatLimit int    `json:"seatLimit"`
	Bet       int64  `json:"bet"`

	Seats []Seat `json:"seats"`

	Started  bool `json:"started"`
	GameOver bool `json:"gameOver"`

	CurrentSeatIndex int  `json:"currentSeatIndex"`
	LastDiceValue    int  `json:"lastDiceValue"`
	HasRolled        bool `json:"hasRolled"`
	HasMoved         bool `json:"hasMoved"`

	// ConsecutiveSixes is indexed in step with Seats.
	ConsecutiveSixes []int `json:"consecutiveSixes"`

	// StakeCount is the number of seats whose wallet debit succeeded. Bots
	// never stake, so the pot is Bet * StakeCount.
	StakeCount int `json:"stakeCount"`

	CreatedAt time.Time `json:"createdAt"`
	EndedAt   time.Time `json:"endedAt,omitempty"`
}
