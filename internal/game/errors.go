// internal/game/errors.go
package game

import "errors"

// Stable error kinds surfaced to the requesting connection. Validation
// failures never mutate room state; ErrServer covers unexpected store or
// ledger faults and likewise leaves the room exactly as it was.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room full")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrAlreadyInRoom       = errors.New("already in a room")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidMoveState    = errors.New("invalid move state")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotHost             = errors.New("only the host may start")
	ErrMinimumSeatsNotMet  = errors.New("minimum seats not met")
	ErrServer              = errors.New("server error")
)

// Kind maps an engine error to the stable wire identifier. Unknown errors are
// reported as ServerError, never with raw internal detail.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "RoomNotFound"
	case errors.Is(err, ErrRoomFull):
		return "RoomFull"
	case errors.Is(err, ErrGameAlreadyStarted):
		return "GameAlreadyStarted"
	case errors.Is(err, ErrAlreadyInRoom):
		return "AlreadyInRoom"
	case errors.Is(err, ErrNotYourTurn):
		return "NotYourTurn"
	case errors.Is(err, ErrInvalidMoveState):
		return "InvalidMoveState"
	case errors.Is(err, ErrInsufficientBalance):
		return "InsufficientBalance"
	case errors.Is(err, ErrNotHost):
		return "NotHost"
	case errors.Is(err, ErrMinimumSeatsNotMet):
		return "MinimumSeatsNotMet"
	default:
		return "ServerError"
	}
}
