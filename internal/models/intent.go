// internal/models/intent.go
package models

// Intent is one client-submitted event delivered by the connection gateway.
type Intent struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Intent type names accepted from the gateway.
const (
	IntentCreateRoom      = "create-room"
	IntentJoinRoom        = "join-room"
	IntentStartRoom       = "start-room"
	IntentJoinPublicQueue = "join-public-queue"
	IntentRollDice        = "roll-dice"
	IntentMoveToken       = "move-token"
	IntentLeaveRoom       = "leave-room"
)
