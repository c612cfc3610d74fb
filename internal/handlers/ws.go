// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/models"
)

// WSHandler upgrades the connection, resolves the player, registers the
// socket, and runs the intent read loop until the client goes away. A
// dropped connection is an implicit leave-room.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication runs before the upgrade: a fresh guest needs its
		// session cookie set on the handshake response.
		player, recoveryToken, err := EnsureGuestPlayer(w, r)
		if err != nil {
			s.Logger.WithError(err).Warn("player authentication failed")
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"ludo"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			s.Logger.WithError(err).Warn("websocket accept failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		if c.Subprotocol() != "ludo" {
			c.Close(websocket.StatusPolicyViolation, "client must use the 'ludo' subprotocol")
			return
		}

		playerID := player.ID.String()
		s.register(playerID, c)
		s.Logger.WithFields(map[string]interface{}{
			"player": playerID,
			"remote": r.RemoteAddr,
		}).Info("player connected")

		s.sendWelcome(r.Context(), c, player, recoveryToken)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		s.readIntents(ctx, c, playerID)

		// Read loop exited: the connection is gone. Treat it as a leave.
		s.unregister(playerID, c)
		if _, inRoom := s.Registry.RoomByPlayer(playerID); inRoom {
			// Only leave if this socket was not superseded by a reconnect.
			if s.connFor(playerID) == nil {
				if err := s.Matchmaker.LeaveRoom(context.Background(), playerID); err != nil && err != game.ErrRoomNotFound {
					s.Logger.WithError(err).WithField("player", playerID).Warn("implicit leave failed")
				}
			}
		}
		s.Logger.WithField("player", playerID).Info("player disconnected")
	}
}

// sendWelcome delivers the session snapshot, including the one-time recovery
// token for a freshly created guest.
func (s *Server) sendWelcome(ctx context.Context, c *websocket.Conn, player *models.Player, recoveryToken string) {
	payload := map[string]interface{}{
		"playerId":    player.ID.String(),
		"displayName": player.DisplayName,
		"wallet":      player.Wallet,
	}
	if recoveryToken != "" {
		payload["recoveryToken"] = recoveryToken
	}
	s.writeJSON(ctx, c, map[string]interface{}{
		"type":    "welcome",
		"payload": payload,
	})
}

// readIntents is the per-connection read loop. Each intent is validated,
// routed, and answered; a rejected intent never mutates room state.
func (s *Server) readIntents(ctx context.Context, c *websocket.Conn, playerID string) {
	log := s.Logger.WithField("player", playerID)
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Info("websocket closed")
			} else if strings.Contains(err.Error(), "context canceled") {
				log.Info("websocket context canceled")
			} else {
				log.WithError(err).Warn("websocket read error")
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var intent models.Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			s.sendError(ctx, c, "", "BadRequest", "invalid JSON")
			continue
		}

		if intent.Type == "ping" {
			s.writeJSON(ctx, c, map[string]string{"type": "pong"})
			continue
		}

		if err := s.dispatch(ctx, c, playerID, intent); err != nil {
			log.WithError(err).WithField("intent", intent.Type).Info("intent rejected")
			kind := game.Kind(err)
			message := err.Error()
			if kind == "ServerError" {
				// Internal detail stays in the logs.
				message = "internal server error"
			}
			s.sendError(ctx, c, intent.Type, kind, message)
		}
	}
}

// dispatch routes one intent to the matchmaker or the player's room.
func (s *Server) dispatch(ctx context.Context, c *websocket.Conn, playerID string, intent models.Intent) error {
	p := intent.Payload
	displayName := payloadString(p, "displayName")
	if displayName == "" {
		displayName = "Guest"
	}
	picURL := payloadString(p, "picUrl")

	switch intent.Type {
	case models.IntentCreateRoom:
		bet, _ := payloadInt64(p, "bet")
		seatLimit, ok := payloadInt(p, "seatLimit")
		if !ok {
			seatLimit = 4
		}
		// The room-created notification reaches the host through the room's
		// private broadcast path.
		_, err := s.Matchmaker.CreatePrivateRoom(ctx, playerID, displayName, picURL, bet, seatLimit)
		return err

	case models.IntentJoinRoom:
		roomID := payloadString(p, "roomId")
		if roomID == "" {
			return fmt.Errorf("%w: missing roomId", game.ErrRoomNotFound)
		}
		seatID, err := s.Matchmaker.JoinRoom(ctx, strings.ToUpper(roomID), playerID, displayName, picURL)
		if err != nil {
			return err
		}
		s.writeJSON(ctx, c, map[string]interface{}{
			"type":    "room-joined",
			"payload": map[string]interface{}{"roomId": strings.ToUpper(roomID), "seatId": seatID},
		})
		return nil

	case models.IntentJoinPublicQueue:
		bet, _ := payloadInt64(p, "bet")
		mode := models.Mode(payloadString(p, "mode"))
		roomID, err := s.Matchmaker.JoinPublicQueue(ctx, playerID, displayName, picURL, bet, mode)
		if err != nil {
			return err
		}
		s.writeJSON(ctx, c, map[string]interface{}{
			"type":    "queue-joined",
			"payload": map[string]interface{}{"roomId": roomID},
		})
		return nil

	case models.IntentStartRoom:
		roomID := payloadString(p, "roomId")
		return s.Matchmaker.StartGame(ctx, strings.ToUpper(roomID), playerID)

	case models.IntentRollDice:
		room, ok := s.Registry.RoomByPlayer(playerID)
		if !ok {
			return game.ErrRoomNotFound
		}
		_, err := room.RollDice(ctx, playerID)
		return err

	case models.IntentMoveToken:
		room, ok := s.Registry.RoomByPlayer(playerID)
		if !ok {
			return game.ErrRoomNotFound
		}
		tokenIdx, okToken := payloadInt(p, "tokenIndex")
		dest, okDest := payloadInt(p, "destination")
		if !okToken || !okDest {
			return game.ErrInvalidMoveState
		}
		return room.MoveToken(ctx, playerID, tokenIdx, dest)

	case models.IntentLeaveRoom:
		return s.Matchmaker.LeaveRoom(ctx, playerID)

	default:
		return fmt.Errorf("%w: unknown intent type %q", game.ErrServer, intent.Type)
	}
}

func (s *Server) writeJSON(ctx context.Context, c *websocket.Conn, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		s.Logger.WithError(err).Error("failed to marshal ws message")
		return
	}
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		s.Logger.WithError(err).Debug("ws write failed")
	}
}

// sendError reports a rejected intent with its stable error kind.
func (s *Server) sendError(ctx context.Context, c *websocket.Conn, intentType, kind, message string) {
	s.writeJSON(ctx, c, map[string]interface{}{
		"type": "error",
		"payload": map[string]interface{}{
			"intent":  intentType,
			"kind":    kind,
			"message": message,
		},
	})
}
