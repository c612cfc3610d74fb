// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/matchmaker"
)

// Server owns the live WebSocket connections and routes intents into the
// matchmaker and room engine. One connection per player; a newer connection
// replaces the older one.
type Server struct {
	Logger     *logrus.Logger
	Matchmaker *matchmaker.Matchmaker
	Registry   *game.Registry

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

func NewServer(logger *logrus.Logger, mm *matchmaker.Matchmaker, registry *game.Registry) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		Logger:     logger,
		Matchmaker: mm,
		Registry:   registry,
		conns:      make(map[string]*websocket.Conn),
	}
	// Rooms broadcast through the server's connection table.
	mm.Wire = s.wireRoom
	return s
}

func (s *Server) register(playerID string, c *websocket.Conn) {
	s.mu.Lock()
	old := s.conns[playerID]
	s.conns[playerID] = c
	s.mu.Unlock()
	if old != nil && old != c {
		old.Close(websocket.StatusPolicyViolation, "superseded by a newer connection")
	}
}

// unregister drops the mapping only if it still points at this connection, so
// a reconnect that already replaced it is untouched.
func (s *Server) unregister(playerID string, c *websocket.Conn) {
	s.mu.Lock()
	if s.conns[playerID] == c {
		delete(s.conns, playerID)
	}
	s.mu.Unlock()
}

func (s *Server) connFor(playerID string) *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[playerID]
}

// sendToPlayer writes one marshaled event to a player's connection, if any.
// Writes run on their own goroutine with a timeout so a slow client never
// blocks the engine.
func (s *Server) sendToPlayer(playerID string, data []byte) {
	c := s.connFor(playerID)
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			s.Logger.WithError(err).WithField("player", playerID).Debug("ws write failed")
		}
	}()
}

// wireRoom attaches the broadcast functions to a freshly created room. Both
// callbacks run while the room lock is held, so they read the roster
// directly and hand the writes off to goroutines.
func (s *Server) wireRoom(r *game.Room) {
	r.BroadcastFn = func(ev game.RoomEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.WithError(err).WithField("event", ev.Type).Error("failed to marshal broadcast")
			return
		}
		for i := range r.Doc.Seats {
			seat := &r.Doc.Seats[i]
			if seat.IsBot {
				continue
			}
			s.sendToPlayer(seat.PlayerID, data)
		}
	}
	r.BroadcastToPlayerFn = func(playerID string, ev game.RoomEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.WithError(err).WithField("event", ev.Type).Error("failed to marshal private event")
			return
		}
		s.sendToPlayer(playerID, data)
	}
}
