// internal/game/registry.go
package game

import (
	"sync"
)

// Registry holds every live room in memory and an index from player to the
// room they occupy. A player occupies at most one room at a time.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	byPlayer map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		byPlayer: make(map[string]string),
	}
}

func (s *Registry) AddRoom(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.Doc.RoomID] = r
}

func (s *Registry) GetRoom(roomID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	return r, ok
}

func (s *Registry) DeleteRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	for playerID, rid := range s.byPlayer {
		if rid == roomID {
			delete(s.byPlayer, playerID)
		}
	}
}

// BindPlayer records the player's occupancy. It fails when the player is
// already bound to a different live room.
func (s *Registry) BindPlayer(playerID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byPlayer[playerID]; ok && existing != roomID {
		if _, live := s.rooms[existing]; live {
			return ErrAlreadyInRoom
		}
	}
	s.byPlayer[playerID] = roomID
	return nil
}

func (s *Registry) UnbindPlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPlayer, playerID)
}

// RoomByPlayer returns the live room the player occupies, if any.
func (s *Registry) RoomByPlayer(playerID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid, ok := s.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	r, ok := s.rooms[rid]
	return r, ok
}

// Rooms returns a snapshot of the live rooms.
func (s *Registry) Rooms() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}
