// internal/matchmaker/matchmaker.go
package matchmaker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/models"
)

// Config carries the matchmaker's tunables.
type Config struct {
	// FillWait is how long a pending public room waits for humans before the
	// remaining seats are filled with bots and the game is force-started.
	FillWait time.Duration
	Room     game.Config
}

func DefaultConfig() Config {
	return Config{
		FillWait: 15 * time.Second,
		Room:     game.DefaultConfig(),
	}
}

// poolKey identifies one public waiting pool. Rooms are only shared between
// players who asked for the exact same mode and stake.
type poolKey struct {
	mode models.Mode
	bet  int64
}

type pendingRoom struct {
	roomID    string
	fillTimer *time.Timer
}

// Matchmaker creates rooms, routes public joiners into pending rooms keyed by
// (mode, bet), and force-starts pending rooms with bot fill when the wait
// window closes. The pool has its own mutex, independent of any room's lock.
type Matchmaker struct {
	cfg      Config
	registry *game.Registry
	ledger   game.Ledger
	store    game.Store
	journal  game.JournalFn
	log      *logrus.Logger

	// Wire is invoked for every new room before its first join so the gateway
	// can attach broadcast functions.
	Wire func(r *game.Room)
	// Stats, when set, receives the human roster of every room that goes
	// active.
	Stats func(playerIDs []string)

	mu      sync.Mutex
	pending map[poolKey]*pendingRoom
}

func New(cfg Config, registry *game.Registry, ledger game.Ledger, store game.Store, journal game.JournalFn, log *logrus.Logger) *Matchmaker {
	if log == nil {
		log = logrus.New()
	}
	return &Matchmaker{
		cfg:      cfg,
		registry: registry,
		ledger:   ledger,
		store:    store,
		journal:  journal,
		log:      log,
		pending:  make(map[poolKey]*pendingRoom),
	}
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newRoomCode draws a 6-character code with at least one letter and at least
// one digit, so codes are never mistaken for plain numbers or words.
func newRoomCode() string {
	for {
		b := make([]byte, 6)
		hasLetter, hasDigit := false, false
		for i := range b {
			c := roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
			b[i] = c
			if c >= 'A' && c <= 'Z' {
				hasLetter = true
			} else {
				hasDigit = true
			}
		}
		if hasLetter && hasDigit {
			return string(b)
		}
	}
}

// newRoom assembles a fully wired room and registers it.
func (m *Matchmaker) newRoom(mode models.Mode, seatLimit int, bet int64) *game.Room {
	roomID := newRoomCode()
	for {
		if _, taken := m.registry.GetRoom(roomID); !taken {
			break
		}
		roomID = newRoomCode()
	}

	r := game.NewRoom(roomID, mode, seatLimit, bet, m.cfg.Room, m.log)
	r.Ledger = m.ledger
	r.Store = m.store
	r.Journal = m.journal
	r.OnTeardown = m.forgetRoom
	r.OnGameStarted = func(playerIDs []string) {
		if m.Stats != nil {
			m.Stats(playerIDs)
		}
	}
	if m.Wire != nil {
		m.Wire(r)
	}
	m.registry.AddRoom(r)
	return r
}

// forgetRoom clears every map entry for a settled or emptied room.
func (m *Matchmaker) forgetRoom(roomID string) {
	m.mu.Lock()
	for key, p := range m.pending {
		if p.roomID == roomID {
			p.fillTimer.Stop()
			delete(m.pending, key)
		}
	}
	m.mu.Unlock()
	m.registry.DeleteRoom(roomID)
}

// CreatePrivateRoom opens an invite-only room and seats the host. The host's
// stake is debited before the room document is first persisted; a failed
// debit aborts creation entirely.
func (m *Matchmaker) CreatePrivateRoom(ctx context.Context, hostID, displayName, picURL string, bet int64, seatLimit int) (string, error) {
	if _, busy := m.registry.RoomByPlayer(hostID); busy {
		return "", game.ErrAlreadyInRoom
	}
	if seatLimit != 2 && seatLimit != 4 {
		return "", fmt.Errorf("%w: seat limit must be 2 or 4", game.ErrServer)
	}
	if bet <= 0 {
		return "", fmt.Errorf("%w: bet must be positive", game.ErrServer)
	}

	r := m.newRoom(models.ModePrivate, seatLimit, bet)
	if _, err := r.Join(ctx, hostID, displayName, picURL); err != nil {
		m.registry.DeleteRoom(r.Doc.RoomID)
		return "", err
	}
	if err := m.registry.BindPlayer(hostID, r.Doc.RoomID); err != nil {
		return "", err
	}

	m.fireRoomCreated(r, hostID)
	return r.Doc.RoomID, nil
}

func (m *Matchmaker) fireRoomCreated(r *game.Room, hostID string) {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	r.BroadcastToPlayerFn(hostID, game.RoomEvent{
		Type: game.EventRoomCreated,
		Payload: map[string]interface{}{
			"roomId":    r.Doc.RoomID,
			"bet":       r.Doc.Bet,
			"seatLimit": r.Doc.SeatLimit,
			"mode":      string(r.Doc.Mode),
		},
	})
}

// JoinRoom seats a player in a known room by its code.
func (m *Matchmaker) JoinRoom(ctx context.Context, roomID, playerID, displayName, picURL string) (int, error) {
	if existing, busy := m.registry.RoomByPlayer(playerID); busy && existing.Doc.RoomID != roomID {
		return 0, game.ErrAlreadyInRoom
	}
	r, ok := m.registry.GetRoom(roomID)
	if !ok {
		return 0, game.ErrRoomNotFound
	}
	seatID, err := r.Join(ctx, playerID, displayName, picURL)
	if err != nil {
		return 0, err
	}
	if err := m.registry.BindPlayer(playerID, roomID); err != nil {
		return 0, err
	}
	return seatID, nil
}

// JoinPublicQueue places a player into the waiting pool for (mode, bet). A
// pending unstarted room with space is reused; otherwise a new one opens with
// a fill deadline. Filling the last seat starts the game immediately.
func (m *Matchmaker) JoinPublicQueue(ctx context.Context, playerID, displayName, picURL string, bet int64, mode models.Mode) (string, error) {
	if mode != models.ModePublic2 && mode != models.ModePublic4 {
		return "", fmt.Errorf("%w: unknown public mode %q", game.ErrServer, mode)
	}
	if bet <= 0 {
		return "", fmt.Errorf("%w: bet must be positive", game.ErrServer)
	}
	if _, busy := m.registry.RoomByPlayer(playerID); busy {
		return "", game.ErrAlreadyInRoom
	}

	key := poolKey{mode: mode, bet: bet}

	// The pool entry is resolved under the pool lock; the seat itself is
	// taken under the room's own lock afterwards. A joiner who loses the
	// race for the last seat falls through and opens a fresh pending room.
	for {
		m.mu.Lock()
		p, ok := m.pending[key]
		var r *game.Room
		if ok {
			r, ok = m.registry.GetRoom(p.roomID)
			if !ok {
				p.fillTimer.Stop()
				delete(m.pending, key)
			}
		}
		if !ok {
			r = m.newRoom(mode, mode.SeatLimit(), bet)
			roomID := r.Doc.RoomID
			p = &pendingRoom{
				roomID:    roomID,
				fillTimer: time.AfterFunc(m.cfg.FillWait, func() { m.handleFillDeadline(key, roomID) }),
			}
			m.pending[key] = p
		}
		m.mu.Unlock()

		seatID, err := r.Join(ctx, playerID, displayName, picURL)
		switch {
		case err == nil:
			if berr := m.registry.BindPlayer(playerID, r.Doc.RoomID); berr != nil {
				return "", berr
			}
			if seatID == r.Doc.SeatLimit-1 {
				m.clearPending(key, r.Doc.RoomID)
				if serr := r.Start(ctx, "", true); serr != nil {
					m.log.WithError(serr).WithField("room", r.Doc.RoomID).Warn("full public room failed to start")
				}
			}
			return r.Doc.RoomID, nil
		case err == game.ErrRoomFull || err == game.ErrGameAlreadyStarted:
			// Stale pool entry: the room filled or started between the pool
			// lookup and the join. Drop it and retry with a fresh room.
			m.clearPending(key, r.Doc.RoomID)
		default:
			return "", err
		}
	}
}

// clearPending removes the pool entry for roomID and cancels its fill timer.
func (m *Matchmaker) clearPending(key poolKey, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pending[key]; ok && p.roomID == roomID {
		p.fillTimer.Stop()
		delete(m.pending, key)
	}
}

// handleFillDeadline fires when a pending public room's wait window closes:
// remaining seats are filled with bots and the game is force-started. A solo
// waiter still gets a game, against bots only.
func (m *Matchmaker) handleFillDeadline(key poolKey, roomID string) {
	m.clearPending(key, roomID)

	r, ok := m.registry.GetRoom(roomID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.Mu.Lock()
	started, over := r.Doc.Started, r.Doc.GameOver
	missing := r.Doc.SeatLimit - len(r.Doc.Seats)
	occupied := len(r.Doc.Seats)
	r.Mu.Unlock()
	if started || over {
		return
	}
	if occupied == 0 {
		// Everyone left while waiting; nothing to start.
		m.forgetRoom(roomID)
		return
	}

	for i := 0; i < missing; i++ {
		botID, name, pic := game.NewBotIdentity(occupied + i)
		if err := r.AddBot(ctx, botID, name, pic); err != nil {
			m.log.WithError(err).WithField("room", roomID).Warn("bot fill failed")
			break
		}
	}

	if err := r.Start(ctx, "", true); err != nil {
		m.log.WithError(err).WithField("room", roomID).Warn("fill-deadline start failed")
	}
}

// StartGame forwards a host's start request to the room.
func (m *Matchmaker) StartGame(ctx context.Context, roomID, requesterID string) error {
	r, ok := m.registry.GetRoom(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}
	err := r.Start(ctx, requesterID, false)
	if err == nil && r.Doc.Mode != models.ModePrivate {
		m.clearPendingByRoom(roomID)
	}
	return err
}

func (m *Matchmaker) clearPendingByRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, p := range m.pending {
		if p.roomID == roomID {
			p.fillTimer.Stop()
			delete(m.pending, key)
		}
	}
}

// LeaveRoom removes the player from whichever room they occupy. Disconnects
// are routed through here as implicit leaves.
func (m *Matchmaker) LeaveRoom(ctx context.Context, playerID string) error {
	r, ok := m.registry.RoomByPlayer(playerID)
	if !ok {
		return game.ErrRoomNotFound
	}
	err := r.Leave(ctx, playerID)
	m.registry.UnbindPlayer(playerID)
	return err
}
