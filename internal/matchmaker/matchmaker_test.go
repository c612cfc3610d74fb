// internal/matchmaker/matchmaker_test.go
package matchmaker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/models"
)

type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func (l *fakeLedger) Debit(_ context.Context, playerID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[playerID] < amount {
		return game.ErrInsufficientBalance
	}
	l.balances[playerID] -= amount
	return nil
}

func (l *fakeLedger) Credit(_ context.Context, playerID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] += amount
	return nil
}

func (l *fakeLedger) RecordWin(_ context.Context, playerID string, amount int64) error {
	return l.Credit(nil, playerID, amount)
}

func (l *fakeLedger) balance(playerID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[playerID]
}

type fakeStore struct {
	mu   sync.Mutex
	docs map[string]models.RoomDoc
}

func newFakeStore() *fakeStore { return &fakeStore{docs: make(map[string]models.RoomDoc)} }

func (s *fakeStore) SaveRoom(_ context.Context, doc *models.RoomDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.RoomID] = *doc
	return nil
}

func (s *fakeStore) LoadRoom(_ context.Context, roomID string) (*models.RoomDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[roomID]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return &doc, nil
}

func (s *fakeStore) DeleteRoom(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, roomID)
	return nil
}

func testMatchmaker(balances map[string]int64) (*Matchmaker, *fakeLedger, *game.Registry) {
	cfg := DefaultConfig()
	cfg.FillWait = time.Hour // fill deadlines are driven directly in tests
	cfg.Room.StartDelay = time.Millisecond
	cfg.Room.TurnTimeout = time.Hour
	cfg.Room.BotThinkDelay = time.Hour

	ledger := &fakeLedger{balances: balances}
	registry := game.NewRegistry()
	m := New(cfg, registry, ledger, newFakeStore(), nil, nil)
	return m, ledger, registry
}

func TestRoomCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := newRoomCode()
		require.Len(t, code, 6)
		hasLetter, hasDigit := false, false
		for _, c := range code {
			switch {
			case c >= 'A' && c <= 'Z':
				hasLetter = true
			case c >= '0' && c <= '9':
				hasDigit = true
			default:
				t.Fatalf("unexpected character %q in room code %q", c, code)
			}
		}
		assert.True(t, hasLetter, "code %q needs a letter", code)
		assert.True(t, hasDigit, "code %q needs a digit", code)
	}
}

func TestCreatePrivateRoomDebitsHost(t *testing.T) {
	m, ledger, registry := testMatchmaker(map[string]int64{"host": 500})
	ctx := context.Background()

	roomID, err := m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(400), ledger.balance("host"))

	r, ok := registry.GetRoom(roomID)
	require.True(t, ok)
	assert.Equal(t, models.ModePrivate, r.Doc.Mode)
	assert.Equal(t, "host", r.Doc.Seats[0].PlayerID)

	_, err = m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	assert.ErrorIs(t, err, game.ErrAlreadyInRoom)
}

func TestCreatePrivateRoomValidation(t *testing.T) {
	m, ledger, _ := testMatchmaker(map[string]int64{"host": 50})
	ctx := context.Background()

	_, err := m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 3)
	assert.ErrorIs(t, err, game.ErrServer)

	_, err = m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	assert.ErrorIs(t, err, game.ErrInsufficientBalance)
	assert.Equal(t, int64(50), ledger.balance("host"))
}

func TestJoinRoomByCode(t *testing.T) {
	m, _, _ := testMatchmaker(map[string]int64{"host": 500, "p1": 500})
	ctx := context.Background()

	roomID, err := m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	require.NoError(t, err)

	seatID, err := m.JoinRoom(ctx, roomID, "p1", "P1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, seatID)

	_, err = m.JoinRoom(ctx, "ZZ99ZZ", "p1", "P1", "")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestPublicQueueSharesPendingRoom(t *testing.T) {
	m, _, registry := testMatchmaker(map[string]int64{"p0": 500, "p1": 500, "p2": 500})
	ctx := context.Background()

	roomA, err := m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic4)
	require.NoError(t, err)
	roomB, err := m.JoinPublicQueue(ctx, "p1", "P1", "", 100, models.ModePublic4)
	require.NoError(t, err)
	assert.Equal(t, roomA, roomB, "same (mode, bet) shares the pending room")

	// A different stake opens a separate pending room.
	roomC, err := m.JoinPublicQueue(ctx, "p2", "P2", "", 250, models.ModePublic4)
	require.NoError(t, err)
	assert.NotEqual(t, roomA, roomC)

	r, ok := registry.GetRoom(roomA)
	require.True(t, ok)
	assert.Len(t, r.Doc.Seats, 2)
}

func TestPublicQueueStartsWhenFull(t *testing.T) {
	m, _, registry := testMatchmaker(map[string]int64{"p0": 500, "p1": 500, "p2": 500})
	ctx := context.Background()

	roomA, err := m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic2)
	require.NoError(t, err)
	roomB, err := m.JoinPublicQueue(ctx, "p1", "P1", "", 100, models.ModePublic2)
	require.NoError(t, err)
	require.Equal(t, roomA, roomB)

	r, ok := registry.GetRoom(roomA)
	require.True(t, ok)
	r.Mu.Lock()
	started := r.Doc.Started
	r.Mu.Unlock()
	assert.True(t, started, "filling the last seat starts the game")

	// The pool entry is cleared, so the next joiner opens a fresh room.
	roomC, err := m.JoinPublicQueue(ctx, "p2", "P2", "", 100, models.ModePublic2)
	require.NoError(t, err)
	assert.NotEqual(t, roomA, roomC)
}

func TestPublicQueueRejections(t *testing.T) {
	m, _, _ := testMatchmaker(map[string]int64{"p0": 500})
	ctx := context.Background()

	_, err := m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePrivate)
	assert.ErrorIs(t, err, game.ErrServer)

	_, err = m.JoinPublicQueue(ctx, "p0", "P0", "", 0, models.ModePublic2)
	assert.ErrorIs(t, err, game.ErrServer)

	_, err = m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic2)
	require.NoError(t, err)
	_, err = m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic2)
	assert.ErrorIs(t, err, game.ErrAlreadyInRoom)
}

func TestFillDeadlineFillsWithBotsAndStarts(t *testing.T) {
	m, _, registry := testMatchmaker(map[string]int64{"p0": 500})
	ctx := context.Background()

	roomID, err := m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic4)
	require.NoError(t, err)

	m.handleFillDeadline(poolKey{mode: models.ModePublic4, bet: 100}, roomID)

	r, ok := registry.GetRoom(roomID)
	require.True(t, ok)
	r.Mu.Lock()
	defer r.Mu.Unlock()
	assert.Len(t, r.Doc.Seats, 4)
	assert.True(t, r.Doc.Started)
	assert.Equal(t, 1, r.Doc.StakeCount, "bots do not stake")
	bots := 0
	for _, s := range r.Doc.Seats {
		if s.IsBot {
			bots++
		}
	}
	assert.Equal(t, 3, bots)
}

func TestFillDeadlineOnAbandonedRoomForgetsIt(t *testing.T) {
	m, _, registry := testMatchmaker(map[string]int64{"p0": 500})
	ctx := context.Background()

	roomID, err := m.JoinPublicQueue(ctx, "p0", "P0", "", 100, models.ModePublic4)
	require.NoError(t, err)
	require.NoError(t, m.LeaveRoom(ctx, "p0"))

	m.handleFillDeadline(poolKey{mode: models.ModePublic4, bet: 100}, roomID)
	// Teardown unregisters asynchronously.
	assert.Eventually(t, func() bool {
		_, ok := registry.GetRoom(roomID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestLeaveRoomUnbindsPlayer(t *testing.T) {
	m, _, _ := testMatchmaker(map[string]int64{"host": 500})
	ctx := context.Background()

	_, err := m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	require.NoError(t, err)
	require.NoError(t, m.LeaveRoom(ctx, "host"))

	_, err = m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	require.NoError(t, err)
}

func TestStartGameForwardsHostChecks(t *testing.T) {
	m, _, registry := testMatchmaker(map[string]int64{"host": 500, "p1": 500})
	ctx := context.Background()

	roomID, err := m.CreatePrivateRoom(ctx, "host", "Host", "", 100, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, m.StartGame(ctx, roomID, "host"), game.ErrMinimumSeatsNotMet)

	_, err = m.JoinRoom(ctx, roomID, "p1", "P1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, m.StartGame(ctx, roomID, "p1"), game.ErrNotHost)
	require.NoError(t, m.StartGame(ctx, roomID, "host"))

	r, _ := registry.GetRoom(roomID)
	assert.True(t, r.Doc.Started)
}