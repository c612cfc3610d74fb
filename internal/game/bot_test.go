// internal/game/bot_test.go
package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludoworld/ludo-service/internal/board"
)

func TestNewBotIdentity(t *testing.T) {
	id, name, pic := NewBotIdentity(0)
	assert.True(t, strings.HasPrefix(id, "bot-"))
	assert.NotEmpty(t, name)
	assert.Contains(t, pic, name)

	id2, _, _ := NewBotIdentity(0)
	assert.NotEqual(t, id, id2, "bot ids are unique even for the same ordinal")
}

func TestChooseBotMovePriorities(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 2, []string{"p0"}, 100)
	require.NoError(t, r.AddBot(context.Background(), "bot-1", "Ravi", ""))

	r.Mu.Lock()
	defer r.Mu.Unlock()
	bot := &r.Doc.Seats[1]

	// Entering from base on a six beats even a finishing move.
	bot.Tokens = [4]int{50, 0, 0, 0}
	r.Doc.Seats[0].Tokens = [4]int{0, 0, 0, 0}
	token, dest, ok := r.chooseBotMove(1, 6)
	require.True(t, ok)
	assert.Equal(t, 1, token)
	assert.Equal(t, 1, dest)

	// With nothing in base, finishing comes first.
	bot.Tokens = [4]int{53, 10, 0, 0}
	token, dest, ok = r.chooseBotMove(1, 3)
	require.True(t, ok)
	assert.Equal(t, 0, token)
	assert.Equal(t, board.Home, dest)

	// A capture beats a plain advance. Bot relative 4 would land on ring
	// cell 29, which seat 0 occupies at relative 30.
	bot.Tokens = [4]int{1, 20, 0, 0}
	r.Doc.Seats[0].Tokens = [4]int{30, 0, 0, 0}
	token, dest, ok = r.chooseBotMove(1, 3)
	require.True(t, ok)
	assert.Equal(t, 0, token)
	assert.Equal(t, 4, dest)

	// Plain advances go to the lowest token index.
	bot.Tokens = [4]int{3, 10, 0, 0}
	r.Doc.Seats[0].Tokens = [4]int{0, 0, 0, 0}
	token, dest, ok = r.chooseBotMove(1, 4)
	require.True(t, ok)
	assert.Equal(t, 0, token)
	assert.Equal(t, 7, dest)

	// No move at all.
	bot.Tokens = [4]int{0, 0, 0, 0}
	_, _, ok = r.chooseBotMove(1, 3)
	assert.False(t, ok)
}

func TestBotPlaysItsTurn(t *testing.T) {
	r, _, _, mb := setupTestRoom(t, 2, []string{"p0"}, 100)
	require.NoError(t, r.AddBot(context.Background(), "bot-1", "Ravi", ""))
	// Human draws no entry; bot draws a six, enters, then draws again and
	// advances, passing the turn.
	dice := &diceQueue{values: []int{2, 6, 3}}
	r.SetRollFn(dice.roll)
	startRoom(t, r)

	_, err := r.RollDice(context.Background(), "p0")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		return r.Doc.Seats[1].Tokens[0] == 4 && r.Doc.CurrentSeatIndex == 0
	}, 2*time.Second, 5*time.Millisecond, "bot should enter on six, advance on three, then yield")

	moves := mb.eventsOfType(EventTokenMoved)
	require.Len(t, moves, 2)
	assert.Equal(t, "bot-1", moves[0].Payload["playerId"])
}

func TestBotRollIgnoresStaleTurn(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 2, []string{"p0"}, 100)
	require.NoError(t, r.AddBot(context.Background(), "bot-1", "Ravi", ""))
	cfg := testConfig()
	cfg.BotThinkDelay = time.Hour
	r.cfg = cfg
	startRoom(t, r)

	r.Mu.Lock()
	stale := r.turnID - 1
	hasRolled := r.Doc.HasRolled
	r.Mu.Unlock()

	r.botRoll(stale)

	r.Mu.Lock()
	defer r.Mu.Unlock()
	assert.Equal(t, hasRolled, r.Doc.HasRolled)
	assert.Equal(t, 0, r.Doc.CurrentSeatIndex)
}
