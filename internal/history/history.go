// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for room action logs.
var DefaultQueueName = "ludo_actions"

// RoomActionRecord is one journaled room action, in the shape the history
// consumer reads off the queue.
type RoomActionRecord struct {
	RoomID        string                 `json:"room_id"`
	ActionIndex   int64                  `json:"action_index"`
	ActorID       string                 `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Connect initializes the global Redis client and verifies the connection.
func Connect(addr string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// Journal pushes room actions onto a Redis list for the out-of-process
// history consumer. Pushes happen on their own goroutine so the engine's
// critical section never waits on Redis.
type Journal struct {
	queue string
	log   *logrus.Logger
	seq   atomic.Int64
}

func NewJournal(queue string, log *logrus.Logger) *Journal {
	if queue == "" {
		queue = DefaultQueueName
	}
	if log == nil {
		log = logrus.New()
	}
	return &Journal{queue: queue, log: log}
}

// Record satisfies the engine's journal hook. Failures are logged and
// dropped; the journal is an audit trail, not a dependency of play.
func (j *Journal) Record(roomID, actorID, action string, payload map[string]interface{}) {
	rec := RoomActionRecord{
		RoomID:        roomID,
		ActionIndex:   j.seq.Add(1),
		ActorID:       actorID,
		ActionType:    action,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	go func() {
		data, err := json.Marshal(rec)
		if err != nil {
			j.log.WithError(err).Warn("failed to marshal room action record")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Rdb.RPush(ctx, j.queue, data).Err(); err != nil {
			j.log.WithError(err).WithField("room", roomID).Warn("failed to journal room action")
		}
	}()
}
