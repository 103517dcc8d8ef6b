package memory

import (
	"context"
	"time"

	"bzr-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TurnLock serializes turns per conversation. Only one message per
// conversation may be in flight at a time; a second sender gets a busy
// answer instead of corrupting the document state.
//
// Redis is the source of truth so the lock holds across instances. When
// Redis is unreachable the lock degrades to an in-process cache, which
// still protects a single instance.
type TurnLock struct {
	rdb   *redis.Client
	local *cache.Cache
	ttl   time.Duration
	log   logger.ILogger
}

func NewTurnLock(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *TurnLock {
	return &TurnLock{
		rdb:   rdb,
		local: cache.New(ttl, ttl),
		ttl:   ttl,
		log:   log,
	}
}

func (l *TurnLock) key(conversationId uuid.UUID) string {
	return "turnlock:" + conversationId.String()
}

// Acquire returns true when the caller may process this conversation's
// turn. The lock auto-expires after the TTL so a crashed worker never
// wedges a conversation.
func (l *TurnLock) Acquire(ctx context.Context, conversationId uuid.UUID) bool {
	key := l.key(conversationId)

	if l.rdb != nil {
		ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
		if err == nil {
			return ok
		}
		l.log.Warn("turnlock", "redis unavailable, falling back to local lock", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// cache.Add fails if the key already exists, which gives the same
	// set-if-absent semantics within this process.
	if err := l.local.Add(key, struct{}{}, l.ttl); err != nil {
		return false
	}
	return true
}

// Release frees the lock early, once the turn finished. Best effort:
// the TTL covers the case where this never runs.
func (l *TurnLock) Release(ctx context.Context, conversationId uuid.UUID) {
	key := l.key(conversationId)

	if l.rdb != nil {
		if err := l.rdb.Del(ctx, key).Err(); err != nil {
			l.log.Warn("turnlock", "failed to release redis lock", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	l.local.Delete(key)
}
