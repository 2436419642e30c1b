package repository

import (
	"context"
	"fmt"
	"time"

	"codecrux/internal/domain/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimiter is the server-authoritative gate in front of the execution
// orchestrator: one batch in flight per subject, plus a per-mode cooldown that
// starts only after a batch completes.
type RateLimiter interface {
	// TryBeginBatch acquires the subject's in-flight slot. ok is false when a
	// batch is already running. The returned token must be passed to EndBatch.
	TryBeginBatch(ctx context.Context, subject string) (token string, ok bool, err error)
	EndBatch(ctx context.Context, subject, token string)
	CooldownActive(ctx context.Context, subject string, mode model.ExecutionMode) (bool, error)
	StartCooldown(ctx context.Context, subject string, mode model.ExecutionMode, d time.Duration) error
}

type redisRateLimiter struct {
	rdb     *redis.Client
	lockTTL time.Duration
}

func NewRedisRateLimiter(rdb *redis.Client, lockTTL time.Duration) RateLimiter {
	return &redisRateLimiter{rdb: rdb, lockTTL: lockTTL}
}

func inflightKey(subject string) string {
	return "exec:inflight:" + subject
}

func cooldownKey(subject string, mode model.ExecutionMode) string {
	return fmt.Sprintf("exec:cooldown:%s:%s", mode, subject)
}

func (l *redisRateLimiter) TryBeginBatch(ctx context.Context, subject string) (string, bool, error) {
	token := uuid.NewString()
	// The TTL is a safety net against a crashed batch holding the slot forever.
	ok, err := l.rdb.SetNX(ctx, inflightKey(subject), token, l.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquiring batch slot for %s: %w", subject, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// releaseScript deletes the in-flight key only if we still hold it, so an
// expired slot taken over by a later batch is never released from under it.
var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

func (l *redisRateLimiter) EndBatch(ctx context.Context, subject, token string) {
	deleted, err := releaseScript.Run(ctx, l.rdb, []string{inflightKey(subject)}, token).Result()
	if err != nil {
		log.Errorf("failed to release batch slot for %s: %v", subject, err)
		return
	}
	if n, _ := deleted.(int64); n != 1 {
		log.Warnf("batch slot for %s was not held anymore at release time", subject)
	}
}

func (l *redisRateLimiter) CooldownActive(ctx context.Context, subject string, mode model.ExecutionMode) (bool, error) {
	n, err := l.rdb.Exists(ctx, cooldownKey(subject, mode)).Result()
	if err != nil {
		return false, fmt.Errorf("checking cooldown for %s: %w", subject, err)
	}
	return n > 0, nil
}

func (l *redisRateLimiter) StartCooldown(ctx context.Context, subject string, mode model.ExecutionMode, d time.Duration) error {
	if err := l.rdb.Set(ctx, cooldownKey(subject, mode), "1", d).Err(); err != nil {
		return fmt.Errorf("starting cooldown for %s: %w", subject, err)
	}
	return nil
}
