package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lexwatch/lexwatch/pkg/errors"
)

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock reacquired by another worker is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-attempt distributed mutex.  The worker takes it around
// each scan pass so that replicas do not run overlapping scans; it is not a
// general-purpose lock.
type Lock struct {
	client *Client
	name   string
	token  string
	ttl    time.Duration
}

// NewLock builds a lock on the given name.
func NewLock(client *Client, name string, ttl time.Duration) *Lock {
	return &Lock{client: client, name: "lock:" + name, ttl: ttl}
}

// TryAcquire attempts to take the lock without blocking.  It returns false
// when another holder has it.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.rdb.SetNX(ctx, l.client.key(l.name), token, l.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to acquire lock "+l.name)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release frees the lock when still held by this instance.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, l.client.rdb, []string{l.client.key(l.name)}, l.token).Err()
	l.token = ""
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock "+l.name)
	}
	return nil
}
