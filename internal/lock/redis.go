package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the key only if we still own it
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// extendScript refreshes the TTL only while we still own the key
var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// RedisLocker is a Locker shared by every replica talking to the same Redis.
// It uses SET NX with a TTL so a crashed holder cannot wedge a user forever.
// A live holder renews the TTL every third of it until unlock, so a slow
// critical section keeps the lock however long it runs.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	log        logrus.FieldLogger
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a lost holder blocks others.
func NewRedisLocker(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 20 * time.Millisecond,
		log:        log,
	}
}

func key(userID int64) string {
	return fmt.Sprintf("lock:gacha:draw:%d", userID)
}

func (l *RedisLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	// Random ownership value
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate lock token: %w", err)
	}
	token := hex.EncodeToString(b)
	k := key(userID)

	ticker := time.NewTicker(l.retryDelay)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrNotAcquired, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", k, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.renew(k, token, userID, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// Release even if the caller's ctx was canceled mid-section
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{k}, token).Err(); err != nil {
				l.log.WithError(err).WithField("user_id", userID).Warn("Failed to release draw lock")
			}
		})
	}, nil
}

// renew extends the lease until stop is closed or ownership is lost.
func (l *RedisLocker) renew(k, token string, userID int64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := extendScript.Run(ctx, l.client, []string{k}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			l.log.WithError(err).WithField("user_id", userID).Warn("Failed to renew draw lock")
			continue
		}
		if n == 0 {
			l.log.WithField("user_id", userID).Warn("Draw lock lost before unlock")
			return
		}
	}
}
