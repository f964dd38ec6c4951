// Package lock serializes work per user.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before ctx ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive per-user critical sections.
type Locker interface {
	// Lock blocks until the user's lock is held or ctx is done.
	// The returned unlock must be called exactly once.
	Lock(ctx context.Context, userID int64) (func(), error)
}

var (
	_ Locker = (*KeyedMutex)(nil)
	_ Locker = (*RedisLocker)(nil)
)
