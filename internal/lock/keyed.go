package lock

import (
	"context"
	"fmt"
	"sync"
)

type entry struct {
	// sem is a one-slot semaphore so waiters can also watch ctx
	sem  chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker. Each user id gets its own entry,
// dropped once nobody holds or waits for it.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int64]*entry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, userID int64) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[userID]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[userID] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(userID, e)
		return nil, fmt.Errorf("%w: %w", ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.release(userID, e)
		})
	}, nil
}

func (k *KeyedMutex) release(userID int64, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, userID)
	}
}

// size reports how many user entries are live.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
