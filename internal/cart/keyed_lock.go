package cart

import (
	"context"
	"sync"
)

// keyedLock serializes work per key. Entries are dropped once unused so the
// map only holds carts with in-flight mutations.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

// keyedEntry.sem has capacity one; holding the lock means owning its slot.
type keyedEntry struct {
	sem  chan struct{}
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*keyedEntry)}
}

// Lock waits until key is free or ctx is done. On success it returns the
// matching unlock func; otherwise ctx.Err().
func (k *keyedLock) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{sem: make(chan struct{}, 1)}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, entry)
		return nil, ctx.Err()
	}

	return func() {
		<-entry.sem
		k.release(key, entry)
	}, nil
}

func (k *keyedLock) release(key string, entry *keyedEntry) {
	k.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

func (k *keyedLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
