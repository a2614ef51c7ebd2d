package service

import "sync"

// entryLocks hands out one mutex per entry ID. Locks are dropped from the map
// once no caller holds or waits on them.
type entryLocks struct {
	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func newEntryLocks() *entryLocks {
	return &entryLocks{locks: make(map[string]*entryLock)}
}

// lock blocks until the caller holds the lock for entryID and returns its release function.
func (l *entryLocks) lock(entryID string) func() {
	l.mu.Lock()
	el, ok := l.locks[entryID]
	if !ok {
		el = &entryLock{}
		l.locks[entryID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()

	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, entryID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked entries.
func (l *entryLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
