package battle

import "sync"

// battleLocks serializes work per battle id. An entry lives only while some
// caller holds or waits on it, so ids that never resolve to a battle leave
// nothing behind.
type battleLocks struct {
	mu    sync.Mutex
	locks map[string]*battleLock
}

type battleLock struct {
	mu   sync.Mutex
	refs int
}

func newBattleLocks() *battleLocks {
	return &battleLocks{locks: make(map[string]*battleLock)}
}

// acquire blocks until the caller owns battleID and returns the release func.
func (b *battleLocks) acquire(battleID string) func() {
	b.mu.Lock()
	l, ok := b.locks[battleID]
	if !ok {
		l = &battleLock{}
		b.locks[battleID] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.locks, battleID)
		}
		b.mu.Unlock()
	}
}

// size is the number of ids currently held or awaited.
func (b *battleLocks) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.locks)
}
