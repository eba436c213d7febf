package kvstore

import "sync"

// Locker serializes work per name. Ledgers take the lock named after the
// owner and storage key for the whole read-modify-write cycle.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty lock registry
func NewLocker() *Locker {
	return &Locker{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the named lock is held and returns its release function.
// Entries are dropped once no goroutine holds or waits on them.
func (l *Locker) Lock(name string) func() {
	l.mu.Lock()
	entry, ok := l.entries[name]
	if !ok {
		entry = &lockEntry{}
		l.entries[name] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.entries, name)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of live lock entries
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// LockName joins an owner scope and storage key into a lock name
func LockName(owner, key string) string {
	return owner + "\x00" + key
}
