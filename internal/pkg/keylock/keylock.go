package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock hands out one mutex per key and forgets keys nobody holds.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		entries: make(map[string]*entry),
	}
}

// Lock blocks until key is free and returns the matching unlock function.
func (k *KeyLock) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		defer k.mu.Unlock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
	}
}

// Len returns the number of keys currently held or waited on.
func (k *KeyLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
