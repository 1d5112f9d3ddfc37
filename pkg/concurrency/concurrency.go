package concurrency

import (
	"context"
	"sort"
	"sync"
)

const (
	// DefaultMax default max
	DefaultMax = 256
)

// DefaultGoLimit default go limit, max:256
var DefaultGoLimit = NewGoLimit(DefaultMax)

// GoLimit go limit
type GoLimit struct {
	ch chan int
}

// NewGoLimit new go limit
func NewGoLimit(max int) *GoLimit {
	return &GoLimit{
		ch: make(chan int, max),
	}
}

// Add add num
func (g *GoLimit) Add() {
	g.ch <- 1
}

// Done remove num
func (g *GoLimit) Done() {
	<-g.ch
}

// KeyedMutex one mutex per key, created on demand
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// NewKeyedMutex new keyed mutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock acquires every key in sorted order and returns the release func.
// Duplicate keys are locked once.
func (m *KeyedMutex) Lock(keys ...string) (unlock func()) {
	keys = uniqueSorted(keys)

	acquired := make([]*keyLock, 0, len(keys))
	for _, key := range keys {
		l := m.ref(key)
		l.Lock()
		acquired = append(acquired, l)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for idx := len(acquired) - 1; idx >= 0; idx-- {
				acquired[idx].Unlock()
				m.unref(keys[idx])
			}
		})
	}
}

type heldKey struct {
	m *KeyedMutex
}

// LockContext like Lock, but keys already held through ctx are skipped.
// The returned context carries every key held by the caller.
func (m *KeyedMutex) LockContext(ctx context.Context, keys ...string) (context.Context, func()) {
	held, _ := ctx.Value(heldKey{m}).(map[string]bool)

	var pending []string
	for _, key := range keys {
		if !held[key] {
			pending = append(pending, key)
		}
	}

	if len(pending) == 0 {
		return ctx, func() {}
	}

	unlock := m.Lock(pending...)

	next := make(map[string]bool, len(held)+len(pending))
	for key := range held {
		next[key] = true
	}
	for _, key := range pending {
		next[key] = true
	}

	return context.WithValue(ctx, heldKey{m}, next), unlock
}

// Held reports whether ctx already holds any of keys
func (m *KeyedMutex) Held(ctx context.Context, keys ...string) bool {
	held, _ := ctx.Value(heldKey{m}).(map[string]bool)
	for _, key := range keys {
		if held[key] {
			return true
		}
	}

	return false
}

func (m *KeyedMutex) ref(key string) *keyLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{}
		m.locks[key] = l
	}

	l.refs++
	return l
}

func (m *KeyedMutex) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.locks[key]; ok {
		l.refs--
		if l.refs <= 0 {
			delete(m.locks, key)
		}
	}
}

// Size number of keys currently held or waited on
func (m *KeyedMutex) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}

	sort.Strings(out)
	return out
}
