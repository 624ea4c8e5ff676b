package store

import (
	"context"
	"sync"
)

// ChangeKind says what happened to an entry.
type ChangeKind int

// Change kinds.
const (
	ChangePut ChangeKind = iota
	ChangeRemove
)

func (k ChangeKind) String() string {
	if k == ChangeRemove {
		return "remove"
	}
	return "put"
}

// Change describes one successful write.
type Change struct {
	Kind      ChangeKind
	Signature string
	JSON      string
}

// Listener receives changes. It runs on the writer's goroutine.
type Listener func(ctx context.Context, c Change)

// Notifying wraps a MockStore and reports successful writes to listeners.
type Notifying struct {
	MockStore

	mu        sync.RWMutex
	listeners []Listener
}

// NewNotifying wraps inner.
func NewNotifying(inner MockStore) *Notifying {
	return &Notifying{MockStore: inner}
}

// Subscribe registers l for every later change.
func (n *Notifying) Subscribe(l Listener) {
	n.mu.Lock()
	n.listeners = append(n.listeners, l)
	n.mu.Unlock()
}

// Put stores json and notifies listeners.
func (n *Notifying) Put(ctx context.Context, signature, json string) error {
	if err := n.MockStore.Put(ctx, signature, json); err != nil {
		return err
	}
	n.notify(ctx, Change{Kind: ChangePut, Signature: signature, JSON: json})
	return nil
}

// Remove deletes signature and notifies listeners, whether or not an entry
// existed.
func (n *Notifying) Remove(ctx context.Context, signature string) (bool, error) {
	removed, err := n.MockStore.Remove(ctx, signature)
	if err != nil {
		return false, err
	}
	n.notify(ctx, Change{Kind: ChangeRemove, Signature: signature})
	return removed, nil
}

func (n *Notifying) notify(ctx context.Context, c Change) {
	n.mu.RLock()
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, c)
	}
}

// Ensure Notifying implements MockStore.
var _ MockStore = (*Notifying)(nil)
