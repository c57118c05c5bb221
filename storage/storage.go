package storage

import (
	"context"
	"sync"
)

// KeyValueStore is a string-valued store scoped to a single browser.
type KeyValueStore interface {
	// Get returns ok=false when nothing is stored under key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend hands out one KeyValueStore per guest.
type Backend interface {
	Namespace(guestID string) KeyValueStore
}

// Memory keeps every namespace in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

func (m *Memory) Namespace(guestID string) KeyValueStore {
	return memoryNamespace{m: m, guestID: guestID}
}

type memoryNamespace struct {
	m       *Memory
	guestID string
}

func (n memoryNamespace) Get(_ context.Context, key string) (string, bool, error) {
	n.m.mu.RLock()
	defer n.m.mu.RUnlock()
	v, ok := n.m.values[n.guestID][key]
	return v, ok, nil
}

func (n memoryNamespace) Set(_ context.Context, key, value string) error {
	n.m.mu.Lock()
	defer n.m.mu.Unlock()
	ns, ok := n.m.values[n.guestID]
	if !ok {
		ns = make(map[string]string)
		n.m.values[n.guestID] = ns
	}
	ns[key] = value
	return nil
}
