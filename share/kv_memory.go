package share

import "sync"

// MemoryKV is an in-process KV for tests and ephemeral runs. Shared data is
// lost on exit, matching what a web view loses anyway when its host dies
// before persisting.
type MemoryKV struct {
	mu      sync.RWMutex
	records map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{records: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
