package bruteforce

import (
	"context"
	"sync"
	"time"
)

// MemoryStore guarda los registros en un mapa protegido por mutex.
// Solo sirve para despliegues de un proceso: el estado no sobrevive
// reinicios ni se comparte entre instancias.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	reg    Registro
	expira time.Time
}

// NewMemoryStore crea el store en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expira) {
		delete(s.entries, id)
		return nil, nil
	}
	reg := entry.reg
	return &reg, nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, reg Registro, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{reg: reg, expira: time.Now().Add(ttl)}

	// Barrido oportunista de entradas vencidas.
	now := time.Now()
	for k, entry := range s.entries {
		if now.After(entry.expira) {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
