package media

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in process memory. Used by tests and local
// development; production wiring uses the MinIO-backed store.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) StoreBlob(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyBlob
	}

	handle := handleFor(data)
	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	s.blobs[handle] = copied
	s.mu.Unlock()
	return handle, nil
}

func (s *MemoryStore) FetchBlob(ctx context.Context, handle string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[handle]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBlobNotFound
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (s *MemoryStore) DropBlob(ctx context.Context, handle string) error {
	s.mu.Lock()
	delete(s.blobs, handle)
	s.mu.Unlock()
	return nil
}
