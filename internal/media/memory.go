package media

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process Storage for tests and development mode.
type MemoryStorage struct {
	mu sync.Mutex
	// Objects maps public id to origin path.
	Objects map[string]string
	// FailUploads forces every Upload to error.
	FailUploads bool
	// Deleted records delete order for assertions.
	Deleted []string
}

// NewMemoryStorage builds an empty in-memory media store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string]string)}
}

func (s *MemoryStorage) Upload(_ context.Context, localPath string, opts UploadOptions) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUploads {
		return Asset{}, errors.New("upload rejected")
	}
	key := opts.Folder + "/" + uuid.NewString() + filepath.Ext(localPath)
	s.Objects[key] = localPath
	return Asset{PublicID: key, URL: "memory://" + key}, nil
}

func (s *MemoryStorage) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, publicID)
	s.Deleted = append(s.Deleted, publicID)
	return nil
}
