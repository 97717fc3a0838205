package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeAccounts struct {
	known map[string]bool
	err   error
}

func (f *fakeAccounts) Exists(ctx context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[userID], nil
}

// hookedStore wraps the memory repository and lets a test interfere with
// individual calls.
type hookedStore struct {
	*templates.MemoryRepository

	mu          sync.Mutex
	getErr      error
	putErr      error
	deleteErr   error
	updateErr   error
	updateCalls int
	// beforeUpdate runs before the n-th UpdateReference (1-based) is
	// delegated.
	beforeUpdate func(n int)
}

func newHookedStore() *hookedStore {
	return &hookedStore{MemoryRepository: templates.NewMemoryRepository()}
}

func (s *hookedStore) Get(ctx context.Context, userID string) (*models.Template, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryRepository.Get(ctx, userID)
}

func (s *hookedStore) Put(ctx context.Context, userID string, d biometrics.Descriptor) (*models.Template, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	return s.MemoryRepository.Put(ctx, userID, d)
}

func (s *hookedStore) Delete(ctx context.Context, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryRepository.Delete(ctx, userID)
}

func (s *hookedStore) UpdateReference(ctx context.Context, userID string, expected int64, d biometrics.Descriptor) (*models.Template, error) {
	s.mu.Lock()
	s.updateCalls++
	n := s.updateCalls
	hook := s.beforeUpdate
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.MemoryRepository.UpdateReference(ctx, userID, expected, d)
}

func (s *hookedStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCalls
}

var errStoreDown = errors.New("store down")
