package templates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

// MemoryRepository keeps templates in a map. Every value handed out is a
// copy, so callers cannot alias the stored descriptor.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Template
	// issued is the last version handed out per user; it survives Delete.
	issued map[string]int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:  make(map[string]models.Template),
		issued: make(map[string]int64),
		now:    time.Now,
	}
}

func (r *MemoryRepository) nextVersion(userID string) int64 {
	r.issued[userID]++
	return r.issued[userID]
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*models.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyTemplate(t), nil
}

func (r *MemoryRepository) Put(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := models.Template{
		UserID:     userID,
		Descriptor: descriptor.Clone(),
		Version:    r.nextVersion(userID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.items[userID] = t
	return copyTemplate(t), nil
}

func (r *MemoryRepository) UpdateReference(ctx context.Context, userID string, expectedVersion int64, descriptor biometrics.Descriptor) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if t.Version != expectedVersion {
		return nil, fmt.Errorf("%w: expected %d, stored %d", common.ErrVersionConflict, expectedVersion, t.Version)
	}
	t.Descriptor = descriptor.Clone()
	t.Version = r.nextVersion(userID)
	t.UpdatedAt = r.now()
	r.items[userID] = t
	return copyTemplate(t), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, userID)
	return nil
}

func copyTemplate(t models.Template) *models.Template {
	t.Descriptor = t.Descriptor.Clone()
	return &t
}
