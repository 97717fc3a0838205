package templates

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Get(ctx, "u1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	first, err := r.Put(ctx, "u1", biometrics.Descriptor{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)

	second, err := r.Put(ctx, "u1", biometrics.Descriptor{3, 4})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, biometrics.Descriptor{3, 4}, got.Descriptor)

	require.NoError(t, r.Delete(ctx, "u1"))
	require.NoError(t, r.Delete(ctx, "u1"))
	_, err = r.Get(ctx, "u1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_VersionsSurviveDelete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	old, err := r.Put(ctx, "u1", biometrics.Descriptor{1, 2})
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, "u1"))

	fresh, err := r.Put(ctx, "u1", biometrics.Descriptor{9, 9})
	require.NoError(t, err)
	assert.Greater(t, fresh.Version, old.Version)

	_, err = r.UpdateReference(ctx, "u1", old.Version, biometrics.Descriptor{0.8, 1.6})
	require.ErrorIs(t, err, common.ErrVersionConflict)

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, biometrics.Descriptor{9, 9}, got.Descriptor)
}

func TestMemoryRepository_UpdateReference(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.UpdateReference(ctx, "u1", 1, biometrics.Descriptor{1})
	require.ErrorIs(t, err, common.ErrorNotFound)

	tmpl, err := r.Put(ctx, "u1", biometrics.Descriptor{1, 2})
	require.NoError(t, err)

	updated, err := r.UpdateReference(ctx, "u1", tmpl.Version, biometrics.Descriptor{0.8, 1.6})
	require.NoError(t, err)
	assert.Equal(t, tmpl.Version+1, updated.Version)
	assert.Equal(t, tmpl.CreatedAt, updated.CreatedAt)

	_, err = r.UpdateReference(ctx, "u1", tmpl.Version, biometrics.Descriptor{9, 9})
	require.ErrorIs(t, err, common.ErrVersionConflict)

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, biometrics.Descriptor{0.8, 1.6}, got.Descriptor)
}

func TestMemoryRepository_NoAliasing(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	d := biometrics.Descriptor{1, 2}
	_, err := r.Put(ctx, "u1", d)
	require.NoError(t, err)
	d[0] = 42

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	got.Descriptor[1] = 42

	again, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, biometrics.Descriptor{1, 2}, again.Descriptor)
}

func TestMemoryRepository_ConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	tmpl, err := r.Put(ctx, "u1", biometrics.Descriptor{1})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			_, err := r.UpdateReference(ctx, "u1", tmpl.Version, biometrics.Descriptor{v})
			results <- err
		}(float64(i))
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, common.ErrVersionConflict)
		conflicts++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
}
