package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

func TestMemoryAccountRepo_CreateAndFind(t *testing.T) {
	repo := NewMemoryAccountRepo()
	ctx := context.Background()

	a, err := repo.Create(ctx, NewAccount{FullName: "Alice", Email: "Alice@x.com", PasswordHash: "h", Provider: model.ProviderLocal})
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(ctx, "alice@X.COM")
	require.NoError(t, err)
	assert.Equal(t, a, byEmail)

	byID, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, byID)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAccountRepo_DuplicateAcrossProviders(t *testing.T) {
	repo := NewMemoryAccountRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, NewAccount{FullName: "Bob", Email: "bob@x.com", Provider: model.ProviderGoogle})
	require.NoError(t, err)

	_, err = repo.Create(ctx, NewAccount{FullName: "Bob", Email: "BOB@x.com", PasswordHash: "h", Provider: model.ProviderLocal})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryAccountRepo_ConcurrentCreateSingleWinner(t *testing.T) {
	repo := NewMemoryAccountRepo()
	const n = 32

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		dupes     atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Create(context.Background(), NewAccount{FullName: "Racer", Email: "race@x.com", PasswordHash: "h", Provider: model.ProviderLocal})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrDuplicateEmail):
				dupes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, n-1, dupes.Load())
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryAccountRepo_CancelledContext(t *testing.T) {
	repo := NewMemoryAccountRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
}
