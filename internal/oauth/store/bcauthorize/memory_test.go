package bcauthorize

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

func seedValidated(t *testing.T, store *InMemoryStore) *models.BCAuthorize {
	t.Helper()
	now := time.Now()
	request, err := models.NewBCAuthorize("user-1", "client-1", "master",
		[]string{"openid"}, 5*time.Minute, 5, now)
	require.NoError(t, err)
	require.NoError(t, request.Approve(now))
	require.NoError(t, store.Save(context.Background(), request))
	return request
}

func TestInMemoryStore_SaveAndGetReturnsCopy(t *testing.T) {
	store := NewInMemory()
	request := seedValidated(t, store)

	got, err := store.GetByID(context.Background(), "master", request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BCAuthorizeValidated, got.Status)

	// Mutating the returned record must not touch the stored one.
	got.Status = models.BCAuthorizeDenied
	again, err := store.GetByID(context.Background(), "master", request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BCAuthorizeValidated, again.Status)
}

func TestInMemoryStore_GetByID_RealmIsolation(t *testing.T) {
	store := NewInMemory()
	request := seedValidated(t, store)

	_, err := store.GetByID(context.Background(), "tenant-b", request.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_UpdateAndSave_UnknownRequest(t *testing.T) {
	store := NewInMemory()
	request, err := models.NewBCAuthorize("user-1", "client-1", "master",
		[]string{"openid"}, time.Minute, 5, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, store.UpdateAndSave(context.Background(), request), sentinel.ErrNotFound)
}

func TestInMemoryStore_UpdateAndSave_RefusesDoubleCompletion(t *testing.T) {
	store := NewInMemory()
	request := seedValidated(t, store)
	now := time.Now()

	first, err := store.GetByID(context.Background(), "master", request.ID)
	require.NoError(t, err)
	require.NoError(t, first.Complete(now))
	require.NoError(t, store.UpdateAndSave(context.Background(), first))

	second, err := store.GetByID(context.Background(), "master", request.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, store.UpdateAndSave(context.Background(), second), sentinel.ErrAlreadyConsumed)
}

func TestInMemoryStore_ConcurrentCompletionCommitsOnce(t *testing.T) {
	store := NewInMemory()
	request := seedValidated(t, store)
	now := time.Now()

	const pollers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
	)
	for range pollers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each poller works on its own read copy, like concurrent token
			// requests for the same auth_req_id.
			own, err := store.GetByID(context.Background(), "master", request.ID)
			if err != nil {
				return
			}
			if own.Complete(now) != nil {
				return
			}
			if store.UpdateAndSave(context.Background(), own) == nil {
				mu.Lock()
				committed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, committed)
	final, err := store.GetByID(context.Background(), "master", request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BCAuthorizeCompleted, final.Status)
}
