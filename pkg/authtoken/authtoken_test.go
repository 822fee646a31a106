package authtoken

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "credential.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newFileStore(t)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	cred := Credential{
		Token:     "tok",
		IssuedAt:  time.Now().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
	assert.True(t, loaded.ExpiresAt.Equal(cred.ExpiresAt))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	// Clearing an already empty store is fine.
	require.NoError(t, store.Clear())
}

func TestCredentialValid(t *testing.T) {
	now := time.Now()
	assert.True(t, Credential{Token: "t", ExpiresAt: now.Add(time.Minute)}.Valid(now))
	assert.False(t, Credential{Token: "t", ExpiresAt: now.Add(-time.Minute)}.Valid(now))
	assert.False(t, Credential{ExpiresAt: now.Add(time.Minute)}.Valid(now), "empty token is never valid")
}

func TestCacheReturnsUnexpiredToken(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Save(Credential{
		Token:     "cached",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	refreshed := false
	cache := NewCache(store, func(ctx context.Context) (Credential, error) {
		refreshed = true
		return Credential{}, nil
	})

	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", token)
	assert.False(t, refreshed, "valid credential must not trigger a refresh")
}

func TestCacheRefreshesExpiredToken(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Save(Credential{
		Token:     "stale",
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	cache := NewCache(store, func(ctx context.Context) (Credential, error) {
		return Credential{
			Token:     "fresh",
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	})

	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored.Token, "refreshed credential must be persisted")
}

func TestCacheClearsExpiredBeforeFailedRefresh(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Save(Credential{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	cache := NewCache(store, func(ctx context.Context) (Credential, error) {
		return Credential{}, errors.New("auth provider down")
	})

	_, err := cache.Token(context.Background())
	require.Error(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoCredential, "stale credential must be gone even when the refresh failed")
}

func TestCacheWithoutRefreshFunc(t *testing.T) {
	cache := NewCache(newFileStore(t), nil)

	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
}
