// Package authtoken caches a bounded-lifetime bearer credential for API
// clients. The credential carries explicit issue and expiry times, storage
// is pluggable, and renewal goes through an explicit refresh call instead
// of silently trusting whatever was stored.
package authtoken

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"
)

// ErrNoCredential is returned by a Store when nothing is cached.
var ErrNoCredential = errors.New("authtoken: no credential stored")

// Credential is a bearer token with its validity window.
type Credential struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the credential can still be used at the given time.
func (c Credential) Valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// Store persists a single credential.
type Store interface {
	Load() (Credential, error)
	Save(Credential) error
	Clear() error
}

// RefreshFunc obtains a fresh credential, typically by re-authenticating.
type RefreshFunc func(ctx context.Context) (Credential, error)

// Cache hands out the stored token while it is unexpired, clears it once
// expired, and refreshes through the RefreshFunc when missing or expired.
type Cache struct {
	store   Store
	refresh RefreshFunc
	now     func() time.Time
}

func NewCache(store Store, refresh RefreshFunc) *Cache {
	return &Cache{store: store, refresh: refresh, now: time.Now}
}

// Token returns a currently valid bearer token. An expired credential is
// cleared from the store before the refresh runs, so a failed refresh never
// leaves a stale token behind.
func (c *Cache) Token(ctx context.Context) (string, error) {
	cred, err := c.store.Load()
	if err == nil && cred.Valid(c.now()) {
		return cred.Token, nil
	}
	if err != nil && !errors.Is(err, ErrNoCredential) {
		return "", err
	}
	if err == nil {
		if cerr := c.store.Clear(); cerr != nil {
			return "", cerr
		}
	}

	if c.refresh == nil {
		return "", ErrNoCredential
	}
	fresh, err := c.refresh(ctx)
	if err != nil {
		return "", err
	}
	if err := c.store.Save(fresh); err != nil {
		return "", err
	}
	return fresh.Token, nil
}

// Clear drops any cached credential.
func (c *Cache) Clear() error {
	return c.store.Clear()
}

// FileStore keeps the credential as a JSON file, the closest server-side
// analogue to a browser's persistent key-value storage.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (Credential, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, ErrNoCredential
		}
		return Credential{}, err
	}
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return Credential{}, err
	}
	if cred.Token == "" {
		return Credential{}, ErrNoCredential
	}
	return cred, nil
}

func (s *FileStore) Save(cred Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)
