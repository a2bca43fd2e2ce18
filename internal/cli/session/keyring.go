package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "shopfront-cli"
)

// getKeyringKey returns a unique key for storing the session per API
func getKeyringKey(apiURL string) string {
	return fmt.Sprintf("session-%s", apiURL)
}

// KeyringPersister stores the session record in the OS keychain/credential
// manager as a single JSON entry
type KeyringPersister struct {
	key string
}

// NewKeyringPersister stores the record for apiURL
func NewKeyringPersister(apiURL string) *KeyringPersister {
	return &KeyringPersister{key: getKeyringKey(apiURL)}
}

func (k *KeyringPersister) Load() (Session, error) {
	raw, err := keyring.Get(keyringService, k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("failed to parse stored session: %w", err)
	}
	return s, nil
}

func (k *KeyringPersister) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := keyring.Set(keyringService, k.key, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (k *KeyringPersister) Clear() error {
	if err := keyring.Delete(keyringService, k.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
