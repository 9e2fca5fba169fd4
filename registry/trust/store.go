package trust

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// keyFileExt is the extension for serialized key documents.
const keyFileExt = ".yaml"

// KeyStore is an in-memory registry of trusted keys indexed by key ID, with
// a secondary index by fingerprint. The store owns its keys exclusively:
// RemoveKey destroys the store's copy. There is no internal locking; a store
// shared across goroutines must be synchronized by the caller.
type KeyStore struct {
	keys          map[string]TrustedKey
	byFingerprint map[string]string // fingerprint → key ID
}

// NewKeyStore returns an empty key store.
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys:          make(map[string]TrustedKey),
		byFingerprint: make(map[string]string),
	}
}

// AddKey inserts a key, overwriting any existing key with the same ID. The
// fingerprint index is updated in the same step: on overwrite the previous
// key's fingerprint entry is dropped before the new one is indexed.
func (s *KeyStore) AddKey(key TrustedKey) {
	if old, ok := s.keys[key.KeyID]; ok && old.Fingerprint != "" {
		delete(s.byFingerprint, old.Fingerprint)
	}
	if key.Fingerprint != "" {
		s.byFingerprint[key.Fingerprint] = key.KeyID
	}
	s.keys[key.KeyID] = key
}

// RemoveKey deletes the key with the given ID, removing its fingerprint
// entry if one existed, and returns the removed key. The second return is
// false if no such key exists.
func (s *KeyStore) RemoveKey(keyID string) (TrustedKey, bool) {
	key, ok := s.keys[keyID]
	if !ok {
		return TrustedKey{}, false
	}
	delete(s.keys, keyID)
	if key.Fingerprint != "" {
		delete(s.byFingerprint, key.Fingerprint)
	}
	return key, true
}

// GetKey returns the key with the given ID.
func (s *KeyStore) GetKey(keyID string) (TrustedKey, bool) {
	key, ok := s.keys[keyID]
	return key, ok
}

// GetKeyByFingerprint returns the key indexed under the given fingerprint.
func (s *KeyStore) GetKeyByFingerprint(fingerprint string) (TrustedKey, bool) {
	keyID, ok := s.byFingerprint[fingerprint]
	if !ok {
		return TrustedKey{}, false
	}
	return s.GetKey(keyID)
}

// ListKeys returns a lazy, restartable view over all keys. The view reads
// the live map: it is only valid while the store is not mutated.
func (s *KeyStore) ListKeys() iter.Seq[TrustedKey] {
	return func(yield func(TrustedKey) bool) {
		for _, key := range s.keys {
			if !yield(key) {
				return
			}
		}
	}
}

// ListValidKeys returns a view over keys that are neither revoked nor expired.
func (s *KeyStore) ListValidKeys() iter.Seq[TrustedKey] {
	return func(yield func(TrustedKey) bool) {
		for _, key := range s.keys {
			if !key.IsValid() {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// ListKeysWithTrust returns a view over valid keys whose trust level is at
// least minTrust.
func (s *KeyStore) ListKeysWithTrust(minTrust TrustLevel) iter.Seq[TrustedKey] {
	return func(yield func(TrustedKey) bool) {
		for _, key := range s.keys {
			if !key.IsValid() || key.TrustLevel < minTrust {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// HasValidKey reports whether a key with the given ID exists and is valid.
func (s *KeyStore) HasValidKey(keyID string) bool {
	key, ok := s.keys[keyID]
	return ok && key.IsValid()
}

// Len returns the number of keys in the store.
func (s *KeyStore) Len() int {
	return len(s.keys)
}

// IsEmpty reports whether the store holds no keys.
func (s *KeyStore) IsEmpty() bool {
	return len(s.keys) == 0
}

// LoadKeyStore reads every *.yaml key document in dir into a new store.
// A missing directory yields an empty store without error. A single
// unreadable or malformed document fails the whole load: there is no
// partial, best-effort result.
func LoadKeyStore(dir string) (*KeyStore, error) {
	store := NewKeyStore()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("%w: reading key directory %s: %w", ErrIO, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != keyFileExt {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading key file %s: %w", ErrIO, path, err)
		}
		var key TrustedKey
		if err := yaml.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("%w: corrupt key file %s: %w", ErrSerialization, path, err)
		}
		store.AddKey(key)
	}

	return store, nil
}

// SaveToDirectory writes one <key_id>.yaml document per key, creating dir
// as needed. Each file is written atomically (temp file + rename).
func (s *KeyStore) SaveToDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating key directory %s: %w", ErrIO, dir, err)
	}

	for _, key := range s.keys {
		data, err := yaml.Marshal(key)
		if err != nil {
			return fmt.Errorf("%w: marshaling key %s: %w", ErrSerialization, key.KeyID, err)
		}

		target := filepath.Join(dir, key.KeyID+keyFileExt)
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("%w: writing temp key file: %w", ErrIO, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("%w: renaming key file: %w", ErrIO, err)
		}
	}

	return nil
}

// DefaultKeyDir returns the default key directory, ~/.flowline/keys.
func DefaultKeyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".flowline", "keys")
}

// LoadDefaultKeyStore loads the store from DefaultKeyDir.
func LoadDefaultKeyStore() (*KeyStore, error) {
	return LoadKeyStore(DefaultKeyDir())
}

// SaveDefault writes the store to DefaultKeyDir.
func (s *KeyStore) SaveDefault() error {
	return s.SaveToDirectory(DefaultKeyDir())
}
