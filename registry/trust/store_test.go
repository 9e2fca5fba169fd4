package trust

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestKeyStoreAddGetRemove(t *testing.T) {
	store := NewKeyStore()
	if !store.IsEmpty() {
		t.Error("new store should be empty")
	}

	store.AddKey(NewEd25519Key("test-key", "pem", "Test User", TrustCommunity))
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	if !store.HasValidKey("test-key") {
		t.Error("HasValidKey(test-key) = false")
	}
	if store.HasValidKey("nonexistent") {
		t.Error("HasValidKey(nonexistent) = true")
	}

	key, ok := store.GetKey("test-key")
	if !ok {
		t.Fatal("GetKey(test-key) not found")
	}
	if key.Owner != "Test User" {
		t.Errorf("Owner = %q, want %q", key.Owner, "Test User")
	}

	removed, ok := store.RemoveKey("test-key")
	if !ok {
		t.Fatal("RemoveKey(test-key) reported missing")
	}
	if removed.KeyID != "test-key" {
		t.Errorf("removed KeyID = %q", removed.KeyID)
	}
	if _, ok := store.RemoveKey("test-key"); ok {
		t.Error("second RemoveKey should report missing")
	}
	if !store.IsEmpty() {
		t.Error("store should be empty after removal")
	}
}

func TestKeyStoreFingerprintIndex(t *testing.T) {
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("fp-key", "pem", "Test", TrustLocal).WithFingerprint("aa:bb:cc"))

	key, ok := store.GetKeyByFingerprint("aa:bb:cc")
	if !ok {
		t.Fatal("GetKeyByFingerprint() not found")
	}
	if key.KeyID != "fp-key" {
		t.Errorf("KeyID = %q, want %q", key.KeyID, "fp-key")
	}

	store.RemoveKey("fp-key")
	if _, ok := store.GetKeyByFingerprint("aa:bb:cc"); ok {
		t.Error("fingerprint entry should be removed with the key")
	}
}

func TestKeyStoreOverwriteReindexesFingerprint(t *testing.T) {
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("rotating", "pem-v1", "Test", TrustLocal).WithFingerprint("fp-old"))
	store.AddKey(NewEd25519Key("rotating", "pem-v2", "Test", TrustLocal).WithFingerprint("fp-new"))

	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	if _, ok := store.GetKeyByFingerprint("fp-old"); ok {
		t.Error("stale fingerprint entry survived overwrite")
	}
	key, ok := store.GetKeyByFingerprint("fp-new")
	if !ok {
		t.Fatal("new fingerprint not indexed")
	}
	if key.PublicKeyPEM != "pem-v2" {
		t.Errorf("PublicKeyPEM = %q, want %q", key.PublicKeyPEM, "pem-v2")
	}
}

func TestListKeysWithTrust(t *testing.T) {
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("local-key", "pem1", "User1", TrustLocal))
	store.AddKey(NewEd25519Key("community-key", "pem2", "User2", TrustCommunity))
	store.AddKey(NewEd25519Key("verified-key", "pem3", "User3", TrustVerified))
	store.AddKey(NewEd25519Key("official-key", "pem4", "User4", TrustOfficial))

	if got := len(slices.Collect(store.ListKeysWithTrust(TrustVerified))); got != 2 {
		t.Errorf("verified-or-above count = %d, want 2", got)
	}
	if got := len(slices.Collect(store.ListKeysWithTrust(TrustOfficial))); got != 1 {
		t.Errorf("official count = %d, want 1", got)
	}
	if got := len(slices.Collect(store.ListKeysWithTrust(TrustLocal))); got != 4 {
		t.Errorf("local-or-above count = %d, want 4", got)
	}

	// Revoked keys drop out regardless of their trust level.
	official, _ := store.GetKey("official-key")
	official.Revoke("rotated")
	store.AddKey(official)
	if got := len(slices.Collect(store.ListKeysWithTrust(TrustOfficial))); got != 0 {
		t.Errorf("official count after revocation = %d, want 0", got)
	}
}

func TestListValidKeys(t *testing.T) {
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("good", "pem", "Test", TrustLocal))
	store.AddKey(NewEd25519Key("expired", "pem", "Test", TrustLocal).
		WithExpiration(time.Now().Add(-time.Hour)))
	revoked := NewEd25519Key("revoked", "pem", "Test", TrustLocal)
	revoked.Revoke("gone")
	store.AddKey(revoked)

	if got := len(slices.Collect(store.ListKeys())); got != 3 {
		t.Errorf("ListKeys count = %d, want 3", got)
	}

	valid := slices.Collect(store.ListValidKeys())
	if len(valid) != 1 {
		t.Fatalf("ListValidKeys count = %d, want 1", len(valid))
	}
	if valid[0].KeyID != "good" {
		t.Errorf("valid key = %q, want %q", valid[0].KeyID, "good")
	}
}

func TestListKeysIsRestartable(t *testing.T) {
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("a", "pem", "Test", TrustLocal))
	store.AddKey(NewEd25519Key("b", "pem", "Test", TrustLocal))

	view := store.ListKeys()
	if got := len(slices.Collect(view)); got != 2 {
		t.Fatalf("first pass count = %d, want 2", got)
	}
	if got := len(slices.Collect(view)); got != 2 {
		t.Errorf("second pass count = %d, want 2", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("signer-a", "pem-a", "Alice", TrustVerified).
		WithFingerprint("aa:aa"))
	revoked := NewECDSAP256Key("signer-b", "pem-b", "Bob", TrustCommunity).
		WithExpiration(expires)
	revoked.Revoke("lost laptop")
	store.AddKey(revoked)

	if err := store.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}

	loaded, err := LoadKeyStore(dir)
	if err != nil {
		t.Fatalf("LoadKeyStore() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded Len() = %d, want 2", loaded.Len())
	}

	a, ok := loaded.GetKey("signer-a")
	if !ok {
		t.Fatal("signer-a missing after reload")
	}
	if a.Owner != "Alice" || a.TrustLevel != TrustVerified || a.Algorithm != Ed25519 {
		t.Errorf("signer-a fields = %+v", a)
	}
	if _, ok := loaded.GetKeyByFingerprint("aa:aa"); !ok {
		t.Error("fingerprint index not rebuilt on load")
	}

	b, ok := loaded.GetKey("signer-b")
	if !ok {
		t.Fatal("signer-b missing after reload")
	}
	if !b.Revoked || b.RevocationReason != "lost laptop" {
		t.Errorf("signer-b revocation fields = %+v", b)
	}
	if b.Expires == nil || !b.Expires.Equal(expires) {
		t.Errorf("signer-b Expires = %v, want %v", b.Expires, expires)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	store, err := LoadKeyStore(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadKeyStore() error = %v", err)
	}
	if !store.IsEmpty() || store.Len() != 0 {
		t.Errorf("store from missing directory should be empty, Len() = %d", store.Len())
	}
}

func TestLoadCorruptKeyFile(t *testing.T) {
	dir := t.TempDir()

	good := NewKeyStore()
	good.AddKey(NewEd25519Key("good", "pem", "Test", TrustLocal))
	if err := good.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("revoked: [not, a, bool]"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	// One malformed document fails the whole load, no partial result.
	_, err := LoadKeyStore(dir)
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("LoadKeyStore() error = %v, want ErrSerialization", err)
	}
}

func TestLoadIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("only", "pem", "Test", TrustLocal))
	if err := store.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a key"), 0o644); err != nil {
		t.Fatalf("writing notes file: %v", err)
	}

	loaded, err := LoadKeyStore(dir)
	if err != nil {
		t.Fatalf("LoadKeyStore() error = %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1", loaded.Len())
	}
}

func TestKeyFileNaming(t *testing.T) {
	dir := t.TempDir()
	store := NewKeyStore()
	store.AddKey(NewEd25519Key("release-2026", "pem", "Test", TrustOfficial))
	if err := store.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "release-2026.yaml")); err != nil {
		t.Errorf("expected release-2026.yaml: %v", err)
	}
}
