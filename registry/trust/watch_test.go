package trust

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatchKeyDirectoryReload(t *testing.T) {
	dir := t.TempDir()

	reloads := make(chan *KeyStore, 4)
	w, err := WatchKeyDirectory(dir, func(s *KeyStore) {
		select {
		case reloads <- s:
		default:
		}
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("WatchKeyDirectory() error = %v", err)
	}
	defer w.Close()

	store := NewKeyStore()
	store.AddKey(NewEd25519Key("watched-key", "pem", "Test", TrustCommunity))
	if err := store.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}

	select {
	case reloaded := <-reloads:
		if !reloaded.HasValidKey("watched-key") {
			t.Error("reloaded store is missing watched-key")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s of writing a key file")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := WatchKeyDirectory(filepath.Join(t.TempDir(), "absent"), func(*KeyStore) {})
	if err == nil {
		t.Fatal("WatchKeyDirectory() expected error for missing directory")
	}
}

func TestWatchCloseCancelsPendingReload(t *testing.T) {
	dir := t.TempDir()

	reloads := make(chan struct{}, 1)
	w, err := WatchKeyDirectory(dir, func(*KeyStore) {
		select {
		case reloads <- struct{}{}:
		default:
		}
	}, WithDebounce(time.Hour))
	if err != nil {
		t.Fatalf("WatchKeyDirectory() error = %v", err)
	}

	store := NewKeyStore()
	store.AddKey(NewEd25519Key("late-key", "pem", "Test", TrustLocal))
	if err := store.SaveToDirectory(dir); err != nil {
		t.Fatalf("SaveToDirectory() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case <-reloads:
		t.Error("reload fired after Close")
	case <-time.After(200 * time.Millisecond):
	}
}
