package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// setupTestBundle creates a writable bundle in a temporary directory.
func setupTestBundle(t *testing.T) *Bundle {
	t.Helper()

	b, err := Open(filepath.Join(t.TempDir(), "model.db"), ReadWrite())
	if err != nil {
		t.Fatalf("failed to open bundle: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// TestOpen tests bundle opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("ReadWrite creates the bundle and its directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "model.db")
		b, err := Open(path, ReadWrite())
		if err != nil {
			t.Fatalf("failed to open bundle: %v", err)
		}
		defer b.Close()

		if b.Path() != path {
			t.Errorf("expected path %q, got %q", path, b.Path())
		}
	})

	t.Run("ReadOnly returns ErrBundleNotFound for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing.db"), ReadOnly())
		if !errors.Is(err, ErrBundleNotFound) {
			t.Errorf("expected ErrBundleNotFound, got %v", err)
		}
	})

	t.Run("ReadOnly reads what ReadWrite stored", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "model.db")

		w, err := Open(path, ReadWrite())
		if err != nil {
			t.Fatalf("failed to open bundle: %v", err)
		}
		if _, err := w.Put(ctx, ArtifactVectorizer, []byte(`{"vocabulary":{}}`)); err != nil {
			t.Fatalf("failed to put artifact: %v", err)
		}
		_ = w.Close()

		r, err := Open(path, ReadOnly())
		if err != nil {
			t.Fatalf("failed to reopen bundle: %v", err)
		}
		defer r.Close()

		got, err := r.Get(ctx, ArtifactVectorizer)
		if err != nil {
			t.Fatalf("failed to get artifact: %v", err)
		}
		if string(got) != `{"vocabulary":{}}` {
			t.Errorf("unexpected payload %q", got)
		}
	})
}

// TestBundlePutGet tests storing and retrieving artifacts.
func TestBundlePutGet(t *testing.T) {
	t.Parallel()

	t.Run("Put returns the payload checksum", func(t *testing.T) {
		t.Parallel()

		b := setupTestBundle(t)
		payload := []byte("payload")

		sum, err := b.Put(context.Background(), ArtifactClassifier, payload)
		if err != nil {
			t.Fatalf("failed to put artifact: %v", err)
		}
		if sum != Checksum(payload) {
			t.Errorf("expected checksum %s, got %s", Checksum(payload), sum)
		}
	})

	t.Run("Put replaces an existing artifact", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		b := setupTestBundle(t)

		if _, err := b.Put(ctx, ArtifactClassifier, []byte("old")); err != nil {
			t.Fatalf("failed to put artifact: %v", err)
		}
		if _, err := b.Put(ctx, ArtifactClassifier, []byte("new")); err != nil {
			t.Fatalf("failed to replace artifact: %v", err)
		}

		got, err := b.Get(ctx, ArtifactClassifier)
		if err != nil {
			t.Fatalf("failed to get artifact: %v", err)
		}
		if string(got) != "new" {
			t.Errorf("expected replaced payload, got %q", got)
		}
	})

	t.Run("Get returns ErrArtifactNotFound for unknown names", func(t *testing.T) {
		t.Parallel()

		b := setupTestBundle(t)
		_, err := b.Get(context.Background(), "unknown")
		if !errors.Is(err, ErrArtifactNotFound) {
			t.Errorf("expected ErrArtifactNotFound, got %v", err)
		}
	})

	t.Run("Get detects a tampered payload", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		b := setupTestBundle(t)

		if _, err := b.Put(ctx, ArtifactVectorizer, []byte("original")); err != nil {
			t.Fatalf("failed to put artifact: %v", err)
		}
		if _, err := b.db.ExecContext(ctx,
			`UPDATE artifacts SET payload = ? WHERE name = ?`, []byte("tampered"), ArtifactVectorizer); err != nil {
			t.Fatalf("failed to tamper with artifact: %v", err)
		}

		_, err := b.Get(ctx, ArtifactVectorizer)
		if !errors.Is(err, ErrCorruptArtifact) {
			t.Errorf("expected ErrCorruptArtifact, got %v", err)
		}
	})
}

// TestBundleList tests artifact metadata listing.
func TestBundleList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := setupTestBundle(t)

	infos, err := b.List(ctx)
	if err != nil {
		t.Fatalf("failed to list empty bundle: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected empty bundle, got %d artifacts", len(infos))
	}

	if _, err := b.Put(ctx, ArtifactVectorizer, []byte("vvvv")); err != nil {
		t.Fatalf("failed to put vectorizer: %v", err)
	}
	if _, err := b.Put(ctx, ArtifactClassifier, []byte("cc")); err != nil {
		t.Fatalf("failed to put classifier: %v", err)
	}

	infos, err = b.List(ctx)
	if err != nil {
		t.Fatalf("failed to list bundle: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(infos))
	}

	// Ordered by name.
	if infos[0].Name != ArtifactClassifier || infos[1].Name != ArtifactVectorizer {
		t.Errorf("unexpected order: %s, %s", infos[0].Name, infos[1].Name)
	}
	if infos[0].Size != 2 || infos[1].Size != 4 {
		t.Errorf("unexpected sizes: %d, %d", infos[0].Size, infos[1].Size)
	}
	if infos[1].Checksum != Checksum([]byte("vvvv")) {
		t.Errorf("unexpected checksum %s", infos[1].Checksum)
	}
}

// TestChecksum tests the checksum format.
func TestChecksum(t *testing.T) {
	t.Parallel()

	sum := Checksum([]byte("abc"))
	if len(sum) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(sum))
	}
	if sum != Checksum([]byte("abc")) {
		t.Error("checksum is not deterministic")
	}
	if sum == Checksum([]byte("abd")) {
		t.Error("different payloads produced the same checksum")
	}
}
