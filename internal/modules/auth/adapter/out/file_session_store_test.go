package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	adapterout "emotrack/internal/modules/auth/adapter/out"
	"emotrack/internal/modules/auth/domain"
	apperrors "emotrack/internal/platform/errors"
)

func TestSessionRoundTripAndAtomicClear(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := adapterout.NewFileSessionStore(dir)
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession on empty dir, got %v", err)
	}

	session := domain.Session{Token: "tok", Username: "ana", Role: "admin"}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != session {
		t.Fatalf("expected %+v, got %+v", session, loaded)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	// Clear removes the single backing file, so token, username, and role
	// disappear together.
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, stat err: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear must be idempotent: %v", err)
	}
}

func TestZeroSessionReadsAsNoSession(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := adapterout.NewFileSessionStore(dir)
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession for zero session, got %v", err)
	}
}
