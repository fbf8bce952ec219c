package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.State.(*repo.InMemoryStateRepository); !ok {
			t.Errorf("expected in-memory state repository, got %T", s.State)
		}
		if err := s.Healthy(ctx); err != nil {
			t.Errorf("expected healthy store, got %v", err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		s, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.DriverFile, Path: path}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fr, ok := s.State.(*repo.FileStateRepository)
		if !ok {
			t.Fatalf("expected file state repository, got %T", s.State)
		}
		if fr.Path() != path {
			t.Errorf("expected path %s, got %s", path, fr.Path())
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: "sqlite"}})
		if !errors.Is(err, repo.ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})
}

func TestSeedAdmin(t *testing.T) {
	users := repo.NewInMemoryUserRepository()
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	created, err := SeedAdmin(users, "admin", hash)
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got created=%v err=%v", created, err)
	}
	u, err := users.GetByUsername("admin")
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("expected admin role, got %q", u.Role)
	}

	created, err = SeedAdmin(users, "admin", hash)
	if err != nil || created {
		t.Errorf("expected second seed to be a no-op, got created=%v err=%v", created, err)
	}

	created, err = SeedAdmin(users, "admin2", "")
	if err != nil || created {
		t.Errorf("expected seed without password to be skipped, got created=%v err=%v", created, err)
	}
}
