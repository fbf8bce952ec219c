// Package store opens the state and user repositories selected by configuration.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	State  repo.StateRepository
	Users  repo.UserRepository
	Driver string

	health func(context.Context) error
	close  func() error
}

// Open connects to the backend named by cfg.Store.Driver.
// Only postgres keeps operator accounts durably; other drivers hold them in memory.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{
		Driver: cfg.Store.Driver,
		Users:  repo.NewInMemoryUserRepository(),
		health: func(context.Context) error { return nil },
		close:  func() error { return nil },
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		s.State = repo.NewInMemoryStateRepository()

	case config.DriverFile:
		s.State = repo.NewFileStateRepository(cfg.Store.Path)

	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, database); err != nil {
			database.Close()
			return nil, err
		}
		s.State = repo.NewPostgresStateRepository(database)
		s.Users = repo.NewPostgresUserRepository(database)
		s.health = database.PingContext
		s.close = database.Close

	case config.DriverRedis:
		rs, err := redissvc.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		s.State = repo.NewRedisStateRepository(rs.Rdb(), cfg.Redis.Key)
		s.health = rs.Healthy
		s.close = rs.Close

	default:
		return nil, fmt.Errorf("%w: %q", repo.ErrUnknownDriver, cfg.Store.Driver)
	}

	return s, nil
}

// Healthy reports whether the backend is reachable.
func (s *Store) Healthy(ctx context.Context) error {
	return s.health(ctx)
}

func (s *Store) Close() error {
	return s.close()
}

// SeedAdmin creates the configured admin account when it does not exist yet.
// It reports whether an account was created.
func SeedAdmin(users repo.UserRepository, username, hash string) (bool, error) {
	if username == "" || hash == "" {
		return false, nil
	}
	_, err := users.GetByUsername(username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	admin := models.User{Username: username, PasswordHash: hash, Role: "admin"}
	if _, err := users.CreateUser(admin); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
