package repo

import (
	"errors"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("unique constraint violation: username already exists")
)
