package storage

import (
	"context"
	"errors"

	"quranbot/pkg/models"
)

var ErrNotFound = errors.New("not found")

// StatusListLimit caps GET /status the same way for every backend.
const StatusListLimit = 1000

type IStorage interface {
	User() IUserStorage
	Status() IStatusStorage
	// Reset removes every user profile and status check.
	Reset(ctx context.Context) error
	Close()
}

// IUserStorage persists profiles keyed by UserID. Every call goes to the
// backing store; implementations keep no cache.
type IUserStorage interface {
	// Upsert inserts the profile or replaces the stored username, full name
	// and language. CreatedAt is only written on insert.
	Upsert(ctx context.Context, profile *models.UserProfile) error
	// SetLanguage returns ErrNotFound when no profile exists for userID.
	SetLanguage(ctx context.Context, userID, lang string) error
	// Get returns ErrNotFound when no profile exists for userID.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	GetAll(ctx context.Context) ([]*models.UserProfile, error)
}

// IStatusStorage is append-only.
type IStatusStorage interface {
	Create(ctx context.Context, check *models.StatusCheck) error
	GetAll(ctx context.Context, limit int) ([]*models.StatusCheck, error)
}
