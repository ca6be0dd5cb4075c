// Package memory is a process-local storage backend for local runs and tests.
// State is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"quranbot/pkg/models"
	"quranbot/storage"
)

var _ storage.IStorage = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	users    map[string]models.UserProfile
	statuses []models.StatusCheck
}

func New() *Store {
	return &Store{users: make(map[string]models.UserProfile)}
}

func (s *Store) User() storage.IUserStorage     { return userRepo{s} }
func (s *Store) Status() storage.IStatusStorage { return statusRepo{s} }

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.UserProfile)
	s.statuses = nil
	return nil
}

func (s *Store) Close() {}

type userRepo struct{ s *Store }

func copyLanguage(lang *string) *string {
	if lang == nil {
		return nil
	}
	l := *lang
	return &l
}

func (r userRepo) Upsert(ctx context.Context, profile *models.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *profile
	stored.Language = copyLanguage(profile.Language)
	if existing, ok := r.s.users[profile.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.s.users[profile.UserID] = stored
	return nil
}

func (r userRepo) SetLanguage(ctx context.Context, userID, lang string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.Language = &lang
	r.s.users[userID] = u
	return nil
}

func (r userRepo) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Language = copyLanguage(u.Language)
	return &u, nil
}

func (r userRepo) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.UserProfile, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		u.Language = copyLanguage(u.Language)
		users = append(users, &u)
	}
	return users, nil
}

type statusRepo struct{ s *Store }

func (r statusRepo) Create(ctx context.Context, check *models.StatusCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.statuses = append(r.s.statuses, *check)
	return nil
}

func (r statusRepo) GetAll(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := len(r.s.statuses)
	if limit > 0 && limit < n {
		n = limit
	}
	checks := make([]*models.StatusCheck, 0, n)
	for i := 0; i < n; i++ {
		c := r.s.statuses[i]
		checks = append(checks, &c)
	}
	return checks, nil
}
