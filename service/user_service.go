package service

import (
	"context"
	"time"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type UserService interface {
	// Register upserts the profile captured from a /start event. The stored
	// language is cleared until the user picks one again.
	Register(ctx context.Context, userID, username, fullName string) error
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	SetLanguage(ctx context.Context, userID, lang string) error
	List(ctx context.Context) ([]*models.UserProfile, error)
}

type userService struct {
	stg storage.IUserStorage
	log logger.ILogger
	now func() time.Time
}

func NewUserService(stg storage.IStorage, log logger.ILogger) UserService {
	return &userService{
		stg: stg.User(),
		log: log,
		now: time.Now,
	}
}

func (s *userService) Register(ctx context.Context, userID, username, fullName string) error {
	return s.stg.Upsert(ctx, &models.UserProfile{
		UserID:    userID,
		Username:  username,
		FullName:  fullName,
		CreatedAt: s.now().UTC(),
	})
}

func (s *userService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.stg.Get(ctx, userID)
}

func (s *userService) SetLanguage(ctx context.Context, userID, lang string) error {
	return s.stg.SetLanguage(ctx, userID, lang)
}

func (s *userService) List(ctx context.Context) ([]*models.UserProfile, error) {
	return s.stg.GetAll(ctx)
}
