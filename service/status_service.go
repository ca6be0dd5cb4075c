package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type StatusService interface {
	Create(ctx context.Context, clientName string) (*models.StatusCheck, error)
	List(ctx context.Context) ([]*models.StatusCheck, error)
}

type statusService struct {
	stg storage.IStatusStorage
	log logger.ILogger
}

func NewStatusService(stg storage.IStorage, log logger.ILogger) StatusService {
	return &statusService{
		stg: stg.Status(),
		log: log,
	}
}

func (s *statusService) Create(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	check := &models.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.stg.Create(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *statusService) List(ctx context.Context) ([]*models.StatusCheck, error) {
	return s.stg.GetAll(ctx, storage.StatusListLimit)
}
