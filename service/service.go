package service

import (
	"quranbot/pkg/logger"
	"quranbot/storage"
)

type IServiceManager interface {
	User() UserService
	Status() StatusService
	Auth() AuthService
}

type service struct {
	userService   UserService
	statusService StatusService
	authService   AuthService
}

func New(stg storage.IStorage, log logger.ILogger) IServiceManager {
	return &service{
		userService:   NewUserService(stg, log),
		statusService: NewStatusService(stg, log),
		authService:   NewAuthService(log),
	}
}

func (s *service) User() UserService {
	return s.userService
}

func (s *service) Status() StatusService {
	return s.statusService
}

func (s *service) Auth() AuthService {
	return s.authService
}
