package service

import (
	"quranbot/pkg/logger"
	"quranbot/pkg/models"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// AuthService checks portal logins against one fixed credential pair per
// role. It is a placeholder for the web portal: passwords are compared in
// plain text and no session or token is issued. Do not treat it as access
// control.
type AuthService interface {
	Login(role Role, creds models.Credentials) models.LoginResult
}

type credential struct {
	username string
	password string
	message  string
}

var fixedCredentials = map[Role]credential{
	RoleAdmin:   {username: "admin", password: "admin123", message: "Admin login successful"},
	RoleTeacher: {username: "teacher", password: "teacher123", message: "Teacher login successful"},
	RoleStudent: {username: "student", password: "student123", message: "Student login successful"},
}

const invalidCredentials = "Invalid credentials"

type authService struct {
	log logger.ILogger
}

func NewAuthService(log logger.ILogger) AuthService {
	return &authService{log: log}
}

func (s *authService) Login(role Role, creds models.Credentials) models.LoginResult {
	c, ok := fixedCredentials[role]
	if !ok || creds.Username != c.username || creds.Password != c.password {
		s.log.Info("portal login rejected", logger.String("role", string(role)))
		return models.LoginResult{Success: false, Message: invalidCredentials}
	}
	return models.LoginResult{Success: true, Message: c.message, Role: string(role)}
}
