package service

import (
	"fmt"
	"strings"
)

// AuthService holds the local credential checks performed before any network
// round-trip.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

func (s *AuthService) ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (s *AuthService) ValidateRegistration(username, email, password string) error {
	if err := s.ValidateCredentials(username, password); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}
