package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("authentication is not configured")
)

const (
	OperatorSubject = "operator"
	bcryptCost      = 12
)

// AuthService exchanges the operator password for an API token. There is a
// single operator account whose bcrypt hash comes from configuration.
type AuthService struct {
	passwordHash []byte
	tokens       *TokenService
}

func NewAuthService(passwordHash string, tokens *TokenService) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

func (s *AuthService) Login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", ErrAuthDisabled
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(OperatorSubject)
}

// HashPassword produces the value expected in the admin password hash setting.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
