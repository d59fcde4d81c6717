package service

import (
	"errors"
	"strings"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup and signin
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// SignupInput contains input for creating a user
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// Signup creates a new user with a bcrypt password hash. Email and username
// must both be unused.
func (s *AuthService) Signup(input SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	username := strings.TrimSpace(input.Username)

	if email == "" || username == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmailOrUsername(email, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		log.Error().Err(err).Str("email", email).Msg("Failed to check for existing user")
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(&domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		// The unique indexes are the backstop for a concurrent signup race
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to create user")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("User signed up")
	return user, nil
}

// Signin verifies credentials and returns the user. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Signin(email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to look up user")
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}
