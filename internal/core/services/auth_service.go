package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

type AuthService struct {
	repo     domain.UserRepository
	progress domain.ProgressRepository
	tokens   *TokenService
}

func NewAuthService(repo domain.UserRepository, progress domain.ProgressRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		repo:     repo,
		progress: progress,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Register creates the user and its zeroed surah rows.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	created, err := s.progress.InitializeUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to initialize progress: %w", err)
	}
	logger.Info("User registered", "user", user.ID, "surahs", created)

	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return "", err
	}

	return s.tokens.GenerateToken(user.ID)
}
