package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"voice-notes/models"
	"voice-notes/repository"
	"voice-notes/utils"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const minPasswordLen = 6

type AuthService struct {
	users  repository.UserRepositoryInterface
	tokens *utils.TokenIssuer
	cost   int
	log    *slog.Logger

	compare   func(hash, password []byte) error
	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users repository.UserRepositoryInterface, tokens *utils.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
		log:     log.With(slog.String("component", "auth_service")),
		compare: bcrypt.CompareHashAndPassword,
	}
}

// WithCost overrides the bcrypt cost used by Register.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Login never tells the caller whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("login for unknown email")
			// Unknown emails cost the same bcrypt work as a wrong password.
			_ = s.compare(s.unknownUserHash(), []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.compare([]byte(user.Password), []byte(password)); err != nil {
		s.log.Debug("login with wrong password", slog.String("user_id", user.ID.Hex()))
		return "", ErrInvalidCredentials
	}

	return s.tokens.Mint(user.ID.Hex())
}

// unknownUserHash is generated at the configured cost on first use.
func (s *AuthService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("unknown user placeholder"), s.cost)
		if err != nil {
			s.log.Error("generate placeholder hash", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	if !strings.Contains(email, "@") || strings.TrimSpace(email) != email {
		return models.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.InsertUser(ctx, models.User{
		Email:     email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, err
	}

	s.log.Info("user registered", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// Authenticate resolves a bearer token to the owner id it carries.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims.UserID, nil
}
