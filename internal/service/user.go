package service

import (
	"JourFlow/internal/middleware"
	"JourFlow/internal/model"
	"JourFlow/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidRefreshToken — refresh-токен не совпал или пользователь неизвестен.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// SignInResult — ответ на вход через Google.
type SignInResult struct {
	User         *model.User
	Token        string
	RefreshToken string
}

// UserService — вход через Google, выпуск JWT и refresh-токенов.
type UserService struct {
	repo     repo.UserRepository
	verifier IDTokenVerifier
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

// NewUserService создаёт сервис пользователей.
func NewUserService(r repo.UserRepository, v IDTokenVerifier, secret string, ttl time.Duration) *UserService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &UserService{repo: r, verifier: v, secret: secret, ttl: ttl, now: time.Now}
}

// SignIn проверяет Google id token, создаёт пользователя при первом входе,
// выпускает новый refresh-токен (старый перестаёт действовать) и JWT.
func (s *UserService) SignIn(ctx context.Context, idToken string) (*SignInResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrInvalidIDToken
	}
	profile, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(refresh), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	u, err := s.repo.GetUserByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u, err = s.repo.CreateUser(ctx, &model.User{
			ID:               uuid.NewString(),
			Email:            profile.Email,
			UserName:         profile.Name,
			AvatarURL:        profile.Picture,
			RefreshTokenHash: string(hash),
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	default:
		if profile.Name != "" {
			u.UserName = profile.Name
		}
		if profile.Picture != "" {
			u.AvatarURL = profile.Picture
		}
		u.RefreshTokenHash = string(hash)
		if err := s.repo.UpdateProfile(ctx, u); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	tok, err := middleware.BuildJWT(u.ID, u.Email, s.secret, s.ttl, s.now())
	if err != nil {
		return nil, fmt.Errorf("build jwt: %w", err)
	}
	return &SignInResult{User: u, Token: tok, RefreshToken: refresh}, nil
}

// Refresh выпускает новый JWT по refresh-токену пользователя.
func (s *UserService) Refresh(ctx context.Context, userID, refreshToken string) (string, error) {
	if userID == "" || refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if u.RefreshTokenHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.RefreshTokenHash), []byte(refreshToken)) != nil {
		return "", ErrInvalidRefreshToken
	}
	return middleware.BuildJWT(u.ID, u.Email, s.secret, s.ttl, s.now())
}
