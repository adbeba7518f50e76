package service

import (
	"JourFlow/internal/middleware"
	"JourFlow/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestUserService_SignIn(t *testing.T) {
	ctx := context.Background()
	profile := &GoogleProfile{Subject: "g-1", Email: "john@example.com", Name: "John", Picture: "https://img/j.png"}

	t.Run("creates user on first sign in", func(t *testing.T) {
		m, v := new(mockUserRepo), new(mockVerifier)
		svc := NewUserService(m, v, testSecret, time.Hour)

		v.On("Verify", mock.Anything, "id-token").Return(profile, nil).Once()
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "john@example.com" && u.ID != "" && u.RefreshTokenHash != "" && u.UserName == "John"
		})).Return(func(_ context.Context, u *model.User) *model.User { return u }, nil).Once()

		res, err := svc.SignIn(ctx, "id-token")
		require.NoError(t, err)
		assert.NotEmpty(t, res.RefreshToken)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.RefreshTokenHash), []byte(res.RefreshToken)))

		uid, err := middleware.ParseJWT(res.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, uid)
		m.AssertExpectations(t)
		v.AssertExpectations(t)
	})

	t.Run("existing user gets rotated refresh token", func(t *testing.T) {
		m, v := new(mockUserRepo), new(mockVerifier)
		svc := NewUserService(m, v, testSecret, time.Hour)

		existing := &model.User{ID: "u-1", Email: "john@example.com", RefreshTokenHash: "old"}
		v.On("Verify", mock.Anything, "id-token").Return(profile, nil).Once()
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(existing, nil).Once()
		m.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ID == "u-1" && u.RefreshTokenHash != "old" && u.AvatarURL == "https://img/j.png"
		})).Return(nil).Once()

		res, err := svc.SignIn(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, "u-1", res.User.ID)
		m.AssertExpectations(t)
	})

	t.Run("invalid google token", func(t *testing.T) {
		m, v := new(mockUserRepo), new(mockVerifier)
		svc := NewUserService(m, v, testSecret, time.Hour)
		v.On("Verify", mock.Anything, "bad").Return(nil, ErrInvalidIDToken).Once()

		_, err := svc.SignIn(ctx, "bad")
		assert.ErrorIs(t, err, ErrInvalidIDToken)
		m.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("empty token", func(t *testing.T) {
		svc := NewUserService(new(mockUserRepo), new(mockVerifier), testSecret, time.Hour)
		_, err := svc.SignIn(ctx, " ")
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("repo error", func(t *testing.T) {
		m, v := new(mockUserRepo), new(mockVerifier)
		svc := NewUserService(m, v, testSecret, time.Hour)
		v.On("Verify", mock.Anything, "id-token").Return(profile, nil).Once()
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, errors.New("db down")).Once()

		_, err := svc.SignIn(ctx, "id-token")
		assert.Error(t, err)
	})
}

func TestUserService_Refresh(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("r-1"), bcrypt.MinCost)
	user := &model.User{ID: "u-1", Email: "a@example.com", RefreshTokenHash: string(hash)}

	m := new(mockUserRepo)
	svc := NewUserService(m, new(mockVerifier), testSecret, time.Hour)
	m.On("GetUserByID", mock.Anything, "u-1").Return(user, nil)
	m.On("GetUserByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	tok, err := svc.Refresh(ctx, "u-1", "r-1")
	require.NoError(t, err)
	uid, err := middleware.ParseJWT(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	_, err = svc.Refresh(ctx, "u-1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, "ghost", "r-1")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
