package service

import (
	"JourFlow/internal/model"
	"JourFlow/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, *model.User) *model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для IDTokenVerifier
type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	args := m.Called(ctx, idToken)
	if p, ok := args.Get(0).(*GoogleProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// мок для repo.PostRepository
type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) ListByUser(ctx context.Context, userID string) ([]model.Post, []model.Image, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]model.Post)
	im, _ := args.Get(1).([]model.Image)
	return p, im, args.Error(2)
}

func (m *mockPostRepo) CreatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error) {
	args := m.Called(ctx, userID, posts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostRepo) CreateImages(ctx context.Context, userID string, images []model.Image) (int64, error) {
	args := m.Called(ctx, userID, images)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostRepo) UpdatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error) {
	args := m.Called(ctx, userID, posts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostRepo) DeletePosts(ctx context.Context, userID string, ids []string) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.PostRepository = (*mockPostRepo)(nil)
