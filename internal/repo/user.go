package repo

import (
	"JourFlow/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — доступ к пользователям сервера.
type UserRepository interface {
	// CreateUser вставляет пользователя; email уникален.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByEmail возвращает gorm.ErrRecordNotFound, если пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile обновляет имя, аватар и хеш refresh-токена.
	UpdateProfile(ctx context.Context, user *model.User) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// findOne ищет одного пользователя. Find вместо First: отсутствие записи
// при первом входе — штатная ситуация, gorm не должен писать её в лог ошибок.
func (r *userRepo) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	tx := r.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"user_name":          user.UserName,
		"avatar_url":         user.AvatarURL,
		"refresh_token_hash": user.RefreshTokenHash,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
