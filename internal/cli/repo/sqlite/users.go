package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/common"
)

// UpsertUser вставляет пользователя или обновляет его токены (и профиль, если передан).
func (s *JournalStore) UpsertUser(ctx context.Context, u model.User) (*model.User, error) {
	if strings.TrimSpace(u.ID) == "" {
		return nil, common.NewValidationError("id", "user id is required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users(
        id, username, email, avatar_url, jwt, google_access_token, refresh_token
    ) VALUES(?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET
        jwt = excluded.jwt,
        google_access_token = excluded.google_access_token,
        refresh_token = excluded.refresh_token,
        username = CASE WHEN excluded.username <> '' THEN excluded.username ELSE users.username END,
        email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
        avatar_url = CASE WHEN excluded.avatar_url <> '' THEN excluded.avatar_url ELSE users.avatar_url END`,
		u.ID, u.Username, u.Email, u.AvatarURL, u.JWT, u.GoogleAccessToken, u.RefreshToken,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetUser(ctx, u.ID)
}

// GetUser возвращает пользователя по id.
func (s *JournalStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, `SELECT id, username, email, avatar_url, jwt, google_access_token, refresh_token
        FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.JWT, &u.GoogleAccessToken, &u.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// DeleteUser удаляет пользователя, если у него нет постов.
func (s *JournalStore) DeleteUser(ctx context.Context, id string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if n > 0 {
		return common.NewValidationError("user", fmt.Sprintf("user owns %d posts", n))
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return common.NewNotFoundError("user", id)
	}
	return nil
}
