package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/common"
	"JourFlow/internal/dbx"
)

func collectImages(rows *sql.Rows) ([]model.Image, error) {
	defer rows.Close()
	var res []model.Image
	for rows.Next() {
		var im model.Image
		if err := rows.Scan(&im.ID, &im.PostID, &im.URL, &im.PublicID, &im.CloudinaryURL, &im.SyncStatus); err != nil {
			return nil, err
		}
		res = append(res, im)
	}
	return res, rows.Err()
}

// ListImages возвращает изображения поста в порядке добавления.
func (s *JournalStore) ListImages(ctx context.Context, postID string) ([]model.Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, post_id, url, public_id, cloudinary_url, sync_status
        FROM images WHERE post_id = ? ORDER BY rowid`, postID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return collectImages(rows)
}

// ListPendingImages возвращает NOT_SYNCED изображения постов, которые сервер уже знает
// (SYNCED или NEEDS_UPDATE). Изображения ещё не отправленного поста ждут следующего прохода.
func (s *JournalStore) ListPendingImages(ctx context.Context, sess model.Session) ([]model.Image, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT i.id, i.post_id, i.url, i.public_id, i.cloudinary_url, i.sync_status
        FROM images i JOIN posts p ON p.id = i.post_id
        WHERE p.user_id = ? AND p.sync_status IN (?, ?) AND i.sync_status = ?
        ORDER BY p.post_date, i.rowid`, sess.UserID, model.Synced, model.NeedsUpdate, model.NotSynced)
	if err != nil {
		return nil, fmt.Errorf("list pending images: %w", err)
	}
	return collectImages(rows)
}

func (s *JournalStore) imageIDs(ctx context.Context, q dbx.DBTX, postID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM images WHERE post_id = ? ORDER BY rowid`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetImageRemote записывает результат загрузки: url становится безопасным URL,
// проставляются public_id и cloudinary_url. Статус не меняется.
func (s *JournalStore) SetImageRemote(ctx context.Context, id, publicID, secureURL string) error {
	if strings.TrimSpace(secureURL) == "" {
		return common.NewValidationError("cloudinary_url", "empty secure url")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE images SET url = ?, public_id = ?, cloudinary_url = ? WHERE id = ?`,
		secureURL, publicID, secureURL, id)
	if err != nil {
		return fmt.Errorf("set image remote: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return common.NewNotFoundError("image", id)
	}
	return nil
}
