package sqlite

import (
	"context"
	"fmt"
	"time"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/dbx"
)

// MergeRemote вставляет в одной транзакции удалённые посты и изображения,
// которых нет локально. Существующие строки (в том числе ожидающие отправки)
// не перезаписываются. Изображения принимаются только для постов в статусе SYNCED:
// у поста с локальной правкой набор изображений определяет устройство.
func (s *JournalStore) MergeRemote(ctx context.Context, sess model.Session, posts []model.Post, images []model.Image) (model.MergeResult, error) {
	var res model.MergeResult
	if err := requireSession(sess); err != nil {
		return res, err
	}
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if res.PostsInserted, res.PostsSkipped, err = s.mergePosts(ctx, tx, sess, posts); err != nil {
			return err
		}
		res.ImagesInserted, res.ImagesSkipped, err = s.mergeImages(ctx, tx, images)
		return err
	})
	if err != nil {
		return model.MergeResult{}, err
	}
	return res, nil
}

// MergeRemotePosts — только посты, отдельной транзакцией.
func (s *JournalStore) MergeRemotePosts(ctx context.Context, sess model.Session, posts []model.Post) (model.MergeResult, error) {
	return s.MergeRemote(ctx, sess, posts, nil)
}

// MergeRemoteImages — только изображения, отдельной транзакцией.
func (s *JournalStore) MergeRemoteImages(ctx context.Context, sess model.Session, images []model.Image) (model.MergeResult, error) {
	return s.MergeRemote(ctx, sess, nil, images)
}

func (s *JournalStore) mergePosts(ctx context.Context, tx dbx.DBTX, sess model.Session, posts []model.Post) (inserted, skipped int, err error) {
	for _, p := range posts {
		if p.ID == "" || (p.UserID != "" && p.UserID != sess.UserID) {
			skipped++
			continue
		}
		day := model.NormalizePostDate(p.PostDate).Format(model.DayLayout)
		taken, err := dayTaken(ctx, tx, sess.UserID, day, p.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("merge post %s: %w", p.ID, err)
		}
		if taken {
			// локальный пост за этот день важнее
			skipped++
			continue
		}
		upd := p.UpdateDate
		if upd.IsZero() {
			upd = s.now()
		}
		r, err := tx.ExecContext(ctx, `INSERT INTO posts(`+postColumns+`)
            VALUES(?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			p.ID, sess.UserID, p.Title, p.Content, string(p.IconPath),
			formatPostDate(p.PostDate), upd.UTC().Format(time.RFC3339Nano), model.Synced)
		if err != nil {
			return 0, 0, fmt.Errorf("merge post %s: %w", p.ID, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}

func (s *JournalStore) mergeImages(ctx context.Context, tx dbx.DBTX, images []model.Image) (inserted, skipped int, err error) {
	for _, im := range images {
		secure := im.CloudinaryURL
		if secure == "" {
			secure = im.URL
		}
		if im.ID == "" || im.PostID == "" || secure == "" {
			skipped++
			continue
		}
		url := im.URL
		if url == "" {
			url = secure
		}
		// изображение без локального синхронизированного поста не вставляется
		r, err := tx.ExecContext(ctx, `INSERT INTO images(id, post_id, url, public_id, cloudinary_url, sync_status)
            SELECT ?, ?, ?, ?, ?, ? WHERE EXISTS (SELECT 1 FROM posts WHERE id = ? AND sync_status = ?)
            ON CONFLICT(id) DO NOTHING`,
			im.ID, im.PostID, url, im.PublicID, secure, model.Synced, im.PostID, model.Synced)
		if err != nil {
			return 0, 0, fmt.Errorf("merge image %s: %w", im.ID, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}
