package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/common"
	"JourFlow/internal/dbx"
)

const postColumns = `id, user_id, title, content, icon_path, post_date, update_date, sync_status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(sc rowScanner) (model.Post, error) {
	var (
		p             model.Post
		icon          string
		postDate, upd string
	)
	if err := sc.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &icon, &postDate, &upd, &p.SyncStatus); err != nil {
		return model.Post{}, err
	}
	p.IconPath = model.MoodIcon(icon)
	var err error
	if p.PostDate, err = time.Parse(time.RFC3339, postDate); err != nil {
		return model.Post{}, fmt.Errorf("post %s: bad post_date %q: %w", p.ID, postDate, err)
	}
	if p.UpdateDate, err = time.Parse(time.RFC3339Nano, upd); err != nil {
		return model.Post{}, fmt.Errorf("post %s: bad update_date %q: %w", p.ID, upd, err)
	}
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()
	var res []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func formatPostDate(t time.Time) string {
	return model.NormalizePostDate(t).Format(time.RFC3339)
}

func requireSession(sess model.Session) error {
	if !sess.Valid() {
		return common.NewValidationError("session", "no current user")
	}
	return nil
}

// dayTaken проверяет, есть ли у пользователя неудалённый пост в этот день (кроме exceptID).
func dayTaken(ctx context.Context, q dbx.DBTX, userID, day, exceptID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM posts
        WHERE user_id = ? AND date(post_date) = ? AND sync_status <> ? AND id <> ? LIMIT 1`,
		userID, day, model.Deleted, exceptID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func insertImages(ctx context.Context, q dbx.DBTX, postID string, paths []string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO images(id, post_id, url, public_id, cloudinary_url, sync_status)
            VALUES(?, ?, ?, '', '', ?)`, uuid.NewString(), postID, p, model.NotSynced); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	return nil
}

// CreatePost создаёт пост со статусом NOT_SYNCED вместе с изображениями в одной транзакции.
func (s *JournalStore) CreatePost(ctx context.Context, sess model.Session, in model.NewPost) (string, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}
	if model.BlankText(in.Title, in.Content) {
		return "", common.NewValidationError("content", "title and content are both empty")
	}
	if !in.IconPath.Valid() {
		return "", common.NewValidationError("icon_path", fmt.Sprintf("unknown icon %q", in.IconPath))
	}
	if in.PostDate.IsZero() {
		return "", common.NewValidationError("post_date", "required")
	}

	id := uuid.NewString()
	day := model.NormalizePostDate(in.PostDate).Format(model.DayLayout)
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		taken, err := dayTaken(ctx, tx, sess.UserID, day, "")
		if err != nil {
			return fmt.Errorf("check day: %w", err)
		}
		if taken {
			return common.NewValidationError("post_date", "a post already exists for "+day)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO posts(`+postColumns+`)
            VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			id, sess.UserID, in.Title, in.Content, string(in.IconPath),
			formatPostDate(in.PostDate), s.stamp(), model.NotSynced,
		); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return insertImages(ctx, tx, id, in.ImagePaths)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdatePost применяет переданные поля. NOT_SYNCED остаётся NOT_SYNCED,
// остальные статусы переходят в NEEDS_UPDATE.
func (s *JournalStore) UpdatePost(ctx context.Context, sess model.Session, id string, patch model.PostPatch) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := scanPost(tx.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts
            WHERE id = ? AND user_id = ? AND sync_status <> ?`, id, sess.UserID, model.Deleted))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.NewNotFoundError("post", id)
			}
			return fmt.Errorf("load post: %w", err)
		}

		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Content != nil {
			p.Content = *patch.Content
		}
		if patch.IconPath != nil {
			if !patch.IconPath.Valid() {
				return common.NewValidationError("icon_path", fmt.Sprintf("unknown icon %q", *patch.IconPath))
			}
			p.IconPath = *patch.IconPath
		}
		if model.BlankText(p.Title, p.Content) {
			return common.NewValidationError("content", "title and content are both empty")
		}

		status := model.NeedsUpdate
		if p.SyncStatus == model.NotSynced {
			status = model.NotSynced
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts
            SET title = ?, content = ?, icon_path = ?, update_date = ?, sync_status = ?
            WHERE id = ?`, p.Title, p.Content, string(p.IconPath), s.stamp(), status, id); err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		if patch.ImagePaths != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE post_id = ?`, id); err != nil {
				return fmt.Errorf("replace images: %w", err)
			}
			return insertImages(ctx, tx, id, patch.ImagePaths)
		}
		return nil
	})
}

// SoftDeletePost помечает пост DELETED; пост, который сервер не видел, удаляется сразу.
func (s *JournalStore) SoftDeletePost(ctx context.Context, sess model.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var status model.SyncStatus
		err := tx.QueryRowContext(ctx, `SELECT sync_status FROM posts
            WHERE id = ? AND user_id = ? AND sync_status <> ?`, id, sess.UserID, model.Deleted).Scan(&status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.NewNotFoundError("post", id)
			}
			return fmt.Errorf("load post: %w", err)
		}
		if status == model.NotSynced {
			// изображения уходят каскадом
			if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
				return fmt.Errorf("purge post: %w", err)
			}
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET sync_status = ?, update_date = ? WHERE id = ?`,
			model.Deleted, s.stamp(), id); err != nil {
			return fmt.Errorf("soft delete post: %w", err)
		}
		return nil
	})
}

// GetPost возвращает неудалённый пост пользователя.
func (s *JournalStore) GetPost(ctx context.Context, sess model.Session, id string) (*model.Post, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts
        WHERE id = ? AND user_id = ? AND sync_status <> ?`, id, sess.UserID, model.Deleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFoundError("post", id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// QueryPosts возвращает неудалённые посты пользователя, новые сверху.
func (s *JournalStore) QueryPosts(ctx context.Context, sess model.Session, f model.PostFilter) ([]model.Post, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	q := `SELECT ` + postColumns + ` FROM posts WHERE user_id = ? AND sync_status <> ?`
	args := []any{sess.UserID, model.Deleted}

	if f.Day != "" {
		d, err := model.ParseDay(f.Day)
		if err != nil {
			return nil, common.NewValidationError("date", "expected YYYY-MM-DD")
		}
		q += ` AND date(post_date) = ?`
		args = append(args, d.Format(model.DayLayout))
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		like := "%" + escapeLike(text) + "%"
		q += ` AND (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`
		args = append(args, like, like)
	}
	q += ` ORDER BY post_date DESC, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	return collectPosts(rows)
}

// PostDaysInMonth возвращает дни месяца (YYYY-MM-DD), в которые есть посты.
func (s *JournalStore) PostDaysInMonth(ctx context.Context, sess model.Session, year int, month int) ([]string, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, common.NewValidationError("month", "expected 1..12")
	}
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT date(post_date) AS d FROM posts
        WHERE user_id = ? AND sync_status <> ? AND strftime('%Y-%m', post_date) = ?
        ORDER BY d`, sess.UserID, model.Deleted, prefix)
	if err != nil {
		return nil, fmt.Errorf("post days: %w", err)
	}
	defer rows.Close()
	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// ListPendingPosts возвращает посты пользователя с указанным незавершённым статусом.
// Для NEEDS_UPDATE заполняется ImageIDs: полный текущий набор изображений поста.
func (s *JournalStore) ListPendingPosts(ctx context.Context, sess model.Session, status model.SyncStatus) ([]model.Post, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !status.Pending() {
		return nil, common.NewValidationError("status", "not a pending status: "+status.String())
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts
        WHERE user_id = ? AND sync_status = ? ORDER BY post_date, id`, sess.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("list pending posts: %w", err)
	}
	posts, err := collectPosts(rows)
	if err != nil || status != model.NeedsUpdate {
		return posts, err
	}
	for i := range posts {
		if posts[i].ImageIDs, err = s.imageIDs(ctx, s.db, posts[i].ID); err != nil {
			return nil, fmt.Errorf("list post images: %w", err)
		}
	}
	return posts, nil
}

// CountPending возвращает число незавершённых строк по видам.
func (s *JournalStore) CountPending(ctx context.Context, sess model.Session) (map[string]int, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	res := map[string]int{"new_posts": 0, "updated_posts": 0, "deleted_posts": 0, "new_images": 0}
	rows, err := s.db.QueryContext(ctx, `SELECT sync_status, COUNT(*) FROM posts
        WHERE user_id = ? AND sync_status <> ? GROUP BY sync_status`, sess.UserID, model.Synced)
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			st model.SyncStatus
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		switch st {
		case model.NotSynced:
			res["new_posts"] = n
		case model.NeedsUpdate:
			res["updated_posts"] = n
		case model.Deleted:
			res["deleted_posts"] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var imgs int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images i JOIN posts p ON p.id = i.post_id
        WHERE p.user_id = ? AND p.sync_status <> ? AND i.sync_status = ?`,
		sess.UserID, model.Deleted, model.NotSynced).Scan(&imgs); err != nil {
		return nil, fmt.Errorf("count pending images: %w", err)
	}
	res["new_images"] = imgs
	return res, nil
}

// Wipe удаляет все локальные посты и изображения. Пользователи остаются.
func (s *JournalStore) Wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM images`); err != nil {
			return fmt.Errorf("wipe images: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
			return fmt.Errorf("wipe posts: %w", err)
		}
		return nil
	})
}
