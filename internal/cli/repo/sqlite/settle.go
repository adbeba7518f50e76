package sqlite

import (
	"context"
	"fmt"
	"time"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/common"
	"JourFlow/internal/dbx"
)

// SettlePosts завершает синхронизацию отправленных постов.
// Строка переводится только если её статус и update_date не менялись с момента
// отправки, поэтому правки, сделанные во время прохода, остаются ожидающими.
// Повторный вызов ничего не меняет и возвращает 0.
func (s *JournalStore) SettlePosts(ctx context.Context, sess model.Session, kind model.SettleKind, pushed []model.Post) (int64, error) {
	if err := requireSession(sess); err != nil {
		return 0, err
	}
	if len(pushed) == 0 {
		return 0, nil
	}
	var total int64
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, p := range pushed {
			upd := p.UpdateDate.UTC().Format(time.RFC3339Nano)
			var (
				q    string
				args []any
			)
			switch kind {
			case model.SettleAdd:
				q = `UPDATE posts SET sync_status = ? WHERE id = ? AND user_id = ? AND sync_status = ? AND update_date = ?`
				args = []any{model.Synced, p.ID, sess.UserID, model.NotSynced, upd}
			case model.SettleUpdate:
				q = `UPDATE posts SET sync_status = ? WHERE id = ? AND user_id = ? AND sync_status = ? AND update_date = ?`
				args = []any{model.Synced, p.ID, sess.UserID, model.NeedsUpdate, upd}
			case model.SettleDelete:
				q = `DELETE FROM posts WHERE id = ? AND user_id = ? AND sync_status = ?`
				args = []any{p.ID, sess.UserID, model.Deleted}
			default:
				return common.NewValidationError("kind", "unknown settle kind")
			}
			r, err := tx.ExecContext(ctx, q, args...)
			if err != nil {
				return fmt.Errorf("settle %s %s: %w", kind, p.ID, err)
			}
			n, _ := r.RowsAffected()
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// SettleImages переводит NOT_SYNCED -> SYNCED только изображения с непустым cloudinary_url.
func (s *JournalStore) SettleImages(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+2)
	args = append(args, model.Synced, model.NotSynced)
	for _, id := range ids {
		args = append(args, id)
	}
	r, err := s.db.ExecContext(ctx, `UPDATE images SET sync_status = ?
        WHERE sync_status = ? AND cloudinary_url <> '' AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("settle images: %w", err)
	}
	return r.RowsAffected()
}
