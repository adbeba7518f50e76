package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/cli/model/view"
	"JourFlow/internal/cli/repo"
	"JourFlow/internal/common"
)

// savedImagesDir — подкаталог IMAGES_DIR для скопированных изображений.
const savedImagesDir = "UserSavedImages"

// JournalService — локальные операции над дневником.
type JournalService struct {
	store     repo.JournalRepository
	imagesDir string
	now       func() time.Time
}

// NewJournalService создаёт сервис. imagesDir — куда копируются выбранные файлы.
func NewJournalService(store repo.JournalRepository, imagesDir string) *JournalService {
	return &JournalService{store: store, imagesDir: imagesDir, now: time.Now}
}

// Add копирует изображения в локальный каталог и создаёт пост.
func (s *JournalService) Add(ctx context.Context, sess model.Session, in model.NewPost) (string, error) {
	saved, err := s.saveImages(in.ImagePaths)
	if err != nil {
		return "", err
	}
	in.ImagePaths = saved
	id, err := s.store.CreatePost(ctx, sess, in)
	if err != nil {
		removeAll(saved)
		return "", err
	}
	return id, nil
}

// Edit применяет изменения; новые изображения копируются перед заменой.
func (s *JournalService) Edit(ctx context.Context, sess model.Session, id string, patch model.PostPatch) error {
	if patch.ImagePaths != nil {
		saved, err := s.saveImages(patch.ImagePaths)
		if err != nil {
			return err
		}
		if saved == nil {
			saved = []string{}
		}
		patch.ImagePaths = saved
		if err := s.store.UpdatePost(ctx, sess, id, patch); err != nil {
			removeAll(saved)
			return err
		}
		return nil
	}
	return s.store.UpdatePost(ctx, sess, id, patch)
}

// Delete мягко удаляет пост.
func (s *JournalService) Delete(ctx context.Context, sess model.Session, id string) error {
	return s.store.SoftDeletePost(ctx, sess, id)
}

// List возвращает посты по фильтру.
func (s *JournalService) List(ctx context.Context, sess model.Session, f model.PostFilter) ([]model.Post, error) {
	return s.store.QueryPosts(ctx, sess, f)
}

// Get возвращает пост с изображениями в виде DTO для вывода.
func (s *JournalService) Get(ctx context.Context, sess model.Session, id string) (*view.PostDetails, error) {
	p, err := s.store.GetPost(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	imgs, err := s.store.ListImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	d := &view.PostDetails{
		ID:      p.ID,
		Day:     p.Day(),
		Icon:    string(p.IconPath),
		Title:   p.Title,
		Content: p.Content,
		Status:  p.SyncStatus.String(),
		Updated: p.UpdateDate.Local().Format(time.RFC3339),
	}
	for _, im := range imgs {
		d.Images = append(d.Images, view.ImageLine{ID: im.ID, URL: im.URL, Uploaded: im.Uploaded()})
	}
	return d, nil
}

// HasPostOn сообщает, есть ли пост за день YYYY-MM-DD.
func (s *JournalService) HasPostOn(ctx context.Context, sess model.Session, day string) (bool, error) {
	posts, err := s.store.QueryPosts(ctx, sess, model.PostFilter{Day: day})
	if err != nil {
		return false, err
	}
	return len(posts) > 0, nil
}

// PostDaysInMonth возвращает дни с постами для месяца YYYY-MM.
func (s *JournalService) PostDaysInMonth(ctx context.Context, sess model.Session, ym string) ([]string, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(ym))
	if err != nil {
		return nil, common.NewValidationError("month", "expected YYYY-MM")
	}
	return s.store.PostDaysInMonth(ctx, sess, t.Year(), int(t.Month()))
}

// Pending возвращает число ожидающих синхронизации строк по видам.
func (s *JournalService) Pending(ctx context.Context, sess model.Session) (map[string]int, error) {
	return s.store.CountPending(ctx, sess)
}

// Wipe удаляет все локальные посты и изображения.
func (s *JournalService) Wipe(ctx context.Context) error {
	return s.store.Wipe(ctx)
}

// saveImages копирует файлы в IMAGES_DIR/UserSavedImages/image_<unixnano>_<i><ext>.
func (s *JournalService) saveImages(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	dir := filepath.Join(s.imagesDir, savedImagesDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("images dir: %w", err)
	}
	stamp := s.now().UnixNano()
	saved := make([]string, 0, len(paths))
	for i, src := range paths {
		dst := filepath.Join(dir, fmt.Sprintf("image_%d_%d%s", stamp, i, strings.ToLower(filepath.Ext(src))))
		if err := copyFile(src, dst); err != nil {
			removeAll(saved)
			return nil, common.NewValidationError("image", err.Error())
		}
		saved = append(saved, dst)
	}
	return saved, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
