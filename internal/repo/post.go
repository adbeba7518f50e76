package repo

import (
	"JourFlow/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownPost — изображение ссылается на пост, которого у пользователя нет.
var ErrUnknownPost = errors.New("unknown post")

// PostRepository — записи дневника и изображения на сервере.
// Все операции ограничены владельцем userID.
type PostRepository interface {
	// ListByUser возвращает все посты пользователя и изображения этих постов.
	ListByUser(ctx context.Context, userID string) ([]model.Post, []model.Image, error)
	// CreatePosts вставляет посты; уже существующие ID пропускаются. Возвращает число вставленных.
	CreatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error)
	// CreateImages вставляет изображения постов пользователя; уже известные пропускаются.
	// Если хоть одно изображение ссылается на неизвестный или чужой пост, пакет
	// отклоняется целиком с ErrUnknownPost.
	CreateImages(ctx context.Context, userID string, images []model.Image) (int64, error)
	// UpdatePosts переписывает заголовок, текст, иконку и дату изменения. Неизвестные ID пропускаются.
	// Если у поста задан ImageIDs, изображения не из этого набора удаляются.
	UpdatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error)
	// DeletePosts удаляет посты вместе с изображениями.
	DeletePosts(ctx context.Context, userID string, ids []string) (int64, error)
}

type postRepo struct {
	db *gorm.DB
}

// NewPostRepository создаёт реализацию репозитория постов.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) ListByUser(ctx context.Context, userID string) ([]model.Post, []model.Image, error) {
	db := r.db.WithContext(ctx)
	var posts []model.Post
	if err := db.Where("user_id = ?", userID).Order("post_date").Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	var images []model.Image
	err := db.Where("post_id IN (?)", db.Model(&model.Post{}).Select("id").Where("user_id = ?", userID)).
		Order("id").Find(&images).Error
	if err != nil {
		return nil, nil, err
	}
	return posts, images, nil
}

func (r *postRepo) CreatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	for i := range posts {
		posts[i].UserID = userID
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&posts)
	return tx.RowsAffected, tx.Error
}

func (r *postRepo) CreateImages(ctx context.Context, userID string, images []model.Image) (int64, error) {
	if len(images) == 0 {
		return 0, nil
	}
	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := make([]string, 0, len(images))
		for _, im := range images {
			postIDs = append(postIDs, im.PostID)
		}
		var owned []string
		if err := tx.Model(&model.Post{}).Where("user_id = ? AND id IN ?", userID, postIDs).
			Pluck("id", &owned).Error; err != nil {
			return err
		}
		own := make(map[string]bool, len(owned))
		for _, id := range owned {
			own[id] = true
		}
		var unknown []string
		for _, im := range images {
			if !own[im.PostID] {
				unknown = append(unknown, im.PostID)
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: %s", ErrUnknownPost, strings.Join(unknown, ","))
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&images)
		inserted = res.RowsAffected
		return res.Error
	})
	return inserted, err
}

func (r *postRepo) UpdatePosts(ctx context.Context, userID string, posts []model.Post) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range posts {
			res := tx.Model(&model.Post{}).
				Where("id = ? AND user_id = ?", p.ID, userID).
				Updates(map[string]any{
					"title":       p.Title,
					"content":     p.Content,
					"icon_path":   p.IconPath,
					"update_date": p.UpdateDate,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			updated += res.RowsAffected
			if p.ImageIDs == nil {
				continue
			}
			// набор изображений заменяется целиком
			drop := tx.Where("post_id = ?", p.ID)
			if len(p.ImageIDs) > 0 {
				drop = drop.Where("id NOT IN ?", p.ImageIDs)
			}
			if err := drop.Delete(&model.Image{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return updated, err
}

func (r *postRepo) DeletePosts(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&model.Post{}).Where("user_id = ? AND id IN ?", userID, ids).
			Pluck("id", &owned).Error; err != nil {
			return err
		}
		if len(owned) == 0 {
			return nil
		}
		if err := tx.Where("post_id IN ?", owned).Delete(&model.Image{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", owned).Delete(&model.Post{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
