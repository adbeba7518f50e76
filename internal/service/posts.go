package service

import (
	"JourFlow/internal/model"
	"JourFlow/internal/repo"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrEmptyBatch — клиент прислал пустой список.
var ErrEmptyBatch = errors.New("empty batch")

// PostChange — пост из запроса клиента вместе с его статусом синхронизации.
type PostChange struct {
	Post       model.Post
	SyncStatus int
}

// ImageChange — изображение из запроса клиента со статусом синхронизации.
type ImageChange struct {
	Image      model.Image
	SyncStatus int
}

// BatchResult — сколько строк пришло, сколько прошло фильтр статуса и сколько применено.
type BatchResult struct {
	Received int
	Accepted int
	Applied  int64
}

// PostService применяет пакеты изменений клиента. Каждый endpoint принимает
// только строки своего статуса; остальные молча отбрасываются.
type PostService struct {
	repo repo.PostRepository
	log  *zap.SugaredLogger
}

// NewPostService создаёт сервис постов.
func NewPostService(r repo.PostRepository, log *zap.SugaredLogger) *PostService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PostService{repo: r, log: log}
}

// Snapshot возвращает все посты и изображения пользователя.
func (s *PostService) Snapshot(ctx context.Context, userID string) ([]model.Post, []model.Image, error) {
	posts, images, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, images, nil
}

// AddPosts сохраняет новые посты (status NOT_SYNCED). Повтор уже сохранённых — не ошибка.
func (s *PostService) AddPosts(ctx context.Context, userID string, in []PostChange) (BatchResult, error) {
	posts, res, err := filterPosts(in, model.StatusNotSynced)
	if err != nil {
		return res, err
	}
	n, err := s.repo.CreatePosts(ctx, userID, posts)
	if err != nil {
		return res, fmt.Errorf("create posts: %w", err)
	}
	res.Applied = n
	s.log.Infow("posts added", "user_id", userID, "received", res.Received, "accepted", res.Accepted, "inserted", n)
	return res, nil
}

// UpdatePosts переписывает изменённые посты (status NEEDS_UPDATE).
// Неизвестные серверу ID пропускаются: клиент считает правку доставленной.
func (s *PostService) UpdatePosts(ctx context.Context, userID string, in []PostChange) (BatchResult, error) {
	posts, res, err := filterPosts(in, model.StatusNeedsUpdate)
	if err != nil {
		return res, err
	}
	n, err := s.repo.UpdatePosts(ctx, userID, posts)
	if err != nil {
		return res, fmt.Errorf("update posts: %w", err)
	}
	res.Applied = n
	if n < int64(len(posts)) {
		s.log.Warnw("update for unknown posts ignored", "user_id", userID, "accepted", len(posts), "updated", n)
	}
	return res, nil
}

// DeletePosts удаляет посты (status DELETED) и их изображения. Повторное удаление — не ошибка.
func (s *PostService) DeletePosts(ctx context.Context, userID string, in []PostChange) (BatchResult, error) {
	posts, res, err := filterPosts(in, model.StatusDeleted)
	if err != nil {
		return res, err
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	n, err := s.repo.DeletePosts(ctx, userID, ids)
	if err != nil {
		return res, fmt.Errorf("delete posts: %w", err)
	}
	res.Applied = n
	s.log.Infow("posts deleted", "user_id", userID, "accepted", len(ids), "deleted", n)
	return res, nil
}

// AddImages сохраняет загруженные изображения (status NOT_SYNCED) постов пользователя.
func (s *PostService) AddImages(ctx context.Context, userID string, in []ImageChange) (BatchResult, error) {
	res := BatchResult{Received: len(in)}
	if len(in) == 0 {
		return res, ErrEmptyBatch
	}
	images := make([]model.Image, 0, len(in))
	for _, ch := range in {
		if ch.SyncStatus != model.StatusNotSynced || ch.Image.CloudinaryURL == "" {
			continue
		}
		images = append(images, ch.Image)
	}
	res.Accepted = len(images)
	n, err := s.repo.CreateImages(ctx, userID, images)
	if err != nil {
		return res, fmt.Errorf("create images: %w", err)
	}
	res.Applied = n
	s.log.Infow("images added", "user_id", userID, "received", res.Received, "accepted", res.Accepted, "inserted", n)
	return res, nil
}

func filterPosts(in []PostChange, status int) ([]model.Post, BatchResult, error) {
	res := BatchResult{Received: len(in)}
	if len(in) == 0 {
		return nil, res, ErrEmptyBatch
	}
	out := make([]model.Post, 0, len(in))
	for _, ch := range in {
		if ch.SyncStatus == status && ch.Post.ID != "" {
			out = append(out, ch.Post)
		}
	}
	res.Accepted = len(out)
	return out, res, nil
}
