package repo

import (
	"context"

	"JourFlow/internal/cli/model"
)

// JournalRepository определяет порт доступа к локальному хранилищу дневника.
// Все пользовательские операции получают явную сессию.
type JournalRepository interface {
	UpsertUser(ctx context.Context, u model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreatePost(ctx context.Context, sess model.Session, in model.NewPost) (string, error)
	UpdatePost(ctx context.Context, sess model.Session, id string, patch model.PostPatch) error
	SoftDeletePost(ctx context.Context, sess model.Session, id string) error
	GetPost(ctx context.Context, sess model.Session, id string) (*model.Post, error)
	QueryPosts(ctx context.Context, sess model.Session, f model.PostFilter) ([]model.Post, error)
	PostDaysInMonth(ctx context.Context, sess model.Session, year int, month int) ([]string, error)
	ListImages(ctx context.Context, postID string) ([]model.Image, error)

	// Выборки для синхронизации.
	ListPendingPosts(ctx context.Context, sess model.Session, status model.SyncStatus) ([]model.Post, error)
	ListPendingImages(ctx context.Context, sess model.Session) ([]model.Image, error)
	CountPending(ctx context.Context, sess model.Session) (map[string]int, error)

	MergeRemote(ctx context.Context, sess model.Session, posts []model.Post, images []model.Image) (model.MergeResult, error)
	SettlePosts(ctx context.Context, sess model.Session, kind model.SettleKind, pushed []model.Post) (int64, error)
	SettleImages(ctx context.Context, ids []string) (int64, error)
	SetImageRemote(ctx context.Context, id, publicID, secureURL string) error

	Wipe(ctx context.Context) error
}
