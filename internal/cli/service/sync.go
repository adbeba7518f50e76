package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"JourFlow/internal/cli/api"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/common"
)

// ErrSyncInProgress — проход уже выполняется; новый отклоняется, а не ставится в очередь.
var ErrSyncInProgress = errors.New("sync already in progress")

// ErrNoImageHost — есть изображения к отправке, но хост изображений не настроен.
var ErrNoImageHost = errors.New("image host is not configured")

// SyncStore — часть локального хранилища, нужная синхронизации.
type SyncStore interface {
	ListPendingPosts(ctx context.Context, sess model.Session, status model.SyncStatus) ([]model.Post, error)
	ListPendingImages(ctx context.Context, sess model.Session) ([]model.Image, error)
	MergeRemote(ctx context.Context, sess model.Session, posts []model.Post, images []model.Image) (model.MergeResult, error)
	SettlePosts(ctx context.Context, sess model.Session, kind model.SettleKind, pushed []model.Post) (int64, error)
	SettleImages(ctx context.Context, ids []string) (int64, error)
}

// Remote — удалённый API синхронизации.
type Remote interface {
	FetchAll(ctx context.Context, userID string) (*api.Snapshot, error)
	AddPosts(ctx context.Context, posts []model.Post) error
	AddImages(ctx context.Context, images []model.Image) error
	UpdatePosts(ctx context.Context, posts []model.Post) error
	DeletePosts(ctx context.Context, posts []model.Post) error
}

// Uploader — конвейер загрузки изображений.
type Uploader interface {
	EnsureUploaded(ctx context.Context, images []model.Image) ([]model.Image, []*AssetUploadError)
}

// SyncMarker хранит время последней успешной синхронизации.
type SyncMarker interface {
	SaveLastSyncAt(userID string, at time.Time) error
}

// Syncer выполняет проходы синхронизации: pull, удаления, новые посты, изображения, правки.
type Syncer struct {
	store  SyncStore
	remote Remote
	images Uploader
	marker SyncMarker
	log    *zap.SugaredLogger
	now    func() time.Time

	mu sync.Mutex
}

// NewSyncer создаёт оркестратор. marker может быть nil; images == nil годится только для Pull.
func NewSyncer(store SyncStore, remote Remote, images Uploader, marker SyncMarker, log *zap.SugaredLogger) *Syncer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Syncer{store: store, remote: remote, images: images, marker: marker, log: log, now: time.Now}
}

// Pull забирает полный снимок с сервера и вставляет неизвестные локально строки.
func (s *Syncer) Pull(ctx context.Context, sess model.Session) (model.MergeResult, error) {
	if !sess.Valid() {
		return model.MergeResult{}, common.NewValidationError("session", "no current user")
	}
	if !s.mu.TryLock() {
		return model.MergeResult{}, ErrSyncInProgress
	}
	defer s.mu.Unlock()
	return s.pull(ctx, sess)
}

func (s *Syncer) pull(ctx context.Context, sess model.Session) (model.MergeResult, error) {
	snap, err := s.remote.FetchAll(ctx, sess.UserID)
	if err != nil {
		return model.MergeResult{}, err
	}
	res, err := s.store.MergeRemote(ctx, sess, snap.Posts, snap.Images)
	if err != nil {
		return model.MergeResult{}, fmt.Errorf("merge: %w", err)
	}
	return res, nil
}

// RunPass выполняет один проход. Шаги независимы: сбой шага записывается в отчёт,
// следующие шаги всё равно выполняются. Возвращаемая ошибка равна report.Err().
func (s *Syncer) RunPass(ctx context.Context, sess model.Session) (PassReport, error) {
	if !sess.Valid() {
		return PassReport{}, common.NewValidationError("session", "no current user")
	}
	if !s.mu.TryLock() {
		return PassReport{}, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	rep := PassReport{StartedAt: s.now()}

	merge, err := s.pull(ctx, sess)
	rep.Merge = merge
	rep.Steps = append(rep.Steps, StepResult{
		Step: StepPull, Settled: int64(merge.PostsInserted + merge.ImagesInserted), Err: err,
	})

	rep.Steps = append(rep.Steps,
		s.pushPosts(ctx, sess, StepPushDeletes, model.Deleted, s.remote.DeletePosts, model.SettleDelete))
	rep.Steps = append(rep.Steps,
		s.pushPosts(ctx, sess, StepPushNew, model.NotSynced, s.remote.AddPosts, model.SettleAdd))

	imgStep, uploads := s.pushImages(ctx, sess)
	rep.Steps = append(rep.Steps, imgStep)
	rep.Uploads = uploads

	rep.Steps = append(rep.Steps,
		s.pushPosts(ctx, sess, StepPushUpdates, model.NeedsUpdate, s.remote.UpdatePosts, model.SettleUpdate))

	rep.FinishedAt = s.now()
	for _, st := range rep.Steps {
		if st.Err != nil {
			s.log.Warnw("sync step failed", "step", st.Step, "err", st.Err)
		} else {
			s.log.Debugw("sync step done", "step", st.Step, "sent", st.Sent, "settled", st.Settled)
		}
	}
	if !rep.Partial() && s.marker != nil {
		if err := s.marker.SaveLastSyncAt(sess.UserID, rep.FinishedAt); err != nil {
			s.log.Warnw("save last sync time", "err", err)
		}
	}
	return rep, rep.Err()
}

func (s *Syncer) pushPosts(
	ctx context.Context,
	sess model.Session,
	step string,
	status model.SyncStatus,
	send func(context.Context, []model.Post) error,
	kind model.SettleKind,
) StepResult {
	res := StepResult{Step: step}
	pending, err := s.store.ListPendingPosts(ctx, sess, status)
	if err != nil {
		res.Err = fmt.Errorf("list pending: %w", err)
		return res
	}
	if len(pending) == 0 {
		return res
	}
	if err := send(ctx, pending); err != nil {
		res.Err = err
		return res
	}
	res.Sent = len(pending)
	n, err := s.store.SettlePosts(ctx, sess, kind, pending)
	res.Settled = n
	if err != nil {
		res.Err = fmt.Errorf("settle: %w", err)
	}
	return res
}

func (s *Syncer) pushImages(ctx context.Context, sess model.Session) (StepResult, []*AssetUploadError) {
	res := StepResult{Step: StepPushImages}
	pending, err := s.store.ListPendingImages(ctx, sess)
	if err != nil {
		res.Err = fmt.Errorf("list pending: %w", err)
		return res, nil
	}
	if len(pending) == 0 {
		return res, nil
	}
	if s.images == nil {
		res.Err = ErrNoImageHost
		return res, nil
	}
	uploaded, failures := s.images.EnsureUploaded(ctx, pending)

	// на сервер уходят только изображения с долговечным URL
	ready := make([]model.Image, 0, len(uploaded))
	ids := make([]string, 0, len(uploaded))
	for _, im := range uploaded {
		if im.Uploaded() {
			ready = append(ready, im)
			ids = append(ids, im.ID)
		}
	}
	if len(ready) == 0 {
		return res, failures
	}
	if err := s.remote.AddImages(ctx, ready); err != nil {
		res.Err = err
		return res, failures
	}
	res.Sent = len(ready)
	n, err := s.store.SettleImages(ctx, ids)
	res.Settled = n
	if err != nil {
		res.Err = fmt.Errorf("settle: %w", err)
	}
	return res, failures
}
