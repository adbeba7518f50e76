package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"JourFlow/internal/cli/api"
	"JourFlow/internal/cli/asset"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/cli/repo/sqlite"
)

func openStore(t *testing.T) (*sqlite.JournalStore, model.Session) {
	t.Helper()
	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, err = st.UpsertUser(context.Background(), model.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)
	return st, model.Session{UserID: "u1"}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDay(s)
	require.NoError(t, err)
	return d
}

func addPost(t *testing.T, st *sqlite.JournalStore, sess model.Session, day string, images ...string) string {
	t.Helper()
	id, err := st.CreatePost(context.Background(), sess, model.NewPost{
		Title: "t " + day, Content: "c", IconPath: model.IconNormal, PostDate: mustDay(t, day), ImagePaths: images,
	})
	require.NoError(t, err)
	return id
}

// fakeRemote — сервер в памяти, записывающий вызовы.
type fakeRemote struct {
	mu       sync.Mutex
	calls    []string
	snapshot api.Snapshot
	fail     map[string]error
	block    chan struct{} // если не nil, FetchAll ждёт закрытия
	entered  chan struct{} // закрывается, когда FetchAll начал ждать

	added, updated, deleted []model.Post
	images                  []model.Image
}

func newFakeRemote() *fakeRemote { return &fakeRemote{fail: map[string]error{}} }

func (f *fakeRemote) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) FetchAll(ctx context.Context, _ string) (*api.Snapshot, error) {
	if f.block != nil {
		if f.entered != nil {
			close(f.entered)
		}
		<-f.block
	}
	if err := f.record("fetch"); err != nil {
		return nil, err
	}
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeRemote) AddPosts(_ context.Context, p []model.Post) error {
	if err := f.record("add-post"); err != nil {
		return err
	}
	f.added = append(f.added, p...)
	return nil
}

func (f *fakeRemote) AddImages(_ context.Context, im []model.Image) error {
	if err := f.record("add-image"); err != nil {
		return err
	}
	f.images = append(f.images, im...)
	return nil
}

func (f *fakeRemote) UpdatePosts(_ context.Context, p []model.Post) error {
	if err := f.record("update"); err != nil {
		return err
	}
	f.updated = append(f.updated, p...)
	return nil
}

func (f *fakeRemote) DeletePosts(_ context.Context, p []model.Post) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.deleted = append(f.deleted, p...)
	return nil
}

// fakeHost отдаёт URL по пути файла; пути из failing — ошибка.
type fakeHost struct {
	mu      sync.Mutex
	uploads int
	failing map[string]bool
}

func (h *fakeHost) Upload(_ context.Context, p string) (asset.UploadResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uploads++
	if h.failing[p] {
		return asset.UploadResult{}, asset.ErrEmptySecureURL
	}
	return asset.UploadResult{PublicID: filepath.Base(p), SecureURL: "https://cdn.test/" + filepath.Base(p)}, nil
}

type memMarker struct {
	at map[string]time.Time
}

func (m *memMarker) SaveLastSyncAt(userID string, at time.Time) error {
	if m.at == nil {
		m.at = map[string]time.Time{}
	}
	m.at[userID] = at
	return nil
}

func newTestSyncerWithStore(st *sqlite.JournalStore) (*Syncer, *fakeRemote, *fakeHost, *memMarker) {
	remote := newFakeRemote()
	host := &fakeHost{}
	marker := &memMarker{}
	pipe := NewImagePipeline(host, st, 2, nil)
	return NewSyncer(st, remote, pipe, marker, nil), remote, host, marker
}
