package commands

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JourFlow/internal/cli/service"
)

var createdID = regexp.MustCompile(`id:\s+(\S+)`)

func TestCommands_RequireSession(t *testing.T) {
	_, ts := newFakeServer(t)
	cfg := testConfig(t, ts.URL)
	ctx := context.Background()

	err := (postsCmd{}).Run(ctx, cfg, nil)
	assert.ErrorIs(t, err, service.ErrNotSignedIn)
	err = (statusCmd{}).Run(ctx, cfg, nil)
	assert.ErrorIs(t, err, service.ErrNotSignedIn)
}

func TestCommands_Usage(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	ctx := context.Background()

	cases := []struct {
		cmd  Command
		args []string
	}{
		{loginCmd{}, nil},
		{logoutCmd{}, []string{"extra"}},
		{statusCmd{}, []string{"extra"}},
		{postsCmd{}, []string{"extra"}},
		{postGetCmd{}, nil},
		{postAddCmd{}, []string{"--title=x"}},
		{postAddCmd{}, []string{"--icon=happy", "--date=31-12-2024"}},
		{postEditCmd{}, []string{"id-only"}},
		{postEditCmd{}, []string{"--title=x"}},
		{postEditCmd{}, []string{"id", "--clear-images", "--image=a.png"}},
		{postDeleteCmd{}, nil},
		{daysCmd{}, nil},
		{syncCmd{}, []string{"extra"}},
		{wipeCmd{}, nil},
	}
	for _, tc := range cases {
		err := tc.cmd.Run(ctx, cfg, tc.args)
		assert.ErrorIs(t, err, ErrUsage, "%s %v", tc.cmd.Name(), tc.args)
	}
}

func TestCommands_JournalLifecycle(t *testing.T) {
	srv, ts := newFakeServer(t)
	cfg := testConfig(t, ts.URL)
	ctx := context.Background()

	out := withStdoutCapture(t, func() {
		require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"google-token"}))
	})
	assert.Contains(t, out, "Alice <alice@example.com>")

	img := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))

	out = withStdoutCapture(t, func() {
		require.NoError(t, (postAddCmd{}).Run(ctx, cfg, []string{
			"--date=2024-03-05", "--icon=happy", "--title=Walk", "--content=park", "--image", img,
		}))
	})
	m := createdID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	// второй пост за тот же день запрещён
	err := (postAddCmd{}).Run(ctx, cfg, []string{"--date=2024-03-05", "--icon=sad", "--title=again"})
	assert.Error(t, err)

	out = withStdoutCapture(t, func() { require.NoError(t, (postsCmd{}).Run(ctx, cfg, []string{"--q=wal"})) })
	assert.Contains(t, out, "Walk")
	assert.Contains(t, out, "Всего: 1")

	out = withStdoutCapture(t, func() { require.NoError(t, (postsCmd{}).Run(ctx, cfg, []string{"--date=2024-03-06"})) })
	assert.Contains(t, out, "Нет записей")

	out = withStdoutCapture(t, func() { require.NoError(t, (daysCmd{}).Run(ctx, cfg, []string{"2024-03"})) })
	assert.Contains(t, out, "2024-03-05")

	out = withStdoutCapture(t, func() { require.NoError(t, (statusCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "new=1")
	assert.Contains(t, out, "images=1")
	assert.Contains(t, out, "Last sync: never")

	out = withStdoutCapture(t, func() {
		require.NoError(t, (postEditCmd{}).Run(ctx, cfg, []string{id, "--title=Long walk", "--clear-images"}))
	})
	assert.Contains(t, out, "Updated: "+id)

	out = withStdoutCapture(t, func() { require.NoError(t, (postGetCmd{}).Run(ctx, cfg, []string{id})) })
	assert.Contains(t, out, "Title:   Long walk")
	assert.Contains(t, out, "park")
	assert.NotContains(t, out, "Images:")

	// изображений нет: хост не нужен, проход полный
	out = withStdoutCapture(t, func() { require.NoError(t, (syncCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "Синхронизация завершена")
	assert.Equal(t, 1, srv.postCount())

	out = withStdoutCapture(t, func() { require.NoError(t, (statusCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "new=0 updated=0 deleted=0 images=0")
	assert.NotContains(t, out, "Last sync: never")

	withStdoutCapture(t, func() { require.NoError(t, (postDeleteCmd{}).Run(ctx, cfg, []string{id})) })
	withStdoutCapture(t, func() { require.NoError(t, (syncCmd{}).Run(ctx, cfg, nil)) })
	assert.Equal(t, 0, srv.postCount())

	out = withStdoutCapture(t, func() { require.NoError(t, (postsCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "Нет записей")

	withStdoutCapture(t, func() { require.NoError(t, (logoutCmd{}).Run(ctx, cfg, nil)) })
	assert.ErrorIs(t, (postsCmd{}).Run(ctx, cfg, nil), service.ErrNotSignedIn)
}

func TestSyncCmd_ServerFailureIsReported(t *testing.T) {
	srv, ts := newFakeServer(t)
	cfg := testConfig(t, ts.URL)
	ctx := context.Background()

	withStdoutCapture(t, func() { require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"tok"})) })
	withStdoutCapture(t, func() {
		require.NoError(t, (postAddCmd{}).Run(ctx, cfg, []string{"--date=2024-01-01", "--icon=normal", "--title=t"}))
	})

	srv.mu.Lock()
	srv.failAdd = true
	srv.mu.Unlock()

	var err error
	out := withStdoutCapture(t, func() { err = (syncCmd{}).Run(ctx, cfg, nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed, will retry")
	assert.Contains(t, out, "×")

	out = withStdoutCapture(t, func() { require.NoError(t, (statusCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "new=1")
}

func TestWipeCmd_ClearsLocalPosts(t *testing.T) {
	_, ts := newFakeServer(t)
	cfg := testConfig(t, ts.URL)
	ctx := context.Background()

	withStdoutCapture(t, func() { require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"tok"})) })
	withStdoutCapture(t, func() {
		require.NoError(t, (postAddCmd{}).Run(ctx, cfg, []string{"--date=2024-01-01", "--icon=normal", "--content=c"}))
	})
	withStdoutCapture(t, func() { require.NoError(t, (wipeCmd{}).Run(ctx, cfg, []string{"--yes"})) })

	out := withStdoutCapture(t, func() { require.NoError(t, (postsCmd{}).Run(ctx, cfg, nil)) })
	assert.Contains(t, out, "Нет записей")
}
