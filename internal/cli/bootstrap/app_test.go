package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JourFlow/internal/cli/model"
	"JourFlow/internal/cli/service"
	"JourFlow/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL:         "http://127.0.0.1:1",
		ClientDBPath:      t.TempDir(),
		RequestTimeout:    time.Second,
		UploadConcurrency: 2,
		AssetHost:         "cloudinary",
		LogLevel:          "error",
	}
}

func TestOpen_WiresServices(t *testing.T) {
	app, cleanup, err := Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	_, err = app.CurrentSession(context.Background())
	assert.ErrorIs(t, err, service.ErrNotSignedIn)

	_, err = app.Store.UpsertUser(context.Background(), model.User{ID: "u1"})
	require.NoError(t, err)
	require.NoError(t, app.Session.SaveUserID("u1"))

	sess, err := app.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
}

func TestSyncer_WithoutImageHostStillSyncsPosts(t *testing.T) {
	cfg := testConfig(t)
	app, cleanup, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	s := app.Syncer(context.Background())
	require.NotNil(t, s)

	// сервер недоступен: ошибки шагов, но не паника
	_, err = app.Store.UpsertUser(context.Background(), model.User{ID: "u1"})
	require.NoError(t, err)
	rep, err := s.RunPass(context.Background(), model.Session{UserID: "u1"})
	assert.Error(t, err)
	assert.True(t, rep.Partial())
}

func TestNewLogger_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "bogus"} {
		l, err := NewLogger(lvl)
		require.NoError(t, err, lvl)
		assert.NotNil(t, l)
	}
}
