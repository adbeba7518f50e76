package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTempCfg перенастраивает пользовательский конфиг‑каталог в temp для изоляции тестов.
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestSessionFSStore_Token_TrimsWhitespace(t *testing.T) {
	setTempCfg(t)
	st := SessionFSStore{}
	require.NoError(t, st.Save("tok-123\n\n"))

	// Дозапишем вручную лишние пробелы в конец файла, чтобы проверить trim
	p, _ := st.path("auth_token")
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, _ = f.WriteString("  \r\n")
	_ = f.Close()

	tok, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestSessionFSStore_Token_MissingEmptyAndClear(t *testing.T) {
	st := SessionFSStore{Dir: filepath.Join(t.TempDir(), "cfg")}

	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, st.Save(""))
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, st.Save("abc"))
	require.NoError(t, st.Clear())
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// повторная очистка не ошибка
	assert.NoError(t, st.Clear())
}

func TestSessionFSStore_UserID(t *testing.T) {
	st := SessionFSStore{Dir: t.TempDir()}

	assert.Error(t, st.SaveUserID("  "))
	require.NoError(t, st.SaveUserID("user-1\n"))

	id, err := st.LoadUserID()
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	require.NoError(t, st.ClearUserID())
	_, err = st.LoadUserID()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionFSStore_LastSyncAt(t *testing.T) {
	st := SessionFSStore{Dir: t.TempDir()}

	_, err := st.LoadLastSyncAt("")
	assert.Error(t, err)
	assert.Error(t, st.SaveLastSyncAt("", time.Now()))

	_, err = st.LoadLastSyncAt("bob")
	assert.ErrorIs(t, err, ErrNoSession)

	at := time.Date(2024, 1, 1, 10, 30, 0, 0, time.FixedZone("X", 3*3600))
	require.NoError(t, st.SaveLastSyncAt("bob", at))
	got, err := st.LoadLastSyncAt("bob")
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	// у другого пользователя своё значение
	_, err = st.LoadLastSyncAt("alice")
	assert.ErrorIs(t, err, ErrNoSession)
}
