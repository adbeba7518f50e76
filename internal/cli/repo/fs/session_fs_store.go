package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"JourFlow/internal/cli/repo"
)

// SessionFSStore — файловое хранилище токена и указателя на текущего пользователя.
// Пустой Dir означает каталог пользовательского конфига ОС.
type SessionFSStore struct {
	Dir string
}

var (
	_ repo.TokenStore       = SessionFSStore{}
	_ repo.UserContextStore = SessionFSStore{}
)

// ErrNoSession — файл сессии отсутствует или пуст.
var ErrNoSession = errors.New("no active session")

func (s SessionFSStore) dir() (string, error) {
	base := s.Dir
	if base == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(cfg, "JourFlow")
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return "", err
	}
	return base, nil
}

func (s SessionFSStore) path(name string) (string, error) {
	d, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

func (s SessionFSStore) write(name, value string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// read читает файл и обрезает пробельные символы; пустой файл считается отсутствующим.
func (s SessionFSStore) read(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSession
		}
		return "", err
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", ErrNoSession
	}
	return v, nil
}

func (s SessionFSStore) remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Save сохраняет bearer-токен в файл.
func (s SessionFSStore) Save(token string) error { return s.write("auth_token", token) }

// Load читает bearer-токен из файла.
func (s SessionFSStore) Load() (string, error) { return s.read("auth_token") }

// Clear удаляет файл токена.
func (s SessionFSStore) Clear() error { return s.remove("auth_token") }

// SaveUserID сохраняет id текущего пользователя.
func (s SessionFSStore) SaveUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty user id")
	}
	return s.write("current_user", id)
}

// LoadUserID читает id текущего пользователя.
func (s SessionFSStore) LoadUserID() (string, error) { return s.read("current_user") }

// ClearUserID снимает указатель на пользователя; строка в БД остаётся.
func (s SessionFSStore) ClearUserID() error { return s.remove("current_user") }

func lastSyncName(userID string) string {
	return "last_sync_at_" + filepath.Base(userID)
}

// SaveLastSyncAt сохраняет время последней успешной синхронизации (RFC3339) per-user.
func (s SessionFSStore) SaveLastSyncAt(userID string, at time.Time) error {
	if userID == "" {
		return errors.New("empty user id")
	}
	return s.write(lastSyncName(userID), at.UTC().Format(time.RFC3339))
}

// LoadLastSyncAt читает время последней синхронизации.
func (s SessionFSStore) LoadLastSyncAt(userID string) (time.Time, error) {
	if userID == "" {
		return time.Time{}, errors.New("empty user id")
	}
	v, err := s.read(lastSyncName(userID))
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}
