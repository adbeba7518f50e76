package repo

import "time"

// UserContextStore абстракция для хранения контекста пользователя:
// указатель на текущего пользователя и время последней синхронизации.
type UserContextStore interface {
	SaveUserID(id string) error
	LoadUserID() (string, error)
	ClearUserID() error

	SaveLastSyncAt(userID string, at time.Time) error
	LoadLastSyncAt(userID string) (time.Time, error)
}
