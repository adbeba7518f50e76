package model

import "time"

// Статусы синхронизации, которые присылает клиент. На сервере строки хранятся без статуса:
// всё, что есть в БД, считается синхронизированным.
const (
	StatusNotSynced   = 0
	StatusSynced      = 1
	StatusNeedsUpdate = 2
	StatusDeleted     = 3
)

// Post — серверная копия записи дневника. ID выдаёт клиент.
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"not null;index"` // ссылка на users.id

	Title    string
	Content  string
	IconPath string `gorm:"not null"`

	PostDate   time.Time `gorm:"not null;index"`
	UpdateDate time.Time `gorm:"not null"`

	// ImageIDs — набор изображений поста из правки клиента; nil — изображения не трогать.
	ImageIDs []string `gorm:"-"`
}

// Image — изображение поста с URL на хосте изображений.
type Image struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	PostID string `gorm:"not null;index"` // ссылка на posts.id

	URL           string
	PublicID      string
	CloudinaryURL string `gorm:"not null"`
}
