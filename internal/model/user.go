package model

import "time"

// User — серверная модель пользователя, заводится при первом входе через Google.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Email     string `gorm:"not null;uniqueIndex"`
	UserName  string
	AvatarURL string `gorm:"size:1000"`

	// bcrypt-хеш refresh-токена; сам токен сервер не хранит
	RefreshTokenHash string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
