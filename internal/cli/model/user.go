package model

// User — локальный кэш вошедшего пользователя.
type User struct {
	ID                string `json:"id"` // выдан сервером
	Username          string `json:"username"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatar_url"`
	JWT               string `json:"jwt"`
	GoogleAccessToken string `json:"google_access_token"`
	RefreshToken      string `json:"refresh_token"`
}

// Session — явный контекст текущего пользователя, передаётся в вызовы хранилища.
type Session struct {
	UserID string
}

// Valid возвращает true, если сессия указывает на пользователя.
func (s Session) Valid() bool { return s.UserID != "" }
