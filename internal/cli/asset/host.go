// Package asset загружает локальные файлы изображений во внешнее хранилище
// и возвращает долговечные URL.
package asset

import (
	"context"
	"errors"
)

// ErrEmptySecureURL — хранилище ответило без URL. Считается сбоем конкретного файла.
var ErrEmptySecureURL = errors.New("asset host returned empty secure url")

// UploadResult — идентификатор и публичный URL загруженного файла.
type UploadResult struct {
	PublicID  string
	SecureURL string
}

// Host — внешнее хранилище изображений: local path -> secure URL.
type Host interface {
	Upload(ctx context.Context, localPath string) (UploadResult, error)
}
