package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig — unsigned upload через preset.
type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	APIURL       string // префикс upload API; пусто — api.cloudinary.com
	Folder       string
	Timeout      time.Duration
}

type unsignedUploader interface {
	UnsignedUpload(ctx context.Context, file interface{}, uploadPreset string, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryHost загружает изображения в Cloudinary.
type CloudinaryHost struct {
	cfg CloudinaryConfig
	up  unsignedUploader
}

var _ Host = (*CloudinaryHost)(nil)

// NewCloudinaryHost проверяет конфигурацию и создаёт хост.
func NewCloudinaryHost(cfg CloudinaryConfig) (*CloudinaryHost, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, errors.New("cloudinary: cloud name and upload preset are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	// unsigned upload: ключ и секрет не нужны
	cld, err := cloudinary.NewFromParams(cfg.CloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	if cfg.APIURL != "" {
		cld.Config.API.UploadPrefix = strings.TrimRight(cfg.APIURL, "/")
	}
	return &CloudinaryHost{cfg: cfg, up: &cld.Upload}, nil
}

// Upload отправляет файл через upload API.
func (h *CloudinaryHost) Upload(ctx context.Context, localPath string) (UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: open %s: %w", localPath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	resp, err := h.up.UnsignedUpload(ctx, f, h.cfg.UploadPreset, uploader.UploadParams{Folder: h.cfg.Folder})
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: upload: %w", err)
	}
	if resp == nil {
		return UploadResult{}, ErrEmptySecureURL
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("cloudinary: upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return UploadResult{}, ErrEmptySecureURL
	}
	return UploadResult{PublicID: resp.PublicID, SecureURL: resp.SecureURL}, nil
}
