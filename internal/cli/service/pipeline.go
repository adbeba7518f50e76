package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"JourFlow/internal/cli/asset"
	"JourFlow/internal/cli/model"
)

// DefaultUploadConcurrency — сколько изображений загружается одновременно.
const DefaultUploadConcurrency = 4

// AssetUploadError — сбой загрузки одного изображения. Остальные изображения не затрагивает.
type AssetUploadError struct {
	ImageID string
	Path    string
	Err     error
}

func (e *AssetUploadError) Error() string {
	return fmt.Sprintf("upload image %s (%s): %v", e.ImageID, e.Path, e.Err)
}

func (e *AssetUploadError) Unwrap() error { return e.Err }

// ImageWriter фиксирует результат загрузки в локальном хранилище.
type ImageWriter interface {
	SetImageRemote(ctx context.Context, id, publicID, secureURL string) error
}

// ImagePipeline превращает локальные файлы в долговечные URL.
type ImagePipeline struct {
	host  asset.Host
	store ImageWriter
	limit int
	log   *zap.SugaredLogger
}

// NewImagePipeline создаёт конвейер. limit <= 0 — DefaultUploadConcurrency.
func NewImagePipeline(host asset.Host, store ImageWriter, limit int, log *zap.SugaredLogger) *ImagePipeline {
	if limit <= 0 {
		limit = DefaultUploadConcurrency
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ImagePipeline{host: host, store: store, limit: limit, log: log}
}

// EnsureUploaded загружает изображения без cloudinary_url и записывает URL в хранилище.
// Уже загруженные пропускаются без сетевых вызовов. Порядок результата совпадает с входом;
// сбойные изображения возвращаются без изменений и перечисляются во втором значении.
func (p *ImagePipeline) EnsureUploaded(ctx context.Context, images []model.Image) ([]model.Image, []*AssetUploadError) {
	out := make([]model.Image, len(images))
	copy(out, images)
	failed := make([]*AssetUploadError, len(images))

	var g errgroup.Group
	g.SetLimit(p.limit)
	for i := range out {
		if out[i].Uploaded() {
			continue
		}
		g.Go(func() error {
			im := out[i]
			res, err := p.host.Upload(ctx, im.URL)
			if err == nil && res.SecureURL == "" {
				err = asset.ErrEmptySecureURL
			}
			if err == nil {
				err = p.store.SetImageRemote(ctx, im.ID, res.PublicID, res.SecureURL)
			}
			if err != nil {
				p.log.Warnw("image upload failed", "image_id", im.ID, "path", im.URL, "err", err)
				failed[i] = &AssetUploadError{ImageID: im.ID, Path: im.URL, Err: err}
				return nil
			}
			out[i].URL = res.SecureURL
			out[i].PublicID = res.PublicID
			out[i].CloudinaryURL = res.SecureURL
			return nil
		})
	}
	_ = g.Wait()

	var errs []*AssetUploadError
	for _, e := range failed {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return out, errs
}
