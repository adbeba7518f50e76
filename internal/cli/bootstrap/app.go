// Package bootstrap собирает зависимости CLI из конфигурации.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"JourFlow/internal/cli/api"
	"JourFlow/internal/cli/asset"
	"JourFlow/internal/cli/model"
	fsrepo "JourFlow/internal/cli/repo/fs"
	reposqlite "JourFlow/internal/cli/repo/sqlite"
	"JourFlow/internal/cli/service"
	"JourFlow/internal/config"
)

// App — собранные зависимости CLI.
type App struct {
	Cfg     *config.Config
	Log     *zap.SugaredLogger
	Store   *reposqlite.JournalStore
	Session fsrepo.SessionFSStore
	API     *api.Client
	Auth    *service.AuthService
	Journal *service.JournalService
}

// NewLogger создаёт логгер CLI; вывод идёт в stderr.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	if strings.EqualFold(level, "debug") {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			lvl = zapcore.InfoLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Open открывает локальную БД, выполняет миграции и собирает сервисы.
// Возвращает (app, cleanup, error); cleanup закрывает БД и сбрасывает логгер.
func Open(ctx context.Context, cfg *config.Config) (*App, func() error, error) {
	log, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	dbPath, err := reposqlite.DefaultPath(cfg.ClientDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("db path: %w", err)
	}
	store, err := reposqlite.Open(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open local db: %w", err)
	}

	sess := fsrepo.SessionFSStore{Dir: cfg.ClientDBPath}
	client := api.New(cfg.ServerURL, cfg.RequestTimeout, api.TokenFunc(sess.Load), log.Named("api"))

	imagesDir := cfg.ImagesDir
	if imagesDir == "" {
		imagesDir = filepath.Dir(dbPath)
	}

	// Для начальной загрузки после входа достаточно Pull, хост изображений не нужен.
	puller := service.NewSyncer(store, client, nil, nil, log.Named("sync"))

	app := &App{
		Cfg:     cfg,
		Log:     log,
		Store:   store,
		Session: sess,
		API:     client,
		Auth:    service.NewAuthService(client, store, sess, sess, puller, log.Named("auth")),
		Journal: service.NewJournalService(store, imagesDir),
	}
	cleanup := func() error {
		_ = log.Sync()
		return store.Close()
	}
	return app, cleanup, nil
}

// CurrentSession возвращает сессию вошедшего пользователя.
func (a *App) CurrentSession(ctx context.Context) (model.Session, error) {
	sess, _, err := a.Auth.Current(ctx)
	return sess, err
}

// Syncer собирает оркестратор с хостом изображений из конфигурации.
// Если хост не настроен, посты синхронизируются, а шаг изображений завершается ошибкой.
func (a *App) Syncer(ctx context.Context) *service.Syncer {
	host, err := asset.New(ctx, asset.Options{
		Kind: a.Cfg.AssetHost,
		S3: asset.S3Config{
			Bucket:        a.Cfg.S3Bucket,
			Region:        a.Cfg.S3Region,
			Endpoint:      a.Cfg.S3Endpoint,
			AccessKey:     a.Cfg.S3AccessKey,
			SecretKey:     a.Cfg.S3SecretKey,
			PublicBaseURL: a.Cfg.S3PublicBaseURL,
		},
		Cloudinary: asset.CloudinaryConfig{
			CloudName:    a.Cfg.CloudinaryCloudName,
			UploadPreset: a.Cfg.CloudinaryUploadPreset,
			APIURL:       a.Cfg.CloudinaryAPIURL,
		},
		Timeout: a.Cfg.RequestTimeout,
	})
	var images service.Uploader
	if err != nil {
		a.Log.Warnw("image host unavailable", "asset_host", a.Cfg.AssetHost, "err", err)
	} else {
		images = service.NewImagePipeline(host, a.Store, a.Cfg.UploadConcurrency, a.Log.Named("images"))
	}
	return service.NewSyncer(a.Store, a.API, images, a.Session, a.Log.Named("sync"))
}
