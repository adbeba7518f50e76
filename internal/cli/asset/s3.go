package asset

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config — параметры S3/MinIO.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // пусто — AWS; иначе MinIO и т.п. (path-style)
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // префикс публичных ссылок; пусто — стандартный адрес AWS
	Prefix        string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Host загружает изображения в бакет S3.
type S3Host struct {
	cfg    S3Config
	client putObjectAPI
}

var _ Host = (*S3Host)(nil)

// NewS3Host создаёт клиента S3 по конфигурации.
func NewS3Host(ctx context.Context, cfg S3Config) (*S3Host, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Host(cfg, client), nil
}

func newS3Host(cfg S3Config, client putObjectAPI) *S3Host {
	if cfg.Prefix == "" {
		cfg.Prefix = "journal"
	}
	return &S3Host{cfg: cfg, client: client}
}

// Upload кладёт файл в бакет под случайным ключом.
func (h *S3Host) Upload(ctx context.Context, localPath string) (UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("s3: open %s: %w", localPath, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := path.Join(h.cfg.Prefix, uuid.NewString()+ext)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	}); err != nil {
		return UploadResult{}, fmt.Errorf("s3: put %s: %w", key, err)
	}
	return UploadResult{PublicID: key, SecureURL: h.publicURL(key)}, nil
}

func (h *S3Host) publicURL(key string) string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/" + key
	}
	if h.cfg.Endpoint != "" {
		return strings.TrimRight(h.cfg.Endpoint, "/") + "/" + h.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.cfg.Bucket, h.cfg.Region, key)
}
