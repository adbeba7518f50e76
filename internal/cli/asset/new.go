package asset

import (
	"context"
	"fmt"
	"time"
)

// Options — выбор и настройки хоста.
type Options struct {
	Kind       string // "s3" | "cloudinary"
	S3         S3Config
	Cloudinary CloudinaryConfig
	Timeout    time.Duration
}

// New создаёт хост по виду.
func New(ctx context.Context, o Options) (Host, error) {
	switch o.Kind {
	case "s3":
		return NewS3Host(ctx, o.S3)
	case "cloudinary", "":
		c := o.Cloudinary
		if c.Timeout == 0 {
			c.Timeout = o.Timeout
		}
		return NewCloudinaryHost(c)
	default:
		return nil, fmt.Errorf("unknown asset host %q", o.Kind)
	}
}
