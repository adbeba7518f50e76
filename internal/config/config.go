package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "localhost:8081"
	defaultAuthSecret     = "dev-secret-key"
	defaultRequestTimeout = 30 * time.Second
	defaultJWTTTL         = time.Hour
	defaultUploads        = 4
)

type Config struct {
	// Server-side settings
	DatabaseDSN    string        `env:"DATABASE_URI" yaml:"database_uri"`
	AuthSecret     string        `env:"AUTH_SECRET" yaml:"auth_secret"`
	JWTTTL         time.Duration `env:"JWT_TTL" yaml:"jwt_ttl"`
	GoogleClientID string        `env:"GOOGLE_CLIENT_ID" yaml:"google_client_id"`

	// Shared settings
	BaseURL     string `env:"BASE_URL" yaml:"base_url"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS" yaml:"enable_https"`
	LogLevel    string `env:"LOG_LEVEL" yaml:"log_level"`

	// Client-side settings
	ServerURL         string        `env:"-" yaml:"-"`
	ClientDBPath      string        `env:"CLIENT_DB_PATH" yaml:"client_db_path"` // каталог локальной БД и файлов сессии
	ImagesDir         string        `env:"IMAGES_DIR" yaml:"images_dir"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" yaml:"request_timeout"`
	UploadConcurrency int           `env:"UPLOAD_CONCURRENCY" yaml:"upload_concurrency"`

	// Asset host
	AssetHost              string `env:"ASSET_HOST" yaml:"asset_host"` // s3 | cloudinary
	S3Bucket               string `env:"S3_BUCKET" yaml:"s3_bucket"`
	S3Region               string `env:"S3_REGION" yaml:"s3_region"`
	S3Endpoint             string `env:"S3_ENDPOINT" yaml:"s3_endpoint"`
	S3AccessKey            string `env:"S3_ACCESS_KEY" yaml:"s3_access_key"`
	S3SecretKey            string `env:"S3_SECRET_KEY" yaml:"s3_secret_key"`
	S3PublicBaseURL        string `env:"S3_PUBLIC_BASE_URL" yaml:"s3_public_base_url"`
	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME" yaml:"cloudinary_cloud_name"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET" yaml:"cloudinary_upload_preset"`
	CloudinaryAPIURL       string `env:"CLOUDINARY_API_URL" yaml:"cloudinary_api_url"`

	ConfigFile string `env:"CONFIG_FILE" yaml:"-"`
	Version    bool   `env:"-" yaml:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// NewConfig собирает конфигурацию из .env, YAML-файла, окружения и флагов командной строки.
func NewConfig() *Config {
	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Load — то же, что NewConfig, но с явным набором флагов и аргументами.
// Порядок: YAML (CONFIG_FILE или --config), затем env, затем флаги, затем значения по умолчанию.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := configFilePath(args); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Server flags
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или sqlite:path)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	// Shared/client flags
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to YAML config file")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the JourFlow server (host:port)")
	fs.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	// Client flags
	fs.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "directory of the client SQLite DB and session files")
	fs.StringVar(&cfg.ImagesDir, "images-dir", cfg.ImagesDir, "directory for saved post images")
	fs.StringVar(&cfg.AssetHost, "asset-host", cfg.AssetHost, "image host: s3|cloudinary")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AuthSecret == "" {
		c.AuthSecret = defaultAuthSecret
	}
	// BaseURL: только "address:port" (без схемы и пути), иначе значение по умолчанию
	if !hostPortRe.MatchString(c.BaseURL) {
		c.BaseURL = defaultBaseURL
	}
	if c.EnableHTTPS {
		c.ServerURL = "https://" + c.BaseURL
	} else {
		c.ServerURL = "http://" + c.BaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = defaultUploads
	}
	if c.JWTTTL <= 0 {
		c.JWTTTL = defaultJWTTTL
	}
	c.AssetHost = strings.ToLower(strings.TrimSpace(c.AssetHost))
	if c.AssetHost == "" {
		c.AssetHost = "cloudinary"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// configFilePath ищет --config в аргументах, иначе берёт CONFIG_FILE.
func configFilePath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case !strings.HasPrefix(a, "-"):
			// дальше идёт команда
			return os.Getenv("CONFIG_FILE")
		}
	}
	return os.Getenv("CONFIG_FILE")
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
