package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env     Env
	Server  ServerConfig
	Upload  UploadConfig
	Storage StorageConfig
	Minio   MinioConfig
	NATS    NATSConfig
	Auth    AuthConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// UploadConfig drives the staging area, the upload limits and the reaper.
type UploadConfig struct {
	StagingDir        string        `envconfig:"UPLOAD_STAGING_DIR" default:"uploads"`
	MaxUploadSize     int64         `envconfig:"UPLOAD_MAX_SIZE" default:"104857600"` // 100MB
	InactivityTimeout time.Duration `envconfig:"UPLOAD_INACTIVITY_TIMEOUT" default:"10m"`
	SweepEvery        time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"1m"`
}

type StorageConfig struct {
	// Backend selects the artifact store: "fs" or "minio".
	Backend     string `envconfig:"STORAGE_BACKEND" default:"fs"`
	ArtifactDir string `envconfig:"STORAGE_ARTIFACT_DIR" default:"artifacts"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"filedrop-artifacts"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL        string `envconfig:"NATS_URL"`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"FILEDROP"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"filedrop.sessions"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens on both surfaces. When empty, or when
	// a request carries no token, the caller identity falls back to the
	// transport peer address.
	JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
