package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	LogLevel string

	// Data directory
	DataDir string

	// Import journal database
	DatabasePath string
	DBLogQueries bool

	// Autopilot service
	AutopilotBaseURL string
	HTTPTimeout      time.Duration

	// Import pipeline
	FetchConcurrency int
	MaxUploadBytes   int64

	// Blob backend: "http" (autopilot gateway) or "oss"
	BlobBackend        string
	OSSRegion          string
	OSSBucket          string
	OSSPrefix          string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = Load(viper.New(), "")
	})
	return cfg
}

// Load reads configuration from an optional config file and environment
// variables. Environment variables win over the file.
func Load(v *viper.Viper, configFile string) *Config {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	// A missing config file is fine, everything has a default
	_ = v.ReadInConfig()

	dataDir := v.GetString("MY_DATA_DIR")
	dbPath := v.GetString("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "app", "project-import", "imports.sqlite")
	}

	concurrency := v.GetInt("IMPORT_FETCH_CONCURRENCY")
	if concurrency < 1 {
		concurrency = 1
	}

	return &Config{
		Port:     v.GetInt("PORT"),
		Host:     v.GetString("HOST"),
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DataDir:      dataDir,
		DatabasePath: dbPath,
		DBLogQueries: v.GetString("DB_LOG_QUERIES") == "1",

		AutopilotBaseURL: strings.TrimRight(v.GetString("AUTOPILOT_AI_URL"), "/"),
		HTTPTimeout:      v.GetDuration("IMPORT_HTTP_TIMEOUT"),

		FetchConcurrency: concurrency,
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_MB") << 20,

		BlobBackend:        strings.ToLower(v.GetString("BLOB_BACKEND")),
		OSSRegion:          v.GetString("OSS_REGION"),
		OSSBucket:          v.GetString("OSS_BUCKET"),
		OSSPrefix:          v.GetString("OSS_PREFIX"),
		OSSAccessKeyID:     v.GetString("OSS_ACCESS_KEY_ID"),
		OSSAccessKeySecret: v.GetString("OSS_ACCESS_KEY_SECRET"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 12345)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MY_DATA_DIR", "./data")
	v.SetDefault("DATABASE_PATH", "")
	v.SetDefault("DB_LOG_QUERIES", "")
	v.SetDefault("AUTOPILOT_AI_URL", "")
	v.SetDefault("IMPORT_HTTP_TIMEOUT", "2m")
	v.SetDefault("IMPORT_FETCH_CONCURRENCY", 8)
	v.SetDefault("MAX_UPLOAD_MB", 64)
	v.SetDefault("BLOB_BACKEND", "http")
	v.SetDefault("OSS_REGION", "")
	v.SetDefault("OSS_BUCKET", "")
	v.SetDefault("OSS_PREFIX", "")
	v.SetDefault("OSS_ACCESS_KEY_ID", "")
	v.SetDefault("OSS_ACCESS_KEY_SECRET", "")
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// UseOSS reports whether blobs are read straight from an OSS bucket
func (c *Config) UseOSS() bool {
	return c.BlobBackend == "oss"
}
