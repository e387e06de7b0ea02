package server

import (
	"time"

	"github.com/xiaoyuanzhu-com/project-import/config"
	"github.com/xiaoyuanzhu-com/project-import/vendors"
)

// Config holds server configuration
type Config struct {
	// Server infrastructure
	Port int
	Host string
	Env  string // "development" or "production"

	// Import journal
	DatabasePath string
	DBLogQueries bool

	// Autopilot service
	AutopilotBaseURL string
	HTTPTimeout      time.Duration

	// Import pipeline
	FetchConcurrency int
	MaxUploadBytes   int64

	// Blob backend
	BlobBackend string
	OSS         vendors.OSSConfig
}

// FromAppConfig derives the server configuration from the loaded app config
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		Port:             c.Port,
		Host:             c.Host,
		Env:              c.Env,
		DatabasePath:     c.DatabasePath,
		DBLogQueries:     c.DBLogQueries,
		AutopilotBaseURL: c.AutopilotBaseURL,
		HTTPTimeout:      c.HTTPTimeout,
		FetchConcurrency: c.FetchConcurrency,
		MaxUploadBytes:   c.MaxUploadBytes,
		BlobBackend:      c.BlobBackend,
		OSS: vendors.OSSConfig{
			Region:          c.OSSRegion,
			Bucket:          c.OSSBucket,
			Prefix:          c.OSSPrefix,
			AccessKeyID:     c.OSSAccessKeyID,
			AccessKeySecret: c.OSSAccessKeySecret,
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}
