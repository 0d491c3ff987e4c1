package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blobkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// slice fields stay nil when the key is absent so absent keys keep the
// value from the previous layer.
type JsonConfig struct {
	Backend *string `json:"backend"`

	PublisherURL  *string `json:"publisher_url"`
	AggregatorURL *string `json:"aggregator_url"`
	Epochs        *int    `json:"epochs"`

	S3Bucket    *string `json:"s3_bucket"`
	S3Region    *string `json:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint"`
	S3AccessKey *string `json:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key"`

	PolicyObjectID *string  `json:"policy_object_id"`
	PackageID      *string  `json:"package_id"`
	Threshold      *int     `json:"threshold"`
	KeyServers     []string `json:"key_servers"`

	HTTPTimeout *timex.Duration `json:"http_timeout"`
	LogLevel    *string         `json:"log_level"`
	LogFormat   *string         `json:"log_format"`

	WalletAddress *string         `json:"wallet_address"`
	SessionSecret *string         `json:"session_secret"`
	SessionTTL    *timex.Duration `json:"session_ttl"`
	SealSeed      *string         `json:"seal_seed"`

	MaxFileSize *int64  `json:"max_file_size"`
	DownloadDir *string `json:"download_dir"`
}

// parseJSON overlays cfg with the JSON file at path. An empty path is a
// no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfigFile, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParseConfigFile, path, err)
	}

	jc.applyTo(cfg)
	return nil
}

func (jc *JsonConfig) applyTo(cfg *Config) {
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.PublisherURL, jc.PublisherURL)
	setString(&cfg.AggregatorURL, jc.AggregatorURL)
	if jc.Epochs != nil {
		cfg.Epochs = *jc.Epochs
	}

	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	setString(&cfg.PolicyObjectID, jc.PolicyObjectID)
	setString(&cfg.PackageID, jc.PackageID)
	if jc.Threshold != nil {
		cfg.Threshold = *jc.Threshold
	}
	if jc.KeyServers != nil {
		cfg.KeyServers = jc.KeyServers
	}

	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	setString(&cfg.WalletAddress, jc.WalletAddress)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	setString(&cfg.SealSeed, jc.SealSeed)

	if jc.MaxFileSize != nil {
		cfg.MaxFileSize = *jc.MaxFileSize
	}
	setString(&cfg.DownloadDir, jc.DownloadDir)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
