package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BLOBKEEPER"

// envConfig mirrors Config field for field so the two convert directly.
// Names are split on word boundaries (PublisherURL becomes
// BLOBKEEPER_PUBLISHER_URL). It is pre-filled from the current Config, so
// unset variables leave values untouched.
type envConfig struct {
	Backend string `split_words:"true"`

	PublisherURL  string `split_words:"true"`
	AggregatorURL string `split_words:"true"`
	Epochs        int    `split_words:"true"`

	S3Bucket    string `split_words:"true"`
	S3Region    string `split_words:"true"`
	S3Endpoint  string `split_words:"true"`
	S3AccessKey string `split_words:"true"`
	S3SecretKey string `split_words:"true"`

	PolicyObjectID string   `split_words:"true"`
	PackageID      string   `split_words:"true"`
	Threshold      int      `split_words:"true"`
	KeyServers     []string `split_words:"true"`

	HTTPTimeout time.Duration `split_words:"true"`
	LogLevel    string        `split_words:"true"`
	LogFormat   string        `split_words:"true"`

	WalletAddress string        `split_words:"true"`
	SessionSecret string        `split_words:"true"`
	SessionTTL    time.Duration `split_words:"true"`
	SealSeed      string        `split_words:"true"`

	MaxFileSize int64  `split_words:"true"`
	DownloadDir string `split_words:"true"`
}

// parseEnv overlays cfg with BLOBKEEPER_* environment variables.
func parseEnv(cfg *Config) error {
	ec := envConfig(*cfg)
	if err := envconfig.Process(EnvPrefix, &ec); err != nil {
		return fmt.Errorf("%w: %w", ErrParseEnv, err)
	}
	*cfg = Config(ec)
	return nil
}
