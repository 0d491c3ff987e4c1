package config

import (
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/walrus"
)

const (
	BackendWalrus = "walrus"
	BackendS3     = "s3"
)

// Testnet policy constants.
const (
	DefaultPolicyObjectID = "0xca700b2604763639ba3fbf0237d4f1ab34470ac509d407d34030621b1a254747"
	DefaultPackageID      = "0xcfedf4e2445497ba1a5d57349d6fc116b194eca41524f46f593c63a7a70a8eab"
)

// DefaultKeyServers are the testnet key server object ids.
var DefaultKeyServers = []string{
	"0x73d05d62c18d9374e3ea529e8e0ed6161da1a141a94d3f76ae3fe4e99356db75",
	"0xf5d14a81a982144ae441cd7d64b09027f116a468bd36e7eca494f750591623c8",
	"0x6068c0acb197dddbacd4746a9de7f025b2ed5a5b6c1b1ab44dade4426d141da2",
	"0x5466b7df5c15b508678d51496ada8afab0d6f70a01c10613123382b1b8131007",
}

// Config holds runtime settings for the blobkeeper CLI.
//
// Units: HTTPTimeout and SessionTTL are time.Duration, MaxFileSize is bytes.
type Config struct {
	Backend string

	PublisherURL  string
	AggregatorURL string
	Epochs        int

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	PolicyObjectID string
	PackageID      string
	Threshold      int
	KeyServers     []string

	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string

	WalletAddress string
	SessionSecret string
	SessionTTL    time.Duration
	SealSeed      string

	MaxFileSize int64
	DownloadDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendWalrus

	c.PublisherURL = walrus.DefaultPublisherURL
	c.AggregatorURL = walrus.DefaultAggregatorURL
	c.Epochs = 5

	c.S3Bucket = "blobkeeper"
	c.S3Region = "us-east-1"
	c.S3Endpoint = "http://127.0.0.1:9000"

	c.PolicyObjectID = DefaultPolicyObjectID
	c.PackageID = DefaultPackageID
	c.Threshold = 2
	c.KeyServers = append([]string(nil), DefaultKeyServers...)

	c.HTTPTimeout = 60 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"

	c.SessionTTL = 10 * time.Minute
	c.SealSeed = "blobkeeper-local-seal"

	c.MaxFileSize = 10 * 1024 * 1024
	c.DownloadDir = "downloads"
}

// LoadConfig builds a Config from defaults, the JSON file named by
// --config, the environment and the flags the user set, in that order,
// then validates it.
func LoadConfig(f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f != nil {
		if err := parseJSON(cfg, f.ConfigPath()); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
