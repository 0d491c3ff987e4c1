package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendWalrus, c.Backend)
	assert.Equal(t, "https://publisher.walrus-testnet.walrus.space", c.PublisherURL)
	assert.Equal(t, "https://aggregator.walrus-testnet.walrus.space", c.AggregatorURL)
	assert.Equal(t, 5, c.Epochs)
	assert.Equal(t, 2, c.Threshold)
	assert.Len(t, c.KeyServers, 4)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(10*1024*1024), c.MaxFileSize)
	require.NoError(t, c.Validate())
}

func TestLoadDefaults_KeyServersAreCopied(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.KeyServers[0] = "0xff"

	assert.NotEqual(t, "0xff", DefaultKeyServers[0])
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"publisher_url": "http://json-publisher:31415",
		"epochs":        7,
		"threshold":     3,
		"http_timeout":  "5s",
	})

	t.Setenv("BLOBKEEPER_EPOCHS", "9")
	t.Setenv("BLOBKEEPER_HTTP_TIMEOUT", "7s")
	t.Setenv("BLOBKEEPER_WALLET_ADDRESS", "0xenv")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-c", path, "--http-timeout", "9s"}))

	cfg, err := LoadConfig(f)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	want.PublisherURL = "http://json-publisher:31415"
	want.Epochs = 9
	want.Threshold = 3
	want.HTTPTimeout = 9 * time.Second
	want.WalletAddress = "0xenv"

	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_NilFlags(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("BLOBKEEPER_THRESHOLD", "many")

	_, err := LoadConfig(nil)
	assert.ErrorIs(t, err, ErrParseEnv)
}

func TestLoadConfig_KeyServersFromEnv(t *testing.T) {
	t.Setenv("BLOBKEEPER_KEY_SERVERS", "0x01,0x02")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x01", "0x02"}, cfg.KeyServers)
}

func TestLoadConfig_ValidationFails(t *testing.T) {
	t.Setenv("BLOBKEEPER_BACKEND", "ipfs")

	_, err := LoadConfig(nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"s3 backend", func(c *Config) { c.Backend = BackendS3 }, nil},
		{"unknown backend", func(c *Config) { c.Backend = "ftp" }, ErrUnknownBackend},
		{"bad publisher", func(c *Config) { c.PublisherURL = "publisher" }, ErrInvalidURL},
		{"bad aggregator scheme", func(c *Config) { c.AggregatorURL = "ftp://agg" }, ErrInvalidURL},
		{"zero epochs", func(c *Config) { c.Epochs = 0 }, ErrInvalidEpochs},
		{"s3 without bucket", func(c *Config) { c.Backend = BackendS3; c.S3Bucket = "" }, ErrMissingBucket},
		{"s3 bad endpoint", func(c *Config) { c.Backend = BackendS3; c.S3Endpoint = "::" }, ErrInvalidURL},
		{"bad policy object", func(c *Config) { c.PolicyObjectID = "0xzz" }, ErrInvalidObjectID},
		{"empty package", func(c *Config) { c.PackageID = "" }, ErrInvalidObjectID},
		{"no key servers", func(c *Config) { c.KeyServers = nil }, ErrNoKeyServers},
		{"bad key server", func(c *Config) { c.KeyServers = []string{"0x01", "nope"} }, ErrInvalidObjectID},
		{"threshold too low", func(c *Config) { c.Threshold = 1 }, ErrInvalidThreshold},
		{"threshold too high", func(c *Config) { c.Threshold = 5 }, ErrInvalidThreshold},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, ErrInvalidTimeout},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, ErrInvalidSessionTTL},
		{"zero max size", func(c *Config) { c.MaxFileSize = 0 }, ErrInvalidMaxFileSize},
		{"empty seed", func(c *Config) { c.SealSeed = "" }, ErrEmptySealSeed},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, logging.ErrUnknownLevel},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, logging.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
