package config

import (
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/blobkeeper/internal/logging"
	"github.com/dmitrijs2005/blobkeeper/internal/seal"
)

// Validate checks the merged configuration. The first problem found is
// returned wrapped around one of the package sentinels.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendWalrus:
		if err := validateURL("publisher", c.PublisherURL); err != nil {
			return err
		}
		if err := validateURL("aggregator", c.AggregatorURL); err != nil {
			return err
		}
		if c.Epochs <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidEpochs, c.Epochs)
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return ErrMissingBucket
		}
		if err := validateURL("s3 endpoint", c.S3Endpoint); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if err := validateObjectID("policy object", c.PolicyObjectID); err != nil {
		return err
	}
	if err := validateObjectID("package", c.PackageID); err != nil {
		return err
	}
	if len(c.KeyServers) == 0 {
		return ErrNoKeyServers
	}
	for _, id := range c.KeyServers {
		if err := validateObjectID("key server", id); err != nil {
			return err
		}
	}
	if c.Threshold < 2 || c.Threshold > len(c.KeyServers) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidThreshold, c.Threshold, len(c.KeyServers))
	}

	if c.HTTPTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}
	if c.SealSeed == "" {
		return ErrEmptySealSeed
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: %w: %q", logging.ErrUnknownFormat, c.LogFormat)
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s %q", ErrInvalidURL, name, raw)
	}
	return nil
}

func validateObjectID(name, id string) error {
	b, err := seal.DecodeHex(id)
	if err != nil || len(b) == 0 {
		return fmt.Errorf("%w: %s %q", ErrInvalidObjectID, name, id)
	}
	return nil
}
