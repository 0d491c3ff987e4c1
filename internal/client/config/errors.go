package config

import "errors"

var (
	ErrReadConfigFile     = errors.New("config: cannot read config file")
	ErrParseConfigFile    = errors.New("config: cannot parse config file")
	ErrParseEnv           = errors.New("config: invalid environment value")
	ErrUnknownBackend     = errors.New("config: unknown backend")
	ErrInvalidURL         = errors.New("config: invalid URL")
	ErrInvalidEpochs      = errors.New("config: epochs must be positive")
	ErrInvalidObjectID    = errors.New("config: invalid object id")
	ErrNoKeyServers       = errors.New("config: no key servers configured")
	ErrInvalidThreshold   = errors.New("config: threshold must be between 2 and the number of key servers")
	ErrMissingBucket      = errors.New("config: s3 bucket is required")
	ErrInvalidTimeout     = errors.New("config: http timeout must be positive")
	ErrInvalidSessionTTL  = errors.New("config: session ttl must be positive")
	ErrInvalidMaxFileSize = errors.New("config: max file size must be positive")
	ErrEmptySealSeed      = errors.New("config: seal seed is empty")
)
