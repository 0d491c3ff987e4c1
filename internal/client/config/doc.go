// Package config loads runtime configuration for the blobkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / --config.
//  3. Environment variables prefixed with BLOBKEEPER_.
//  4. Command-line flags the user actually set.
//
// The merged result is checked by (*Config).Validate.
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "backend": "walrus",
//	  "publisher_url": "https://publisher.walrus-testnet.walrus.space",
//	  "aggregator_url": "https://aggregator.walrus-testnet.walrus.space",
//	  "epochs": 5,
//	  "threshold": 2,
//	  "http_timeout": "60s",
//	  "log_level": "warn"
//	}
//
// # Environment
//
//	BLOBKEEPER_BACKEND, BLOBKEEPER_PUBLISHER_URL, BLOBKEEPER_AGGREGATOR_URL,
//	BLOBKEEPER_EPOCHS, BLOBKEEPER_POLICY_OBJECT_ID, BLOBKEEPER_PACKAGE_ID,
//	BLOBKEEPER_THRESHOLD, BLOBKEEPER_KEY_SERVERS (comma separated),
//	BLOBKEEPER_S3_BUCKET, BLOBKEEPER_S3_REGION, BLOBKEEPER_S3_ENDPOINT,
//	BLOBKEEPER_S3_ACCESS_KEY, BLOBKEEPER_S3_SECRET_KEY,
//	BLOBKEEPER_HTTP_TIMEOUT, BLOBKEEPER_LOG_LEVEL, BLOBKEEPER_LOG_FORMAT,
//	BLOBKEEPER_WALLET_ADDRESS, BLOBKEEPER_SESSION_SECRET,
//	BLOBKEEPER_SESSION_TTL, BLOBKEEPER_SEAL_SEED, BLOBKEEPER_MAX_FILE_SIZE,
//	BLOBKEEPER_DOWNLOAD_DIR
package config
