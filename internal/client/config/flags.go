package config

import "github.com/spf13/pflag"

// Flags binds the configuration flags to a pflag.FlagSet. Only flags the
// user changed are applied, so unset flags never mask JSON or environment
// values.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	v          Config
}

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// come from LoadDefaults.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	var d Config
	d.LoadDefaults()

	f := &Flags{fs: fs}

	fs.StringVarP(&f.configPath, "config", "c", "", "path to a JSON config file")

	fs.StringVar(&f.v.Backend, "backend", d.Backend, "blob backend: walrus or s3")
	fs.StringVar(&f.v.PublisherURL, "publisher", d.PublisherURL, "Walrus publisher base URL")
	fs.StringVar(&f.v.AggregatorURL, "aggregator", d.AggregatorURL, "Walrus aggregator base URL")
	fs.IntVar(&f.v.Epochs, "epochs", d.Epochs, "storage epochs for new blobs")

	fs.StringVar(&f.v.S3Bucket, "s3-bucket", d.S3Bucket, "S3 bucket")
	fs.StringVar(&f.v.S3Region, "s3-region", d.S3Region, "S3 region")
	fs.StringVar(&f.v.S3Endpoint, "s3-endpoint", d.S3Endpoint, "S3 endpoint (MinIO)")
	fs.StringVar(&f.v.S3AccessKey, "s3-access-key", "", "S3 access key")
	fs.StringVar(&f.v.S3SecretKey, "s3-secret-key", "", "S3 secret key")

	fs.StringVar(&f.v.PolicyObjectID, "policy-object", d.PolicyObjectID, "access policy object id")
	fs.StringVar(&f.v.PackageID, "package", d.PackageID, "policy package id")
	fs.IntVar(&f.v.Threshold, "threshold", d.Threshold, "key servers required to decrypt")
	fs.StringSliceVar(&f.v.KeyServers, "key-servers", d.KeyServers, "key server object ids")

	fs.DurationVar(&f.v.HTTPTimeout, "http-timeout", d.HTTPTimeout, "HTTP request timeout")
	fs.StringVar(&f.v.LogLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&f.v.LogFormat, "log-format", d.LogFormat, "log format: text or json")

	fs.StringVarP(&f.v.WalletAddress, "wallet", "w", "", "connected wallet address")
	fs.StringVar(&f.v.SessionSecret, "session-secret", "", "secret used to sign session keys")
	fs.DurationVar(&f.v.SessionTTL, "session-ttl", d.SessionTTL, "session key lifetime")
	fs.StringVar(&f.v.SealSeed, "seal-seed", d.SealSeed, "seed for the local key servers")

	fs.Int64Var(&f.v.MaxFileSize, "max-file-size", d.MaxFileSize, "largest accepted image in bytes")
	fs.StringVar(&f.v.DownloadDir, "download-dir", d.DownloadDir, "directory for downloaded blobs")

	return f
}

// ConfigPath is the value of --config.
func (f *Flags) ConfigPath() string {
	return f.configPath
}

func (f *Flags) apply(cfg *Config) {
	setIfChanged(f.fs, "backend", &cfg.Backend, f.v.Backend)
	setIfChanged(f.fs, "publisher", &cfg.PublisherURL, f.v.PublisherURL)
	setIfChanged(f.fs, "aggregator", &cfg.AggregatorURL, f.v.AggregatorURL)
	setIfChanged(f.fs, "epochs", &cfg.Epochs, f.v.Epochs)

	setIfChanged(f.fs, "s3-bucket", &cfg.S3Bucket, f.v.S3Bucket)
	setIfChanged(f.fs, "s3-region", &cfg.S3Region, f.v.S3Region)
	setIfChanged(f.fs, "s3-endpoint", &cfg.S3Endpoint, f.v.S3Endpoint)
	setIfChanged(f.fs, "s3-access-key", &cfg.S3AccessKey, f.v.S3AccessKey)
	setIfChanged(f.fs, "s3-secret-key", &cfg.S3SecretKey, f.v.S3SecretKey)

	setIfChanged(f.fs, "policy-object", &cfg.PolicyObjectID, f.v.PolicyObjectID)
	setIfChanged(f.fs, "package", &cfg.PackageID, f.v.PackageID)
	setIfChanged(f.fs, "threshold", &cfg.Threshold, f.v.Threshold)
	setIfChanged(f.fs, "key-servers", &cfg.KeyServers, f.v.KeyServers)

	setIfChanged(f.fs, "http-timeout", &cfg.HTTPTimeout, f.v.HTTPTimeout)
	setIfChanged(f.fs, "log-level", &cfg.LogLevel, f.v.LogLevel)
	setIfChanged(f.fs, "log-format", &cfg.LogFormat, f.v.LogFormat)

	setIfChanged(f.fs, "wallet", &cfg.WalletAddress, f.v.WalletAddress)
	setIfChanged(f.fs, "session-secret", &cfg.SessionSecret, f.v.SessionSecret)
	setIfChanged(f.fs, "session-ttl", &cfg.SessionTTL, f.v.SessionTTL)
	setIfChanged(f.fs, "seal-seed", &cfg.SealSeed, f.v.SealSeed)

	setIfChanged(f.fs, "max-file-size", &cfg.MaxFileSize, f.v.MaxFileSize)
	setIfChanged(f.fs, "download-dir", &cfg.DownloadDir, f.v.DownloadDir)
}

type flagValue interface {
	~string | ~int | ~int64 | []string
}

func setIfChanged[T flagValue](fs *pflag.FlagSet, name string, dst *T, v T) {
	if fs.Changed(name) {
		*dst = v
	}
}
