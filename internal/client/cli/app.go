package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
	s3store "github.com/dmitrijs2005/blobkeeper/internal/blobstore/s3"
	"github.com/dmitrijs2005/blobkeeper/internal/client/config"
	"github.com/dmitrijs2005/blobkeeper/internal/client/demo"
	"github.com/dmitrijs2005/blobkeeper/internal/gateway"
	"github.com/dmitrijs2005/blobkeeper/internal/identity"
	"github.com/dmitrijs2005/blobkeeper/internal/logging"
	"github.com/dmitrijs2005/blobkeeper/internal/netx"
	"github.com/dmitrijs2005/blobkeeper/internal/seal"
	"github.com/dmitrijs2005/blobkeeper/internal/walrus"
)

// App is the composition root: one gateway and one controller per process.
type App struct {
	config  *config.Config
	log     logging.Logger
	gateway *gateway.Gateway
	ctrl    *demo.Controller
	ident   *identity.Static
	out     io.Writer
	reader  *bufio.Reader
}

// NewApp builds every dependency from c. Logs go to errOut, user-facing
// output to out.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	logger, err := logging.New(errOut, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(ctx, c)
	if err != nil {
		return nil, err
	}

	sealer, err := seal.NewLocalSealer([]byte(c.SealSeed), c.KeyServers)
	if err != nil {
		return nil, fmt.Errorf("init sealer: %w", err)
	}

	gw := gateway.New(backend, sealer, gateway.Config{
		PolicyObjectID: c.PolicyObjectID,
		PackageID:      c.PackageID,
		Threshold:      c.Threshold,
		KeyServers:     c.KeyServers,
	}, logger)

	ident := identity.NewStatic(c.WalletAddress)

	logger.Debug(ctx, "app initialised", "backend", c.Backend, "key_servers", sealer.ServerCount(), "threshold", c.Threshold)

	return &App{
		config:  c,
		log:     logger,
		gateway: gw,
		ctrl:    demo.New(gw, ident, c.MaxFileSize),
		ident:   ident,
		out:     out,
		reader:  bufio.NewReader(in),
	}, nil
}

func newBackend(ctx context.Context, c *config.Config) (blobstore.Backend, error) {
	switch c.Backend {
	case config.BackendS3:
		st, err := s3store.New(ctx, s3store.Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 backend: %w", err)
		}
		return st, nil
	default:
		return walrus.NewClient(walrus.Config{
			PublisherURL:  c.PublisherURL,
			AggregatorURL: c.AggregatorURL,
			Epochs:        c.Epochs,
			HTTPClient:    netx.NewHTTPClient(c.HTTPTimeout),
		}), nil
	}
}
