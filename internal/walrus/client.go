// Package walrus talks to the Walrus HTTP API: blobs are published with
// PUT {publisher}/v1/blobs?epochs=N and read back with
// GET {aggregator}/v1/blobs/{blobId}.
package walrus

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
	"github.com/dmitrijs2005/blobkeeper/internal/netx"
)

const (
	DefaultPublisherURL  = "https://publisher.walrus-testnet.walrus.space"
	DefaultAggregatorURL = "https://aggregator.walrus-testnet.walrus.space"
	DefaultEpochs        = 1
)

// Config describes the two endpoints and the retention period.
type Config struct {
	PublisherURL  string
	AggregatorURL string
	Epochs        int
	HTTPClient    *http.Client
}

// Client implements blobstore.Backend for Walrus.
type Client struct {
	publisherURL  string
	aggregatorURL string
	epochs        int
	http          *http.Client
}

var _ blobstore.Backend = (*Client)(nil)

// NewClient fills in defaults for any zero Config field.
func NewClient(cfg Config) *Client {
	c := &Client{
		publisherURL:  strings.TrimRight(cfg.PublisherURL, "/"),
		aggregatorURL: strings.TrimRight(cfg.AggregatorURL, "/"),
		epochs:        cfg.Epochs,
		http:          cfg.HTTPClient,
	}
	if c.publisherURL == "" {
		c.publisherURL = DefaultPublisherURL
	}
	if c.aggregatorURL == "" {
		c.aggregatorURL = DefaultAggregatorURL
	}
	if c.epochs <= 0 {
		c.epochs = DefaultEpochs
	}
	if c.http == nil {
		c.http = netx.NewHTTPClient(60 * time.Second)
	}
	return c
}

func (c *Client) Epochs() int { return c.epochs }

// StoreURL is the publisher endpoint including the epochs query.
func (c *Client) StoreURL() string {
	return fmt.Sprintf("%s/v1/blobs?epochs=%d", c.publisherURL, c.epochs)
}

// BlobURL returns the aggregator URL for blobID. blobID is used verbatim.
func (c *Client) BlobURL(blobID string) string {
	return c.aggregatorURL + "/v1/blobs/" + blobID
}

// Publish PUTs body to the publisher and unwraps the response envelope.
// Non-2xx responses are reported with status and body; there is no retry.
func (c *Client) Publish(ctx context.Context, body []byte, contentType string) (*blobstore.PublishResult, error) {
	respBody, err := netx.Put(ctx, c.http, c.StoreURL(), body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return ParseStoreResponse(respBody)
}

// Fetch GETs the stored bytes from the aggregator.
func (c *Client) Fetch(ctx context.Context, blobID string) (*blobstore.Blob, error) {
	data, contentType, err := netx.Get(ctx, c.http, c.BlobURL(blobID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return &blobstore.Blob{Data: data, ContentType: contentType}, nil
}
