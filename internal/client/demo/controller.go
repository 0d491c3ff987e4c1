package demo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/blobkeeper/internal/gateway"
	"github.com/dmitrijs2005/blobkeeper/internal/identity"
	"github.com/dustin/go-humanize"
)

// DefaultMaxFileSize is the largest file SelectFile accepts.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

const (
	MsgNotImage        = "Please select an image file"
	MsgNoFile          = "Please select a file first"
	MsgNotConnected    = "Please connect your wallet first"
	MsgEmptyQuery      = "Please enter a blob ID to retrieve"
	MsgRetrieveSuccess = "Encrypted image retrieved successfully! Note: This shows the encrypted blob data. To decrypt, you need proper authorization."
)

// File is a candidate for upload.
type File interface {
	gateway.File
	Type() string
}

// Service is the part of the storage gateway the controller drives.
type Service interface {
	Store(ctx context.Context, file gateway.File, owner string) gateway.StoreOutcome
	RetrieveURL(blobID string) string
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	FileName string
	FileSize int64
	FileType string

	Uploading  bool
	Retrieving bool

	UploadedBlobID string
	LastUpload     gateway.StoreOutcome

	RetrieveQuery string
	RetrievedURL  string

	Error   string
	Success string
}

// Controller holds the upload/retrieve UI state. Upload and retrieve run
// independently; each has its own busy flag and generation so a completion
// only lands if no Reset happened since it started.
type Controller struct {
	svc     Service
	ident   identity.Provider
	maxSize int64

	mu          sync.Mutex
	uploadGen   uint64
	retrieveGen uint64
	file        File
	uploading  bool
	retrieving bool
	lastUpload gateway.StoreOutcome
	uploadedID string
	query      string
	url        string
	errMsg     string
	successMsg string
}

// New returns a controller. maxSize <= 0 selects DefaultMaxFileSize.
func New(svc Service, ident identity.Provider, maxSize int64) *Controller {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Controller{svc: svc, ident: ident, maxSize: maxSize}
}

// SizeLimitMessage is shown when a file exceeds the configured limit.
func (c *Controller) SizeLimitMessage() string {
	if c.maxSize < 1024*1024 {
		return "File size must be less than " + humanize.IBytes(uint64(c.maxSize))
	}
	return fmt.Sprintf("File size must be less than %dMB", c.maxSize/(1024*1024))
}

// SelectFile validates f and makes it the current file. A rejected file
// leaves the previous selection in place. It reports whether f was accepted.
func (c *Controller) SelectFile(f File) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f == nil {
		return false
	}
	c.successMsg = ""
	if !strings.HasPrefix(f.Type(), "image/") {
		c.errMsg = MsgNotImage
		return false
	}
	if f.Size() > c.maxSize {
		c.errMsg = c.SizeLimitMessage()
		return false
	}

	c.file = f
	c.errMsg = ""
	c.successMsg = ""
	return true
}

// Upload encrypts and stores the selected file on behalf of the connected
// address. It is a no-op while another upload is in flight.
func (c *Controller) Upload(ctx context.Context) {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return
	}
	c.errMsg = ""
	c.successMsg = ""
	if c.file == nil {
		c.errMsg = MsgNoFile
		c.mu.Unlock()
		return
	}
	owner, ok := c.ident.CurrentAddress()
	if !ok || owner == "" {
		c.errMsg = MsgNotConnected
		c.mu.Unlock()
		return
	}

	file := c.file
	c.uploading = true
	c.uploadGen++
	gen := c.uploadGen
	c.mu.Unlock()

	out := c.svc.Store(ctx, file, owner)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.uploadGen {
		return
	}
	c.uploading = false

	if !out.Success || out.BlobID == "" {
		msg := out.Error
		if msg == "" {
			msg = "Unknown encryption error"
		}
		c.errMsg = "Encrypted upload failed: " + msg
		return
	}

	c.lastUpload = out
	c.uploadedID = out.BlobID
	c.successMsg = fmt.Sprintf("Image encrypted and uploaded successfully!\nBlob ID: %s\nEncryption ID: %s\nSui Ref: %s",
		out.BlobID, out.EncryptionID, out.SuiRef)
}

// Retrieve resolves the encrypted blob URL for query. Surrounding
// whitespace is ignored.
func (c *Controller) Retrieve(ctx context.Context, query string) {
	c.mu.Lock()
	if c.retrieving {
		c.mu.Unlock()
		return
	}
	c.query = query
	c.errMsg = ""
	c.successMsg = ""
	blobID := strings.TrimSpace(query)
	if blobID == "" {
		c.errMsg = MsgEmptyQuery
		c.mu.Unlock()
		return
	}

	c.retrieving = true
	c.url = ""
	c.retrieveGen++
	gen := c.retrieveGen
	c.mu.Unlock()

	url, err := c.resolve(ctx, blobID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.retrieveGen {
		return
	}
	c.retrieving = false

	if err != nil {
		c.errMsg = "Retrieval failed: " + err.Error()
		return
	}
	c.url = url
	c.successMsg = MsgRetrieveSuccess
}

func (c *Controller) resolve(ctx context.Context, blobID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.svc.RetrieveURL(blobID), nil
}

// UseUploaded copies the last uploaded blob id into the retrieval query.
// It reports false when nothing was uploaded yet.
func (c *Controller) UseUploaded() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uploadedID == "" {
		return "", false
	}
	c.query = c.uploadedID
	return c.uploadedID, true
}

// Query returns the current retrieval query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Uploading:      c.uploading,
		Retrieving:     c.retrieving,
		UploadedBlobID: c.uploadedID,
		LastUpload:     c.lastUpload,
		RetrieveQuery:  c.query,
		RetrievedURL:   c.url,
		Error:          c.errMsg,
		Success:        c.successMsg,
	}
	if c.file != nil {
		s.FileName = c.file.Name()
		s.FileSize = c.file.Size()
		s.FileType = c.file.Type()
	}
	return s
}

// Reset drops the selection, results and messages. Uploads and retrievals
// still in flight finish without touching the new state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.uploadGen++
	c.retrieveGen++
	c.file = nil
	c.uploading = false
	c.retrieving = false
	c.lastUpload = gateway.StoreOutcome{}
	c.uploadedID = ""
	c.query = ""
	c.url = ""
	c.errMsg = ""
	c.successMsg = ""
}
