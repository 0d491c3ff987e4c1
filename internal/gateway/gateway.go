// Package gateway is the storage façade used by the front end. It sequences
// identifier generation, encryption, publishing and response unwrapping, and
// builds retrieval URLs. A Gateway is constructed once by the composition
// root and shared; it keeps no per-call state.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"github.com/dmitrijs2005/blobkeeper/internal/logging"
	"github.com/dmitrijs2005/blobkeeper/internal/seal"
	"github.com/dmitrijs2005/blobkeeper/internal/session"
	"github.com/google/uuid"
)

// File is the minimal view of a user-selected file.
type File interface {
	Name() string
	Size() int64
	ReadAll() ([]byte, error)
}

// Config carries the access-policy constants.
type Config struct {
	PolicyObjectID string
	PackageID      string
	Threshold      int
	KeyServers     []string
}

// StoreOutcome is the result of one Store call. On failure only Error is set.
type StoreOutcome struct {
	Success      bool
	BlobID       string
	EncryptionID string
	SuiRef       string
	Error        string
}

// EncryptionDetails describes how an identifier was sealed.
type EncryptionDetails struct {
	EncryptionID   string
	PolicyObjectID string
	PackageID      string
	Threshold      int
	ServerCount    int
}

// Gateway encrypts files and stores them on a blob backend.
type Gateway struct {
	backend   blobstore.Backend
	encryptor seal.Encryptor
	cfg       Config
	logger    logging.Logger

	newEncryptionID func(policyObjectID string) (string, error)
	now             func() time.Time
}

// New returns a Gateway publishing to backend and sealing with encryptor.
func New(backend blobstore.Backend, encryptor seal.Encryptor, cfg Config, logger logging.Logger) *Gateway {
	return &Gateway{
		backend:         backend,
		encryptor:       encryptor,
		cfg:             cfg,
		logger:          logger,
		newEncryptionID: seal.NewEncryptionID,
		now:             time.Now,
	}
}

// Store encrypts file under a fresh encryption identifier and publishes the
// ciphertext. Any failure is reported in the outcome; nothing is retried and
// a blob published before a later failure is not cleaned up.
func (g *Gateway) Store(ctx context.Context, file File, owner string) StoreOutcome {
	log := g.logger.With("request_id", uuid.NewString(), "op", "store")

	out, err := g.store(ctx, log, file, owner)
	if err != nil {
		log.Error(ctx, "encrypted store failed", "error", err)
		return StoreOutcome{Success: false, Error: err.Error()}
	}
	return out
}

func (g *Gateway) store(ctx context.Context, log logging.Logger, file File, owner string) (StoreOutcome, error) {
	if file == nil {
		return StoreOutcome{}, fmt.Errorf("%w: no file selected", common.ErrValidation)
	}
	if owner == "" {
		return StoreOutcome{}, fmt.Errorf("%w: owner identity is empty", common.ErrValidation)
	}

	log.Info(ctx, "starting encrypted store", "file", file.Name(), "size", file.Size(), "owner", owner)

	encID, err := g.newEncryptionID(g.cfg.PolicyObjectID)
	if err != nil {
		return StoreOutcome{}, fmt.Errorf("generate encryption id: %w", err)
	}
	log.Debug(ctx, "generated encryption id", "encryption_id", encID)

	data, err := file.ReadAll()
	if err != nil {
		return StoreOutcome{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return StoreOutcome{}, fmt.Errorf("%w: file is empty", common.ErrValidation)
	}

	ciphertext, err := g.encryptor.Encrypt(ctx, seal.Request{
		Threshold: g.cfg.Threshold,
		PackageID: g.cfg.PackageID,
		ID:        encID,
		Data:      data,
	})
	if err != nil {
		return StoreOutcome{}, fmt.Errorf("encrypt: %w", err)
	}
	log.Debug(ctx, "encrypted", "plaintext_size", len(data), "ciphertext_size", len(ciphertext))

	res, err := g.backend.Publish(ctx, ciphertext, "")
	if err != nil {
		return StoreOutcome{}, err
	}

	log.Info(ctx, "encrypted store completed", "blob_id", res.BlobID, "sui_ref", res.SuiRef, "status", res.Status)

	return StoreOutcome{
		Success:      true,
		BlobID:       res.BlobID,
		EncryptionID: encID,
		SuiRef:       res.SuiRef,
	}, nil
}

// StoreData publishes data as-is with the given Content-Type and returns
// the blob id.
func (g *Gateway) StoreData(ctx context.Context, data []byte, contentType string) (string, error) {
	log := g.logger.With("request_id", uuid.NewString(), "op", "store_data")

	if len(data) == 0 {
		return "", fmt.Errorf("%w: data is empty", common.ErrValidation)
	}

	log.Info(ctx, "storing data", "size", len(data), "content_type", contentType)

	res, err := g.backend.Publish(ctx, data, contentType)
	if err != nil {
		log.Error(ctx, "store data failed", "error", err)
		return "", err
	}
	return res.BlobID, nil
}

// Retrieve downloads the stored bytes for blobID.
func (g *Gateway) Retrieve(ctx context.Context, blobID string) (*blobstore.Blob, error) {
	if blobID == "" {
		return nil, fmt.Errorf("%w: blob id is empty", common.ErrValidation)
	}

	blob, err := g.backend.Fetch(ctx, blobID)
	if err != nil {
		g.logger.Error(ctx, "retrieve failed", "blob_id", blobID, "error", err)
		return nil, err
	}

	g.logger.Info(ctx, "blob retrieved", "blob_id", blobID, "size", len(blob.Data), "content_type", blob.ContentType)
	return blob, nil
}

// RetrieveURL returns the URL serving the encrypted bytes of blobID. It does
// no I/O and no validation.
func (g *Gateway) RetrieveURL(blobID string) string {
	return g.backend.BlobURL(blobID)
}

// RetrieveAndDecrypt fetches blobID. Without a credential the ciphertext is
// returned unchanged. With one the call fails: the authorization handshake
// with the policy program is not implemented.
func (g *Gateway) RetrieveAndDecrypt(ctx context.Context, blobID, encryptionID string, cred session.Credential) ([]byte, error) {
	log := g.logger.With("request_id", uuid.NewString(), "op", "retrieve_decrypt", "blob_id", blobID, "encryption_id", encryptionID)

	blob, err := g.Retrieve(ctx, blobID)
	if err != nil {
		return nil, err
	}

	if noCredential(cred) {
		log.Warn(ctx, "no session credential, returning encrypted data unchanged")
		return blob.Data, nil
	}

	if cred.Expired(g.now()) {
		log.Warn(ctx, "session credential expired", "subject", cred.Subject())
	}

	err = fmt.Errorf("%w: decryption requires a valid session key and policy authorization; use the encrypted blob URL to view the raw data", common.ErrAuthorizationRequired)
	log.Error(ctx, "decrypt refused", "subject", cred.Subject(), "error", err)
	return nil, err
}

// noCredential reports whether cred is nil, including a nil *session.Key
// stored in the interface.
func noCredential(cred session.Credential) bool {
	if cred == nil {
		return true
	}
	k, ok := cred.(*session.Key)
	return ok && k == nil
}

// EncryptionDetails reports the policy parameters used for encryptionID.
func (g *Gateway) EncryptionDetails(encryptionID string) EncryptionDetails {
	return EncryptionDetails{
		EncryptionID:   encryptionID,
		PolicyObjectID: g.cfg.PolicyObjectID,
		PackageID:      g.cfg.PackageID,
		Threshold:      g.cfg.Threshold,
		ServerCount:    len(g.cfg.KeyServers),
	}
}
