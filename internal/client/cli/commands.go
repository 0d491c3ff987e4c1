package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"github.com/dmitrijs2005/blobkeeper/internal/filex"
	"github.com/dmitrijs2005/blobkeeper/internal/identity"
	"github.com/dmitrijs2005/blobkeeper/internal/seal"
	"github.com/dmitrijs2005/blobkeeper/internal/session"
	"github.com/dustin/go-humanize"
)

var errNothingUploaded = errors.New("no blob uploaded yet")

// report prints the controller's current message and turns an error
// message into an error.
func (a *App) report() error {
	s := a.ctrl.Snapshot()
	if s.Error != "" {
		printError(a.out, s.Error)
		return errors.New(s.Error)
	}
	if s.Success != "" {
		printSuccess(a.out, s.Success)
	}
	return nil
}

func (a *App) Select(ctx context.Context, path string) error {
	if path == "" {
		fmt.Fprintln(a.out, "Usage: select <path>")
		return nil
	}

	f, err := filex.Load(path)
	if err != nil {
		printError(a.out, fmt.Sprintf("Cannot open file: %v", err))
		return err
	}

	if !a.ctrl.SelectFile(f) {
		return a.report()
	}

	a.log.Debug(ctx, "file selected", "path", path, "type", f.Type(), "size", f.Size())
	printSuccess(a.out, fmt.Sprintf("Selected %s (%s, %s)", f.Name(), f.Type(), humanize.IBytes(uint64(f.Size()))))
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	if s := a.ctrl.Snapshot(); s.FileName != "" {
		fmt.Fprintf(a.out, "Encrypting and uploading %s...\n", s.FileName)
	}
	a.ctrl.Upload(ctx)
	return a.report()
}

// Retrieve shows the encrypted blob URL for blobID, or for the current
// query when blobID is empty.
func (a *App) Retrieve(ctx context.Context, blobID string) error {
	if blobID == "" {
		blobID = a.ctrl.Query()
	}

	a.ctrl.Retrieve(ctx, blobID)
	if err := a.report(); err != nil {
		return err
	}
	printField(a.out, "URL", a.ctrl.Snapshot().RetrievedURL)
	return nil
}

func (a *App) UseUploaded(_ context.Context) error {
	id, ok := a.ctrl.UseUploaded()
	if !ok {
		printError(a.out, "No blob uploaded yet")
		return errNothingUploaded
	}
	printSuccess(a.out, "Retrieval query set to "+id)
	return nil
}

func (a *App) Status(_ context.Context) error {
	s := a.ctrl.Snapshot()

	if s.FileName == "" {
		printField(a.out, "File", "none")
	} else {
		printField(a.out, "File", fmt.Sprintf("%s (%s, %s)", s.FileName, s.FileType, humanize.IBytes(uint64(s.FileSize))))
	}

	addr, ok := a.ident.CurrentAddress()
	if ok {
		printField(a.out, "Wallet", identity.Short(addr))
	} else {
		printField(a.out, "Wallet", "not connected")
	}

	printField(a.out, "Uploading", s.Uploading)
	printField(a.out, "Retrieving", s.Retrieving)
	if s.UploadedBlobID != "" {
		printField(a.out, "Blob ID", s.UploadedBlobID)
		printField(a.out, "Encryption ID", s.LastUpload.EncryptionID)
		printField(a.out, "Sui Ref", s.LastUpload.SuiRef)
	}
	if s.RetrieveQuery != "" {
		printField(a.out, "Query", s.RetrieveQuery)
	}
	if s.RetrievedURL != "" {
		printField(a.out, "URL", s.RetrievedURL)
	}
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	addr, ok := a.ident.CurrentAddress()
	if !ok {
		printError(a.out, "Not connected")
		return nil
	}
	printField(a.out, "Connected", identity.Short(addr))
	printField(a.out, "Address", addr)
	return nil
}

func (a *App) Connect(ctx context.Context, address string) error {
	a.ident.Connect(address)
	a.log.Info(ctx, "wallet connected", "address", address)
	printSuccess(a.out, "Connected "+identity.Short(address))
	return nil
}

func (a *App) Disconnect(ctx context.Context) error {
	a.ident.Disconnect()
	a.log.Info(ctx, "wallet disconnected")
	printSuccess(a.out, "Disconnected")
	return nil
}

// Reset clears the controller state. The wallet stays connected.
func (a *App) Reset(ctx context.Context) error {
	a.ctrl.Reset()
	a.log.Debug(ctx, "state reset")
	printSuccess(a.out, "State cleared")
	return nil
}

// Put selects and uploads path in one step.
func (a *App) Put(ctx context.Context, path string) error {
	if path == "" {
		printError(a.out, "Please select a file first")
		return fmt.Errorf("%w: no path given", common.ErrValidation)
	}
	if err := a.Select(ctx, path); err != nil {
		return err
	}
	return a.Upload(ctx)
}

// PutRaw uploads path unencrypted. An empty contentType uses the detected
// file type.
func (a *App) PutRaw(ctx context.Context, path, contentType string) error {
	if path == "" {
		printError(a.out, "Please select a file first")
		return fmt.Errorf("%w: no path given", common.ErrValidation)
	}

	f, err := filex.Load(path)
	if err != nil {
		printError(a.out, fmt.Sprintf("Cannot open file: %v", err))
		return err
	}
	data, err := f.ReadAll()
	if err != nil {
		printError(a.out, fmt.Sprintf("Cannot read file: %v", err))
		return err
	}
	if contentType == "" {
		contentType = f.Type()
	}

	fmt.Fprintf(a.out, "Uploading %s unencrypted...\n", f.Name())
	blobID, err := a.gateway.StoreData(ctx, data, contentType)
	if err != nil {
		printError(a.out, fmt.Sprintf("Upload failed: %v", err))
		return err
	}

	printSuccess(a.out, "Uploaded "+humanize.IBytes(uint64(len(data)))+" as "+contentType)
	printField(a.out, "Blob ID", blobID)
	printField(a.out, "URL", a.gateway.RetrieveURL(blobID))
	return nil
}

// GetOptions tune App.Get.
type GetOptions struct {
	// Out is the destination file. Empty means DownloadDir/<blobId>.bin.
	Out          string
	EncryptionID string
	// WithSession presents a freshly issued session key to the decrypt path.
	WithSession bool
}

// Get downloads blobID through the decrypt path and writes the result.
func (a *App) Get(ctx context.Context, blobID string, opts GetOptions) error {
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		printError(a.out, "Please enter a blob ID to retrieve")
		return fmt.Errorf("%w: blob id is empty", common.ErrValidation)
	}

	var cred session.Credential
	if opts.WithSession {
		key, err := a.issueSession(ctx)
		if err != nil {
			printError(a.out, fmt.Sprintf("Cannot create session key: %v", err))
			return err
		}
		cred = key
	}

	data, err := a.gateway.RetrieveAndDecrypt(ctx, blobID, opts.EncryptionID, cred)
	if err != nil {
		printError(a.out, fmt.Sprintf("Retrieval failed: %v", err))
		return err
	}

	dir, name := a.config.DownloadDir, blobID+".bin"
	if opts.Out != "" {
		dir, name = filepath.Dir(opts.Out), filepath.Base(opts.Out)
	}

	path, err := filex.WriteFile(dir, name, data)
	if err != nil {
		printError(a.out, fmt.Sprintf("Cannot save blob: %v", err))
		return err
	}

	printSuccess(a.out, fmt.Sprintf("Saved %s of encrypted data to %s", humanize.IBytes(uint64(len(data))), path))
	return nil
}

// issueSession signs a session key for the connected address. Missing
// address or secret are asked for on an interactive terminal.
func (a *App) issueSession(ctx context.Context) (*session.Key, error) {
	addr, ok := a.ident.CurrentAddress()
	if !ok {
		if !isTerminal() {
			return nil, errors.New("no wallet connected")
		}
		text, err := GetSimpleText(a.reader, "Wallet address", a.out)
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, errors.New("no wallet connected")
		}
		a.ident.Connect(text)
		addr = text
	}

	secret := []byte(a.config.SessionSecret)
	if len(secret) == 0 && isTerminal() {
		s, err := GetSecret(a.out, "Session secret: ")
		if err != nil {
			return nil, err
		}
		secret = s
	}
	defer common.WipeByteArray(secret)

	key, err := session.Issue(addr, a.config.PackageID, a.config.SessionTTL, secret)
	if err != nil {
		return nil, err
	}
	a.log.Debug(ctx, "session key issued", "address", addr, "expires_at", key.ExpiresAt)
	return key, nil
}

// Details prints the policy parameters for encryptionID.
func (a *App) Details(_ context.Context, encryptionID string) error {
	policy, nonce, err := seal.SplitEncryptionID(encryptionID)
	if err != nil {
		printError(a.out, fmt.Sprintf("Invalid encryption ID: %v", err))
		return err
	}

	d := a.gateway.EncryptionDetails(encryptionID)
	printField(a.out, "Encryption ID", d.EncryptionID)
	printField(a.out, "Policy object", d.PolicyObjectID)
	printField(a.out, "Package", d.PackageID)
	printField(a.out, "Threshold", fmt.Sprintf("%d of %d key servers", d.Threshold, d.ServerCount))
	printField(a.out, "Embedded policy", "0x"+hex.EncodeToString(policy))
	printField(a.out, "Nonce", hex.EncodeToString(nonce))

	if want, err := seal.DecodeHex(d.PolicyObjectID); err == nil && !bytes.Equal(want, policy) {
		printError(a.out, "Embedded policy object differs from the configured one")
	}
	return nil
}
