package seal

import "context"

// Request carries everything the encryption capability needs.
type Request struct {
	Threshold int
	PackageID string
	ID        string
	Data      []byte
}

// Encryptor turns plaintext into ciphertext bound to (PackageID, ID).
// Implementations may call out to remote key servers.
type Encryptor interface {
	Encrypt(ctx context.Context, req Request) ([]byte, error)
}
