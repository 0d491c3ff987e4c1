package seal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/corvus-ch/shamir"
	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"github.com/dmitrijs2005/blobkeeper/internal/cryptox"
)

// ObjectVersion is the EncryptedObject format produced by LocalSealer.
const ObjectVersion = 1

// EncryptedShare is one key server's wrapped share of the data key.
type EncryptedShare struct {
	Server     string `json:"server"`
	Index      byte   `json:"index"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// EncryptedObject is the serialized output of LocalSealer.Encrypt.
type EncryptedObject struct {
	Version    int              `json:"version"`
	PackageID  string           `json:"package_id"`
	ID         string           `json:"id"`
	Threshold  int              `json:"threshold"`
	Shares     []EncryptedShare `json:"shares"`
	Nonce      []byte           `json:"nonce"`
	Ciphertext []byte           `json:"ciphertext"`
}

type keyServer struct {
	objectID string
	secret   []byte
}

// LocalSealer implements Encryptor without network access. Every configured
// key server gets a secret derived from seed, so a sealer built from the same
// seed and server list can Open what another one sealed.
type LocalSealer struct {
	servers []keyServer
}

var _ Encryptor = (*LocalSealer)(nil)

func NewLocalSealer(seed []byte, serverObjectIDs []string) (*LocalSealer, error) {
	if len(serverObjectIDs) == 0 {
		return nil, ErrNoKeyServers
	}

	servers := make([]keyServer, 0, len(serverObjectIDs))
	for _, id := range serverObjectIDs {
		secret, err := cryptox.DeriveKey(seed, []byte("blobkeeper/key-server/"+id))
		if err != nil {
			return nil, fmt.Errorf("derive key server secret: %w", err)
		}
		servers = append(servers, keyServer{objectID: id, secret: secret})
	}

	return &LocalSealer{servers: servers}, nil
}

// ServerCount reports how many key servers hold shares.
func (s *LocalSealer) ServerCount() int { return len(s.servers) }

func (s *LocalSealer) Encrypt(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.check(req.Threshold, req.PackageID, req.ID); err != nil {
		return nil, err
	}

	dataKey, err := common.GenerateRandByteArray(cryptox.KeySize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(dataKey)

	aad := binding(req.PackageID, req.ID)

	contentKey, err := cryptox.DeriveKey(dataKey, aad)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(contentKey)

	nonce, ciphertext, err := cryptox.SealGCM(contentKey, req.Data, aad)
	if err != nil {
		return nil, fmt.Errorf("seal content: %w", err)
	}

	parts, err := shamir.Split(dataKey, len(s.servers), req.Threshold)
	if err != nil {
		return nil, fmt.Errorf("split data key: %w", err)
	}

	indexes := make([]int, 0, len(parts))
	for idx := range parts {
		indexes = append(indexes, int(idx))
	}
	sort.Ints(indexes)

	shares := make([]EncryptedShare, 0, len(s.servers))
	for i, srv := range s.servers {
		idx := byte(indexes[i])

		wrapKey, err := cryptox.DeriveKey(srv.secret, aad)
		if err != nil {
			return nil, err
		}
		shareNonce, wrapped, err := cryptox.SealGCM(wrapKey, parts[idx], aad)
		if err != nil {
			return nil, fmt.Errorf("wrap share for %s: %w", srv.objectID, err)
		}

		shares = append(shares, EncryptedShare{Server: srv.objectID, Index: idx, Nonce: shareNonce, Ciphertext: wrapped})
	}

	return json.Marshal(EncryptedObject{
		Version:    ObjectVersion,
		PackageID:  req.PackageID,
		ID:         req.ID,
		Threshold:  req.Threshold,
		Shares:     shares,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
}

// Open decrypts an object produced by Encrypt using only the shares held by
// the listed key servers. At least Threshold of them must be known to s.
func (s *LocalSealer) Open(ctx context.Context, object []byte, serverObjectIDs []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var obj EncryptedObject
	if err := json.Unmarshal(object, &obj); err != nil {
		return nil, fmt.Errorf("decode encrypted object: %w", err)
	}
	if obj.Version != ObjectVersion {
		return nil, ErrUnsupportedVersion
	}

	allowed := make(map[string]struct{}, len(serverObjectIDs))
	for _, id := range serverObjectIDs {
		allowed[id] = struct{}{}
	}

	aad := binding(obj.PackageID, obj.ID)
	parts := make(map[byte][]byte, obj.Threshold)

	for _, share := range obj.Shares {
		if len(parts) == obj.Threshold {
			break
		}
		if _, ok := allowed[share.Server]; !ok {
			continue
		}
		srv, ok := s.server(share.Server)
		if !ok {
			continue
		}
		wrapKey, err := cryptox.DeriveKey(srv.secret, aad)
		if err != nil {
			return nil, err
		}
		part, err := cryptox.OpenGCM(wrapKey, share.Nonce, share.Ciphertext, aad)
		if err != nil {
			return nil, fmt.Errorf("unwrap share from %s: %w", share.Server, err)
		}
		parts[share.Index] = part
	}

	if obj.Threshold < 2 || len(parts) < obj.Threshold {
		return nil, ErrNotEnoughShares
	}

	dataKey, err := shamir.Combine(parts)
	if err != nil {
		return nil, fmt.Errorf("combine shares: %w", err)
	}
	defer common.WipeByteArray(dataKey)

	contentKey, err := cryptox.DeriveKey(dataKey, aad)
	if err != nil {
		return nil, err
	}

	return cryptox.OpenGCM(contentKey, obj.Nonce, obj.Ciphertext, aad)
}

func (s *LocalSealer) check(threshold int, packageID, id string) error {
	if packageID == "" {
		return ErrEmptyPackageID
	}
	if _, _, err := SplitEncryptionID(id); err != nil {
		return err
	}
	if threshold < 2 || threshold > len(s.servers) {
		return ErrInvalidThreshold
	}
	return nil
}

func (s *LocalSealer) server(objectID string) (keyServer, bool) {
	for _, srv := range s.servers {
		if srv.objectID == objectID {
			return srv, true
		}
	}
	return keyServer{}, false
}

func binding(packageID, id string) []byte {
	return []byte(packageID + ":" + id)
}
