package seal

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blobkeeper/internal/common"
)

// NonceSize is the number of random bytes appended to the policy object.
const NonceSize = 5

// DecodeHex decodes s with or without a leading "0x".
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}

// NewEncryptionID returns hex(policyObject || nonce) with a fresh nonce.
func NewEncryptionID(policyObjectID string) (string, error) {
	policy, err := DecodeHex(policyObjectID)
	if err != nil || len(policy) == 0 {
		return "", ErrInvalidPolicyObject
	}

	nonce, err := common.GenerateRandByteArray(NonceSize)
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	return hex.EncodeToString(append(policy, nonce...)), nil
}

// SplitEncryptionID separates an identifier into its policy object bytes
// and nonce.
func SplitEncryptionID(id string) (policy, nonce []byte, err error) {
	raw, err := DecodeHex(id)
	if err != nil || len(raw) <= NonceSize {
		return nil, nil, ErrInvalidIdentifier
	}
	return raw[:len(raw)-NonceSize], raw[len(raw)-NonceSize:], nil
}
