// Package session models the authorization proof handed to the decrypt
// path. A Key is a short-lived HS256 token naming the connected address and
// the policy package it was issued for.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSession = errors.New("session: invalid session key")
	ErrSessionExpired = errors.New("session: session key expired")
	ErrEmptySecret    = errors.New("session: signing secret is empty")
)

// Credential is any proof of authorization accepted by the decrypt path.
type Credential interface {
	// Subject is the address the credential was issued to.
	Subject() string
	// Expired reports whether the credential is no longer usable at t.
	Expired(t time.Time) bool
}

// Claims are the registered claims plus the policy package id.
type Claims struct {
	jwt.RegisteredClaims
	PackageID string `json:"package_id"`
}

// Key is a signed session credential.
type Key struct {
	Token     string
	Address   string
	PackageID string
	ExpiresAt time.Time
}

var _ Credential = (*Key)(nil)

// Subject returns the address the key was issued to, or "" for a nil key.
func (k *Key) Subject() string {
	if k == nil {
		return ""
	}
	return k.Address
}

// Expired reports whether the key is unusable at t. A nil key is always
// expired.
func (k *Key) Expired(t time.Time) bool {
	if k == nil {
		return true
	}
	return !t.Before(k.ExpiresAt)
}

// Issue signs a session key for address valid for ttl.
func Issue(address, packageID string, ttl time.Duration, secret []byte) (*Key, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	now := time.Now()
	exp := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		PackageID: packageID,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return nil, err
	}

	return &Key{Token: signed, Address: address, PackageID: packageID, ExpiresAt: exp}, nil
}

// Parse verifies tokenString and rebuilds the Key.
func Parse(tokenString string, secret []byte) (*Key, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, errors.Join(ErrInvalidSession, err)
	}

	if !token.Valid {
		return nil, ErrInvalidSession
	}

	key := &Key{Token: tokenString, Address: claims.Subject, PackageID: claims.PackageID}
	if claims.ExpiresAt != nil {
		key.ExpiresAt = claims.ExpiresAt.Time
	}
	return key, nil
}
