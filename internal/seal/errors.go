package seal

import "errors"

var (
	ErrInvalidPolicyObject = errors.New("seal: policy object id must be hex")
	ErrInvalidIdentifier   = errors.New("seal: encryption identifier must be hex")
	ErrInvalidThreshold    = errors.New("seal: threshold must be between 2 and the number of key servers")
	ErrEmptyPackageID      = errors.New("seal: package id is empty")
	ErrNoKeyServers        = errors.New("seal: no key servers configured")
	ErrUnsupportedVersion  = errors.New("seal: unsupported encrypted object version")
	ErrNotEnoughShares     = errors.New("seal: not enough key servers to reach threshold")
)
