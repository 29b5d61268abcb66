package core

import "errors"

var (
	ErrUnconfiguredEnvironment = errors.New("unconfigured environment")
	ErrKeyNotFound             = errors.New("key not found")
	ErrStoreOperationFailed    = errors.New("store operation failed")
	ErrNotSignedIn             = errors.New("wallet is not signed in")
	ErrAccountNotFound         = errors.New("account does not exist")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrTokenExpired            = errors.New("token has expired")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidChallenge        = errors.New("invalid challenge")
	ErrInvalidMetadata         = errors.New("invalid token metadata")
	ErrKeyPairNotFound         = errors.New("key pair not found")
	ErrTokenNotFound           = errors.New("token not found")
	ErrTokenInvalidated        = errors.New("token has been invalidated")
)
